package repositories

import "socialapi/internal/models"

// UserRepository defines the interface for identity data access.
// Returned users carry their Followers and Following id lists.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByIDs(ids []string) ([]models.User, error)
	GetAll() ([]models.User, error)
	Search(query string, limit int) ([]models.User, error)
}

// FollowRepository stores follow edges. Follow and Unfollow change both
// sides of the reciprocal state in a single transaction.
type FollowRepository interface {
	Follow(followerID, followingID string) error
	Unfollow(followerID, followingID string) error
	IsFollowing(followerID, followingID string) (bool, error)
}
