package repositories

import (
	"errors"
	"fmt"
	"strings"

	"socialapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository and FollowRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s or %s already registered: %w", user.Username, user.Email, ErrDuplicate)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.Followers = []string{}
	user.Following = []string{}
	return nil
}

// Update saves the mutable profile fields of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"bio":             user.Bio,
		"profile_picture": user.ProfilePicture,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update user %s: %w", user.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.first("id = ?", id, "ID")
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first("username = ?", username, "username")
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email = ?", email, "email")
}

func (r *GORMUserRepository) first(cond, value, field string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, cond, value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with %s %s not found: %w", field, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s %s: %w", field, value, err)
	}
	users := []models.User{user}
	if err := r.attachFollows(users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

// GetByIDs retrieves every user whose ID is in ids. Unknown IDs are skipped.
func (r *GORMUserRepository) GetByIDs(ids []string) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}
	return users, r.attachFollows(users)
}

// GetAll retrieves all users from the database.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, r.attachFollows(users)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches query case-insensitively against username and email.
func (r *GORMUserRepository) Search(query string, limit int) ([]models.User, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	var users []models.User
	err := r.db.
		Where(`LOWER(username) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("username").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users for %q: %w", query, err)
	}
	return users, r.attachFollows(users)
}

// attachFollows fills Followers and Following for every user from the follows table.
func (r *GORMUserRepository) attachFollows(users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	index := make(map[string]*models.User, len(users))
	ids := make([]string, 0, len(users))
	for i := range users {
		users[i].Followers = []string{}
		users[i].Following = []string{}
		index[users[i].ID] = &users[i]
		ids = append(ids, users[i].ID)
	}

	var edges []models.Follow
	err := r.db.Where("follower_id IN ? OR following_id IN ?", ids, ids).Order("created_at").Find(&edges).Error
	if err != nil {
		return fmt.Errorf("failed to load follow edges: %w", err)
	}
	for _, e := range edges {
		if u, ok := index[e.FollowerID]; ok {
			u.Following = append(u.Following, e.FollowingID)
		}
		if u, ok := index[e.FollowingID]; ok {
			u.Followers = append(u.Followers, e.FollowerID)
		}
	}
	return nil
}

// Follow inserts the edge followerID -> followingID. The existence check and
// the insert share one transaction.
func (r *GORMUserRepository) Follow(followerID, followingID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Follow{}).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check follow edge: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("user %s already follows %s: %w", followerID, followingID, ErrDuplicate)
		}
		edge := models.Follow{FollowerID: followerID, FollowingID: followingID}
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("user %s already follows %s: %w", followerID, followingID, ErrDuplicate)
			}
			return fmt.Errorf("failed to create follow edge: %w", err)
		}
		return nil
	})
}

// Unfollow removes the edge followerID -> followingID.
func (r *GORMUserRepository) Unfollow(followerID, followingID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete follow edge: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %s does not follow %s: %w", followerID, followingID, ErrNotFound)
		}
		return nil
	})
}

// IsFollowing reports whether the edge followerID -> followingID exists.
func (r *GORMUserRepository) IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}
