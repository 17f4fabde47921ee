package repositories

import "socialapi/internal/models"

// PostRepository defines the interface for post, comment and like data access.
// Lists are ordered newest first.
type PostRepository interface {
	Create(post *models.Post) error
	GetAll() ([]models.Post, error)
	GetByUserID(userID string) ([]models.Post, error)
	GetByID(id string) (*models.Post, error)
	Delete(id string) error

	AddLike(postID, userID string) error
	RemoveLike(postID, userID string) error
	GetLikes(postID string) ([]models.Like, error)

	AddComment(comment *models.Comment) error
	GetComment(postID, commentID string) (*models.Comment, error)
	DeleteComment(postID, commentID string) error
	GetComments(postID string) ([]models.Comment, error)
}
