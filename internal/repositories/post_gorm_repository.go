package repositories

import (
	"errors"
	"fmt"

	"socialapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// authorColumns limits populated authors to their public summary.
func authorColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "profile_picture")
}

func (r *GORMPostRepository) withRelations() *gorm.DB {
	return r.db.
		Preload("User", authorColumns).
		Preload("Likes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Comments.User", authorColumns)
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Omit("User", "Likes", "Comments").Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetAll retrieves all posts from the database.
func (r *GORMPostRepository) GetAll() ([]models.Post, error) {
	var posts []models.Post
	if err := r.withRelations().Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}

// GetByUserID retrieves the posts owned by userID.
func (r *GORMPostRepository) GetByUserID(userID string) ([]models.Post, error) {
	var posts []models.Post
	if err := r.withRelations().Where("user_id = ?", userID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts of user %s: %w", userID, err)
	}
	return posts, nil
}

// GetByID retrieves a single post by its ID from the database.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.withRelations().First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	return &post, nil
}

// Delete deletes a post together with its likes and comments.
func (r *GORMPostRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes of post %s: %w", id, err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of post %s: %w", id, err)
		}
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// AddLike adds userID to the like set of postID.
func (r *GORMPostRepository) AddLike(postID, userID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Like{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check like: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("post %s already liked by %s: %w", postID, userID, ErrDuplicate)
		}
		if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("post %s already liked by %s: %w", postID, userID, ErrDuplicate)
			}
			return fmt.Errorf("failed to create like: %w", err)
		}
		return nil
	})
}

// RemoveLike removes userID from the like set of postID.
func (r *GORMPostRepository) RemoveLike(postID, userID string) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %s not liked by %s: %w", postID, userID, ErrNotFound)
	}
	return nil
}

// GetLikes lists the likes of postID.
func (r *GORMPostRepository) GetLikes(postID string) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.Where("post_id = ?", postID).Order("created_at DESC").Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to get likes of post %s: %w", postID, err)
	}
	return likes, nil
}

// AddComment stores a new comment.
func (r *GORMPostRepository) AddComment(comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if err := r.db.Omit("User").Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetComment retrieves commentID if it belongs to postID.
func (r *GORMPostRepository) GetComment(postID, commentID string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, "id = ? AND post_id = ?", commentID, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment with ID %s not found: %w", commentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment %s: %w", commentID, err)
	}
	return &comment, nil
}

// DeleteComment deletes commentID from postID.
func (r *GORMPostRepository) DeleteComment(postID, commentID string) error {
	res := r.db.Where("id = ? AND post_id = ?", commentID, postID).Delete(&models.Comment{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %s not found for deletion: %w", commentID, ErrNotFound)
	}
	return nil
}

// GetComments lists the comments of postID with their authors.
func (r *GORMPostRepository) GetComments(postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Preload("User", authorColumns).Where("post_id = ?", postID).Order("created_at DESC").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get comments of post %s: %w", postID, err)
	}
	return comments, nil
}
