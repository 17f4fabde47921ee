package services

import (
	"errors"
	"strings"

	"socialapi/internal/models"
	"socialapi/internal/repositories"

	"github.com/sirupsen/logrus"
)

// PostService handles posts, comments and likes.
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	assets   AssetRemover
	events   EventPublisher
	log      logrus.FieldLogger
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, userRepo repositories.UserRepository, assets AssetRemover, events EventPublisher, log logrus.FieldLogger) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		assets:   assets,
		events:   events,
		log:      orDiscard(log),
	}
}

// CreatePost stores a post owned by userID. imagePath is the already stored
// upload, or empty; it is removed again if the post cannot be created.
func (s *PostService) CreatePost(userID, content, imagePath string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		removeAsset(s.assets, s.log, imagePath)
		return nil, newError(KindValidationFailed, MsgContentRequired)
	}
	if _, err := findUser(s.userRepo, userID); err != nil {
		removeAsset(s.assets, s.log, imagePath)
		return nil, err
	}

	post := &models.Post{
		UserID:  userID,
		Content: content,
		Image:   imagePath,
	}
	if err := s.postRepo.Create(post); err != nil {
		removeAsset(s.assets, s.log, imagePath)
		return nil, storageError("failed to create post", err)
	}
	s.log.WithFields(logrus.Fields{"post_id": post.ID, "user_id": userID}).Info("post created")

	publishEvent(s.events, s.log, EventPostCreated, map[string]interface{}{
		"postID": post.ID,
		"userID": userID,
	})
	return s.GetPostByID(post.ID)
}

// GetAllPosts lists every post, newest first.
func (s *PostService) GetAllPosts() ([]models.Post, error) {
	posts, err := s.postRepo.GetAll()
	if err != nil {
		return nil, storageError("failed to list posts", err)
	}
	return posts, nil
}

// GetPostsByUser lists the posts of userID, newest first.
func (s *PostService) GetPostsByUser(userID string) ([]models.Post, error) {
	posts, err := s.postRepo.GetByUserID(userID)
	if err != nil {
		return nil, storageError("failed to list posts", err)
	}
	return posts, nil
}

// GetPostByID retrieves a single post.
func (s *PostService) GetPostByID(id string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, MsgPostNotFound)
		}
		return nil, storageError("failed to load post", err)
	}
	return post, nil
}

// DeletePost deletes a post owned by actorID and then its image.
func (s *PostService) DeletePost(actorID, postID string) error {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}
	if !CanModify(actorID, post.UserID) {
		return newError(KindForbidden, MsgPostForbidden)
	}

	if err := s.postRepo.Delete(postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return newError(KindNotFound, MsgPostNotFound)
		}
		return storageError("failed to delete post", err)
	}
	removeAsset(s.assets, s.log, post.Image)
	s.log.WithFields(logrus.Fields{"post_id": postID, "user_id": actorID}).Info("post deleted")

	publishEvent(s.events, s.log, EventPostDeleted, map[string]interface{}{
		"postID": postID,
		"userID": actorID,
	})
	return nil
}

// LikePost adds actorID to the post's like set. Any identity may like any post.
func (s *PostService) LikePost(actorID, postID string) ([]models.Like, error) {
	if _, err := s.GetPostByID(postID); err != nil {
		return nil, err
	}
	if err := s.postRepo.AddLike(postID, actorID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, newError(KindAlreadyInState, MsgAlreadyLiked)
		}
		return nil, storageError("failed to like post", err)
	}

	publishEvent(s.events, s.log, EventPostLiked, map[string]interface{}{
		"postID": postID,
		"userID": actorID,
	})
	return s.likes(postID)
}

// UnlikePost removes actorID from the post's like set.
func (s *PostService) UnlikePost(actorID, postID string) ([]models.Like, error) {
	if _, err := s.GetPostByID(postID); err != nil {
		return nil, err
	}
	if err := s.postRepo.RemoveLike(postID, actorID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotInState, MsgNotLiked)
		}
		return nil, storageError("failed to unlike post", err)
	}
	return s.likes(postID)
}

func (s *PostService) likes(postID string) ([]models.Like, error) {
	likes, err := s.postRepo.GetLikes(postID)
	if err != nil {
		return nil, storageError("failed to load likes", err)
	}
	return likes, nil
}

// AddComment adds a comment owned by actorID to the post.
func (s *PostService) AddComment(actorID, postID, text string) ([]models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newError(KindValidationFailed, MsgTextRequired)
	}
	if _, err := s.GetPostByID(postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID: postID,
		UserID: actorID,
		Text:   text,
	}
	if err := s.postRepo.AddComment(comment); err != nil {
		return nil, storageError("failed to add comment", err)
	}

	publishEvent(s.events, s.log, EventCommentCreated, map[string]interface{}{
		"postID":    postID,
		"commentID": comment.ID,
		"userID":    actorID,
	})
	return s.comments(postID)
}

// DeleteComment deletes a comment. Only the comment's own author may do so;
// owning the post grants nothing.
func (s *PostService) DeleteComment(actorID, postID, commentID string) ([]models.Comment, error) {
	if _, err := s.GetPostByID(postID); err != nil {
		return nil, err
	}
	comment, err := s.postRepo.GetComment(postID, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, MsgCommentNotFound)
		}
		return nil, storageError("failed to load comment", err)
	}
	if !CanModify(actorID, comment.UserID) {
		return nil, newError(KindForbidden, MsgCommentForbidden)
	}

	if err := s.postRepo.DeleteComment(postID, commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, MsgCommentNotFound)
		}
		return nil, storageError("failed to delete comment", err)
	}
	return s.comments(postID)
}

func (s *PostService) comments(postID string) ([]models.Comment, error) {
	comments, err := s.postRepo.GetComments(postID)
	if err != nil {
		return nil, storageError("failed to load comments", err)
	}
	return comments, nil
}
