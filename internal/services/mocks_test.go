package services_test

import (
	"context"

	"socialapi/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) users(args mock.Arguments) ([]models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	return m.user(m.Called(id))
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	return m.user(m.Called(username))
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	return m.user(m.Called(email))
}

func (m *MockUserRepository) GetByIDs(ids []string) ([]models.User, error) {
	return m.users(m.Called(ids))
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	return m.users(m.Called())
}

func (m *MockUserRepository) Search(query string, limit int) ([]models.User, error) {
	return m.users(m.Called(query, limit))
}

// MockFollowRepository is a mock implementation of repositories.FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Follow(followerID, followingID string) error {
	return m.Called(followerID, followingID).Error(0)
}

func (m *MockFollowRepository) Unfollow(followerID, followingID string) error {
	return m.Called(followerID, followingID).Error(0)
}

func (m *MockFollowRepository) IsFollowing(followerID, followingID string) (bool, error) {
	args := m.Called(followerID, followingID)
	return args.Bool(0), args.Error(1)
}

// MockPostRepository is a mock implementation of repositories.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *models.Post) error {
	return m.Called(post).Error(0)
}

func (m *MockPostRepository) GetAll() ([]models.Post, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByUserID(userID string) ([]models.Post, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(id string) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockPostRepository) AddLike(postID, userID string) error {
	return m.Called(postID, userID).Error(0)
}

func (m *MockPostRepository) RemoveLike(postID, userID string) error {
	return m.Called(postID, userID).Error(0)
}

func (m *MockPostRepository) GetLikes(postID string) ([]models.Like, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Like), args.Error(1)
}

func (m *MockPostRepository) AddComment(comment *models.Comment) error {
	return m.Called(comment).Error(0)
}

func (m *MockPostRepository) GetComment(postID, commentID string) (*models.Comment, error) {
	args := m.Called(postID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockPostRepository) DeleteComment(postID, commentID string) error {
	return m.Called(postID, commentID).Error(0)
}

func (m *MockPostRepository) GetComments(postID string) ([]models.Comment, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

// MockAssets records deleted upload paths.
type MockAssets struct {
	mock.Mock
}

func (m *MockAssets) Delete(ctx context.Context, path string) error {
	return m.Called(path).Error(0)
}

// MockEvents records published events.
type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) PublishEvent(eventType string, payload map[string]interface{}) error {
	return m.Called(eventType, payload).Error(0)
}
