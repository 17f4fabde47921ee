package services

import (
	"errors"
	"strings"

	"socialapi/internal/models"
	"socialapi/internal/repositories"
)

// SearchLimit caps the number of users returned by Search.
const SearchLimit = 20

// UserService serves the public identity lookups.
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetAllUsers lists every identity.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, storageError("failed to list users", err)
	}
	return users, nil
}

// GetUserByID retrieves an identity by id.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return findUser(s.userRepo, id)
}

// GetUserByEmail retrieves an identity by email.
func (s *UserService) GetUserByEmail(email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, MsgUserNotFound)
		}
		return nil, storageError("failed to load user", err)
	}
	return user, nil
}

// SearchUsers matches query against usernames and emails. A blank query matches nothing.
func (s *UserService) SearchUsers(query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	users, err := s.userRepo.Search(query, SearchLimit)
	if err != nil {
		return nil, storageError("failed to search users", err)
	}
	return users, nil
}

// GetUsersByIDs retrieves several identities at once.
func (s *UserService) GetUsersByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, newError(KindValidationFailed, MsgUserIDsRequired)
	}
	users, err := s.userRepo.GetByIDs(ids)
	if err != nil {
		return nil, storageError("failed to load users", err)
	}
	return users, nil
}
