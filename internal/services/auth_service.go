package services

import (
	"errors"
	"strings"

	"socialapi/internal/models"
	"socialapi/internal/repositories"

	"github.com/sirupsen/logrus"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService handles registration, login and resolving the current identity.
type AuthService struct {
	userRepo  repositories.UserRepository
	passwords *PasswordService
	tokens    *TokenService
	events    EventPublisher
	log       logrus.FieldLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, passwords *PasswordService, tokens *TokenService, events EventPublisher, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		passwords: passwords,
		tokens:    tokens,
		events:    events,
		log:       orDiscard(log),
	}
}

// Register creates a new identity and returns a token for it.
// Email uniqueness is checked before username uniqueness.
func (s *AuthService) Register(in RegisterInput) (string, *models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if taken, err := s.exists(s.userRepo.GetByEmail, email); err != nil {
		return "", nil, err
	} else if taken {
		return "", nil, newError(KindAlreadyExists, MsgEmailTaken)
	}
	if taken, err := s.exists(s.userRepo.GetByUsername, username); err != nil {
		return "", nil, err
	} else if taken {
		return "", nil, newError(KindAlreadyExists, MsgUsernameTaken)
	}

	digest, err := s.passwords.Hash(in.Password)
	if err != nil {
		return "", nil, err
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		Password:       digest,
		ProfilePicture: models.DefaultProfilePicture,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return "", nil, s.duplicateError(email)
		}
		return "", nil, storageError("failed to register user", err)
	}
	s.log.WithField("user_id", user.ID).Info("user registered")

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}

	publishEvent(s.events, s.log, EventUserRegistered, map[string]interface{}{
		"userID":   user.ID,
		"username": user.Username,
	})
	return token, user, nil
}

func (s *AuthService) exists(lookup func(string) (*models.User, error), value string) (bool, error) {
	_, err := lookup(value)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repositories.ErrNotFound):
		return false, nil
	default:
		return false, storageError("failed to check existing users", err)
	}
}

// duplicateError reports a unique-key conflict raised by a concurrent
// registration, naming the email when it is the colliding field.
func (s *AuthService) duplicateError(email string) *Error {
	if taken, err := s.exists(s.userRepo.GetByEmail, email); err == nil && taken {
		return newError(KindAlreadyExists, MsgEmailTaken)
	}
	return newError(KindAlreadyExists, MsgUsernameTaken)
}

// Login authenticates by email and password and returns a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", newError(KindValidationFailed, MsgInvalidCredentials)
		}
		return "", storageError("failed to load user", err)
	}

	if !s.passwords.Verify(password, user.Password) {
		return "", newError(KindValidationFailed, MsgInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	s.log.WithField("user_id", user.ID).Info("user logged in")
	return token, nil
}

// Me returns the identity behind userID.
func (s *AuthService) Me(userID string) (*models.User, error) {
	return findUser(s.userRepo, userID)
}

func findUser(repo repositories.UserRepository, id string) (*models.User, error) {
	user, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, MsgUserNotFound)
		}
		return nil, storageError("failed to load user", err)
	}
	return user, nil
}
