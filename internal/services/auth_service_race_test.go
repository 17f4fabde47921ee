package services_test

import (
	"testing"
	"time"

	"socialapi/internal/models"
	"socialapi/internal/repositories"
	"socialapi/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// staleUserRepository answers the next lookups with ErrNotFound, as if a
// concurrent registration committed right after the uniqueness checks.
type staleUserRepository struct {
	*repositories.GORMUserRepository
	staleEmail    int
	staleUsername int
}

func (r *staleUserRepository) GetByEmail(email string) (*models.User, error) {
	if r.staleEmail > 0 {
		r.staleEmail--
		return nil, repositories.ErrNotFound
	}
	return r.GORMUserRepository.GetByEmail(email)
}

func (r *staleUserRepository) GetByUsername(username string) (*models.User, error) {
	if r.staleUsername > 0 {
		r.staleUsername--
		return nil, repositories.ErrNotFound
	}
	return r.GORMUserRepository.GetByUsername(username)
}

func newSQLiteUserRepository(t *testing.T) *repositories.GORMUserRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.New().String()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}))
	return repositories.NewGORMUserRepository(db)
}

func TestAuthService_RegisterLosingConcurrentInsert(t *testing.T) {
	gormRepo := newSQLiteUserRepository(t)
	require.NoError(t, gormRepo.Create(&models.User{Username: "alice", Email: "alice@x.io", Password: "digest"}))

	tokens := services.NewTokenService(testJWTSecret, time.Hour)
	passwords := services.NewPasswordService(bcrypt.MinCost)

	t.Run("SameEmail", func(t *testing.T) {
		repo := &staleUserRepository{GORMUserRepository: gormRepo, staleEmail: 1}
		authService := services.NewAuthService(repo, passwords, tokens, nil, nil)

		_, _, err := authService.Register(services.RegisterInput{Username: "alice2", Email: "alice@x.io", Password: "password123"})
		require.Error(t, err)
		assert.Equal(t, services.KindAlreadyExists, services.KindOf(err))
		assert.Equal(t, services.MsgEmailTaken, err.(*services.Error).Message)
	})

	t.Run("SameUsername", func(t *testing.T) {
		repo := &staleUserRepository{GORMUserRepository: gormRepo, staleUsername: 1}
		authService := services.NewAuthService(repo, passwords, tokens, nil, nil)

		_, _, err := authService.Register(services.RegisterInput{Username: "alice", Email: "other@x.io", Password: "password123"})
		require.Error(t, err)
		assert.Equal(t, services.KindAlreadyExists, services.KindOf(err))
		assert.Equal(t, services.MsgUsernameTaken, err.(*services.Error).Message)
	})

	users, err := gormRepo.GetAll()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
