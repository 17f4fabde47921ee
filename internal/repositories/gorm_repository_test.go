package repositories_test

import (
	"testing"

	"socialapi/internal/models"
	"socialapi/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Follow{}, &models.Post{}, &models.Comment{}, &models.Like{}))
	return db
}

func createUser(t *testing.T, repo *repositories.GORMUserRepository, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@x.io", Password: "digest"}
	require.NoError(t, repo.Create(u))
	require.NotEmpty(t, u.ID)
	return u
}

func TestUserRepository_Lookups(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))
	alice := createUser(t, repo, "alice")
	createUser(t, repo, "bob")

	got, err := repo.GetByEmail("alice@x.io")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, []string{}, got.Followers)

	_, err = repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	dup := &models.User{Username: "alice", Email: "other@x.io", Password: "digest"}
	assert.Error(t, repo.Create(dup))

	found, err := repo.Search("B@X", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bob", found[0].Username)

	found, err = repo.Search("%", 20)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestUserRepository_FollowEdge(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")

	require.NoError(t, repo.Follow(alice.ID, bob.ID))
	assert.ErrorIs(t, repo.Follow(alice.ID, bob.ID), repositories.ErrDuplicate)

	gotAlice, err := repo.GetByID(alice.ID)
	require.NoError(t, err)
	gotBob, err := repo.GetByID(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, gotAlice.Following)
	assert.Empty(t, gotAlice.Followers)
	assert.Equal(t, []string{alice.ID}, gotBob.Followers)

	require.NoError(t, repo.Unfollow(alice.ID, bob.ID))
	assert.ErrorIs(t, repo.Unfollow(alice.ID, bob.ID), repositories.ErrNotFound)

	following, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := setupDB(t)
	users := repositories.NewGORMUserRepository(db)
	posts := repositories.NewGORMPostRepository(db)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	post := &models.Post{UserID: alice.ID, Content: "hi"}
	require.NoError(t, posts.Create(post))
	require.NoError(t, posts.AddLike(post.ID, bob.ID))
	assert.ErrorIs(t, posts.AddLike(post.ID, bob.ID), repositories.ErrDuplicate)
	require.NoError(t, posts.AddComment(&models.Comment{PostID: post.ID, UserID: bob.ID, Text: "nice"}))

	got, err := posts.GetByID(post.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "alice", got.User.Username)
	assert.Empty(t, got.User.Email)
	assert.Len(t, got.Likes, 1)
	require.Len(t, got.Comments, 1)
	require.NotNil(t, got.Comments[0].User)
	assert.Equal(t, "bob", got.Comments[0].User.Username)

	_, err = posts.GetComment("other-post", got.Comments[0].ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, posts.Delete(post.ID))
	assert.ErrorIs(t, posts.Delete(post.ID), repositories.ErrNotFound)

	var likes, comments int64
	db.Model(&models.Like{}).Count(&likes)
	db.Model(&models.Comment{}).Count(&comments)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
}

func TestUserRepository_CreateDuplicateIsTranslated(t *testing.T) {
	repo := repositories.NewGORMUserRepository(setupDB(t))
	createUser(t, repo, "alice")

	err := repo.Create(&models.User{Username: "alice2", Email: "alice@x.io", Password: "digest"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	err = repo.Create(&models.User{Username: "alice", Email: "other@x.io", Password: "digest"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)
}

func TestCompositeKeysReportDuplicatedKey(t *testing.T) {
	db := setupDB(t)
	users := repositories.NewGORMUserRepository(db)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)
	err := db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Create(&models.Like{PostID: "post-1", UserID: bob.ID}).Error)
	err = db.Create(&models.Like{PostID: "post-1", UserID: bob.ID}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
