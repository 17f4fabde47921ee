package services_test

import (
	"strings"
	"testing"

	"socialapi/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	passwords := services.NewPasswordService(bcrypt.MinCost)

	digest, err := passwords.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", digest)

	assert.True(t, passwords.Verify("password123", digest))
	assert.False(t, passwords.Verify("password124", digest))
}

func TestPasswordService_SaltsEveryDigest(t *testing.T) {
	passwords := services.NewPasswordService(bcrypt.MinCost)

	first, err := passwords.Hash("password123")
	require.NoError(t, err)
	second, err := passwords.Hash("password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, passwords.Verify("password123", first))
	assert.True(t, passwords.Verify("password123", second))
}

func TestPasswordService_MalformedDigest(t *testing.T) {
	passwords := services.NewPasswordService(bcrypt.MinCost)
	assert.False(t, passwords.Verify("password123", "not-a-digest"))
	assert.False(t, passwords.Verify("password123", ""))
}

func TestPasswordService_TooLong(t *testing.T) {
	passwords := services.NewPasswordService(bcrypt.MinCost)

	_, err := passwords.Hash(strings.Repeat("x", 100))
	require.Error(t, err)
	assert.True(t, services.IsKind(err, services.KindValidationFailed))
}

func TestPasswordService_OutOfRangeCostFallsBack(t *testing.T) {
	digest, err := services.NewPasswordService(99).Hash("password123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
