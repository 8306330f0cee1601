package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarspace/user-service/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Name:  "Alice Example",
		Email: "alice@example.com",
		Role:  models.RoleInstructor,
	}
}

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := NewTokenManager(testSecret, 24*time.Hour)

	tokenString, err := tm.Generate(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := tm.Validate(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "INSTRUCTOR", claims.Role)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "Alice Example", claims.Name)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, -time.Minute)

	tokenString, err := tm.Generate(testUser())
	require.NoError(t, err)

	claims, err := tm.Validate(tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, models.ErrTokenExpired)
	assert.True(t, tm.IsExpired(tokenString))
}

func TestTokenManager_WrongKey(t *testing.T) {
	issuer := NewTokenManager(testSecret, time.Hour)
	verifier := NewTokenManager("another-secret-another-secret-xx", time.Hour)

	tokenString, err := issuer.Generate(testUser())
	require.NoError(t, err)

	claims, err := verifier.Validate(tokenString)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, models.ErrTokenInvalid)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, bad := range []string{"", "garbage", "a.b.c"} {
		claims, err := tm.Validate(bad)
		assert.Nil(t, claims, "token %q", bad)
		assert.ErrorIs(t, err, models.ErrTokenInvalid, "token %q", bad)
	}
}
