package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seikotsu/booking-api/internal/model"
)

func testService() *JWTService {
	return NewJWTService(JWTConfig{
		Secret:             "test-secret",
		RefreshSecret:      "test-refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testService()
	user := &model.User{ID: uuid.New(), Email: "patient@example.com"}

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	svc := testService()
	user := &model.User{ID: uuid.New(), Email: "patient@example.com"}

	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(refresh)
	assert.Error(t, err, "refresh token signed with a different secret must be rejected")

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	svc := testService()
	user := &model.User{ID: uuid.New(), Email: "patient@example.com"}

	// Back-to-back mints land in the same second; revocation compares
	// stored token strings, so they must still differ.
	first, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)
	second, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = svc.ValidateRefreshToken(first)
	assert.NoError(t, err)
	_, err = svc.ValidateRefreshToken(second)
	assert.NoError(t, err)
}

func TestValidateGarbage(t *testing.T) {
	svc := testService()

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
