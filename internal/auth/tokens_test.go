package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetbayapp/assetbay-server/internal/domain"
)

const testKeyHex = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func newTestTokenService(t *testing.T, duration time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testKeyHex, duration)
	require.NoError(t, err)
	return svc
}

func testUser() *domain.AdminUser {
	return &domain.AdminUser{
		ID:       "adm-test123",
		Username: "testadmin",
	}
}

func TestNewTokenService_InvalidKey(t *testing.T) {
	_, err := NewTokenService("too-short", time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings64NotHex(), time.Hour)
	assert.Error(t, err)
}

// strings64NotHex returns a 64-char string that is not valid hex.
func strings64NotHex() string {
	b := make([]byte, 64)
	for i := range b {
		b[i] = 'z'
	}
	return string(b)
}

func TestBearerTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	sessionToken, err := svc.GenerateSessionToken()
	require.NoError(t, err)
	require.NotEmpty(t, sessionToken)

	bearer, err := svc.GenerateBearerToken(testUser(), sessionToken)
	require.NoError(t, err)

	claims, err := svc.VerifyBearerToken(bearer)
	require.NoError(t, err)
	assert.Equal(t, "adm-test123", claims.UserID)
	assert.Equal(t, "testadmin", claims.Username)
	assert.Equal(t, sessionToken, claims.SessionToken)
}

func TestVerifyBearerToken_Expired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	bearer, err := svc.GenerateBearerToken(testUser(), "session-token")
	require.NoError(t, err)

	_, err = svc.VerifyBearerToken(bearer)
	assert.Error(t, err)
}

func TestVerifyBearerToken_WrongKey(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	bearer, err := svc.GenerateBearerToken(testUser(), "session-token")
	require.NoError(t, err)

	otherKeyHex := "fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210"
	other, err := NewTokenService(otherKeyHex, time.Hour)
	require.NoError(t, err)

	_, err = other.VerifyBearerToken(bearer)
	assert.Error(t, err)
}

func TestVerifyBearerToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	_, err := svc.VerifyBearerToken("v4.local.garbage")
	assert.Error(t, err)
}

func TestGenerateSessionToken_Unique(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	first, err := svc.GenerateSessionToken()
	require.NoError(t, err)
	second, err := svc.GenerateSessionToken()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
