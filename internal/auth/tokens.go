package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/assetbayapp/assetbay-server/internal/domain"
	"github.com/assetbayapp/assetbay-server/internal/id"
)

const (
	tokenIssuer   = "assetbay-server"
	tokenAudience = "assetbay-admin"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32
	keyHexSize   = 64

	// Entropy of the opaque session token (256 bits).
	sessionTokenSize = 32
)

// TokenService issues and verifies the two halves of the auth design:
// an opaque random session token persisted server-side, and a PASETO
// v4.local bearer token handed to the client that embeds the opaque
// token as a private claim. The bearer token is self-describing but
// revocable, because every verification still resolves the embedded
// opaque token against the session table.
type TokenService struct {
	symmetricKey  paseto.V4SymmetricKey
	tokenDuration time.Duration
}

// NewTokenService creates a token service from a hex-encoded 256-bit key.
func NewTokenService(keyHex string, tokenDuration time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey:  key,
		tokenDuration: tokenDuration,
	}, nil
}

// GenerateSessionToken creates the opaque random token stored in the
// session table. NOT a PASETO token; just unguessable random bytes.
func (s *TokenService) GenerateSessionToken() (string, error) {
	b := make([]byte, sessionTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GenerateBearerToken creates a PASETO v4.local bearer token for the user,
// embedding the opaque session token as a private claim. The bearer token
// is never persisted; only the embedded session token is checked against
// the store.
func (s *TokenService) GenerateBearerToken(user *domain.AdminUser, sessionToken string) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.tokenDuration))

	tokenID, err := id.New("tok")
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("user_id", user.ID)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("username", user.Username)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("session_token", sessionToken)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyBearerToken verifies signature and expiry of a bearer token and
// returns its claims, including the embedded opaque session token.
// Liveness of the session itself is the caller's job; this only proves
// the token was issued by us and has not expired.
func (s *TokenService) VerifyBearerToken(tokenString string) (*BearerClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	var claims BearerClaims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}

	return &claims, nil
}

// TokenDuration returns the configured bearer token lifetime.
func (s *TokenService) TokenDuration() time.Duration {
	return s.tokenDuration
}
