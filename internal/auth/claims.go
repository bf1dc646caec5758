package auth

import "time"

// BearerClaims are the claims carried inside a PASETO bearer token.
// v4.local tokens are encrypted, so clients cannot read them, but the
// design does not rely on that: the only secret-ish claim is the opaque
// session token, whose liveness is checked server-side anyway.
type BearerClaims struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	SessionToken string `json:"session_token"`

	// Standard PASETO claims.
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
