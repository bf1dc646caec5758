package domain

import "time"

// Session is a server-side login record for an administrator.
//
// The Token field is the opaque random handle embedded in the signed bearer
// token as a private claim. The bearer token itself is never stored; every
// privileged request resolves its embedded opaque token against this table,
// which makes revocation immediate. At most one session exists per
// administrator: login replaces all prior sessions for that identity.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
