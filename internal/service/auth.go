// Package service implements the application logic between the HTTP
// handlers and the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/assetbayapp/assetbay-server/internal/auth"
	"github.com/assetbayapp/assetbay-server/internal/domain"
	domainerrors "github.com/assetbayapp/assetbay-server/internal/errors"
	"github.com/assetbayapp/assetbay-server/internal/id"
	"github.com/assetbayapp/assetbay-server/internal/ratelimit"
	"github.com/assetbayapp/assetbay-server/internal/store"
	"github.com/assetbayapp/assetbay-server/internal/validation"
)

// AuthService handles administrator login, bearer token verification,
// and logout.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	validator    *validation.Validator
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	st store.Store,
	tokenService *auth.TokenService,
	validator *validation.Validator,
	loginLimiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        st,
		tokenService: tokenService,
		validator:    validator,
		loginLimiter: loginLimiter,
		logger:       logger,
	}
}

// LoginRequest contains administrator credentials.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`

	// Extracted from the request by the handler.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse contains the bearer token and the authenticated admin.
type LoginResponse struct {
	User      *domain.AdminUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Login authenticates an administrator by username or email and issues a
// bearer token. A successful login replaces every prior session for the
// account, so at most one session is ever live per administrator.
//
// Unknown accounts, disabled accounts, and wrong passwords all produce
// the same invalid-credentials error, so callers cannot probe which
// identifiers exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if s.loginLimiter != nil && req.IPAddress != "" && !s.loginLimiter.Allow(req.IPAddress) {
		return nil, domainerrors.Unauthorized("too many login attempts, try again later")
	}

	user, err := s.store.GetAdminByIdentifier(ctx, req.Identifier)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid credentials")
		}
		return nil, fmt.Errorf("look up admin: %w", err)
	}

	if !user.IsActive {
		return nil, domainerrors.InvalidCredentials("invalid credentials")
	}
	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid credentials")
	}

	sessionToken, err := s.tokenService.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	sessionID, err := id.New("sess")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenService.TokenDuration())
	session := &domain.Session{
		ID:        sessionID,
		Token:     sessionToken,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
		CreatedAt: now,
	}

	if err := s.store.ReplaceUserSessions(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	bearerToken, err := s.tokenService.GenerateBearerToken(user, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("generate bearer token: %w", err)
	}

	// Login bookkeeping is best-effort; a failed stamp never blocks the
	// login itself.
	if err := s.store.RecordAdminLogin(ctx, user.ID, now); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to record login bookkeeping", "user_id", user.ID, "error", err)
		}
	} else {
		user.LastLoginAt = now
		user.LoginCount++
	}

	s.audit(ctx, user.ID, domain.ActionLogin, "", "", nil, req.IPAddress, req.UserAgent)

	if s.logger != nil {
		s.logger.Info("Admin logged in",
			"user_id", user.ID,
			"username", user.Username,
		)
	}

	return &LoginResponse{
		User:      user,
		Token:     bearerToken,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify authenticates a bearer token and returns its administrator.
// Beyond signature and expiry, the session embedded in the token must
// still be live: a token issued before a logout or a newer login is
// rejected even though it would otherwise verify.
func (s *AuthService) Verify(ctx context.Context, bearerToken string) (*domain.AdminUser, error) {
	claims, err := s.tokenService.VerifyBearerToken(bearerToken)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token")
	}

	session, err := s.store.GetSessionByToken(ctx, claims.SessionToken)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.SessionRevoked("session is no longer valid")
		}
		return nil, fmt.Errorf("look up session: %w", err)
	}
	if session.IsExpired() {
		return nil, domainerrors.TokenExpired("session expired")
	}

	user, err := s.store.GetAdmin(ctx, session.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.SessionRevoked("session is no longer valid")
		}
		return nil, fmt.Errorf("look up admin: %w", err)
	}
	if !user.IsActive {
		return nil, domainerrors.SessionRevoked("account is disabled")
	}

	return user, nil
}

// Logout revokes the session embedded in a bearer token. Logging out an
// already-revoked token succeeds; the end state is the same either way.
func (s *AuthService) Logout(ctx context.Context, bearerToken, ipAddress, userAgent string) error {
	claims, err := s.tokenService.VerifyBearerToken(bearerToken)
	if err != nil {
		return domainerrors.Unauthorized("invalid or expired token")
	}

	if err := s.store.DeleteSessionByToken(ctx, claims.SessionToken); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.audit(ctx, claims.UserID, domain.ActionLogout, "", "", nil, ipAddress, userAgent)

	if s.logger != nil {
		s.logger.Info("Admin logged out", "user_id", claims.UserID)
	}
	return nil
}

// CleanupExpiredSessions deletes sessions past their expiry and returns
// how many were removed. Called periodically by the background purge.
func (s *AuthService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredSessions(ctx)
}

// audit records an activity log entry. Audit failures are logged and
// swallowed; they never fail the action they describe.
func (s *AuthService) audit(ctx context.Context, userID, action, entity, entityID string, details domain.Document, ipAddress, userAgent string) {
	entryID, err := id.New("act")
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to generate audit entry ID", "error", err)
		}
		return
	}

	entry := &domain.ActivityLog{
		ID:        entryID,
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateActivityLog(ctx, entry); err != nil {
		if s.logger != nil {
			s.logger.Warn("Failed to write audit entry", "action", action, "error", err)
		}
	}
}
