package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amdragz/fiya/internal/infrastructure/logging"
)

const (
	// maxCustomersPerAdmin caps how many customer accounts one admin may create.
	maxCustomersPerAdmin = 5

	// starterPasswordLength is the length of generated customer passwords.
	starterPasswordLength = 12

	// tokenType is the token_type field of every issued pair.
	tokenType = "Bearer"
)

// Service orchestrates authentication: login, token refresh, logout,
// password changes and account creation.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   *TokenIssuer
	logger   *logging.Logger
}

// NewService creates an auth service.
func NewService(users UserRepository, sessions SessionRepository, tokens *TokenIssuer, logger *logging.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger.With("component", "auth"),
	}
}

// Login authenticates a user by email, password and expected role.
//
// Every failure mode (unknown email, role mismatch, wrong password)
// collapses to ErrInvalidCredentials so callers cannot probe which
// part was wrong. Success issues a token pair and replaces any prior
// session for the account.
func (s *Service) Login(ctx context.Context, email, password string, role Role) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	if user.Role != role {
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", string(user.Role))
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair,
// rotating the session.
//
// Signature or expiry failure returns ErrTokenInvalid. A token whose
// embedded session id no longer matches a live session (rotated out,
// revoked, expired, or logged out) returns ErrSessionNotFound.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("refresh session lookup: %w", err)
	}

	if session.Revoked || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("refresh user lookup: %w", err)
	}

	return s.issuePair(ctx, user)
}

// Logout deletes the user's session. Best-effort: store errors are
// logged, not returned, and logout always reports success.
func (s *Service) Logout(ctx context.Context, userID string) {
	if err := s.sessions.DeleteByUserID(ctx, userID); err != nil {
		s.logger.Warn("logout session delete failed", "user_id", userID, "error", err)
	}
}

// Authenticate resolves an access token into a caller identity.
func (s *Service) Authenticate(_ context.Context, accessToken string) (*Identity, error) {
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

// AuthenticatedUser returns the profile of the authenticated user.
func (s *Service) AuthenticatedUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !VerifyPassword(oldPassword, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	return s.setPassword(ctx, user.ID, newPassword)
}

// SetPassword stores a new password hash without checking the old one.
// Used for the one-time password set after a customer's first login with
// their generated starter password; the caller must already be
// authenticated as the target user.
func (s *Service) SetPassword(ctx context.Context, userID, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, user.ID, newPassword)
}

// CreateAdmin registers a new admin account (public signup).
func (s *Service) CreateAdmin(ctx context.Context, input NewAdmin) (*User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("admin created", "user_id", user.ID)
	return user, nil
}

// CreateCustomer creates a customer account on behalf of an admin.
//
// Each admin may create at most five customers; exceeding the limit
// returns ErrCustomerLimit. The customer's starter password is generated
// and returned exactly once — only its hash is stored.
func (s *Service) CreateCustomer(ctx context.Context, adminID string, input NewCustomer) (*CreatedCustomer, error) {
	admin, err := s.users.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Role != RoleAdmin {
		return nil, ErrUserNotFound
	}

	count, err := s.users.CountCustomersByCreator(ctx, admin.ID)
	if err != nil {
		return nil, err
	}
	if count >= maxCustomersPerAdmin {
		return nil, ErrCustomerLimit
	}

	password, err := GeneratePassword(starterPasswordLength)
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
		Role:         RoleCustomer,
		SpmID:        input.SpmID,
		CreatedBy:    admin.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("customer created", "user_id", user.ID, "created_by", admin.ID)
	return &CreatedCustomer{User: user, Password: password}, nil
}

// issuePair mints an access/refresh pair and upserts the session that
// the refresh token is bound to.
func (s *Service) issuePair(ctx context.Context, user *User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	sessionID := NewSessionID()
	refresh, expiresAt, err := s.tokens.IssueRefreshToken(sessionID, user.ID)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:           sessionID,
		UserID:       user.ID,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenType,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) setPassword(ctx context.Context, userID, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.logger.Info("password updated", "user_id", userID)
	return nil
}
