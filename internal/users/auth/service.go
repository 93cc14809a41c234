// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/beetlekeeper/internal/platform/apperr"
	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
	"github.com/taibuivan/beetlekeeper/internal/platform/validate"
	"github.com/taibuivan/beetlekeeper/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs access tokens. Satisfied by [*sec.TokenService].
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements account and session use cases.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	tokenProvider     TokenProvider
	logger            *slog.Logger
}

// NewService constructs an auth [Service].
func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		userRepository:    users,
		sessionRepository: sessions,
		tokenProvider:     tokens,
		logger:            logger,
	}
}

// # Credential Rules

// checkCredentials applies the username and password rules shared by
// registration and the admin bootstrap.
func checkCredentials(username, password string) error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Custom(FieldUsername, username != "" && !usernamePattern.MatchString(username),
			"May only contain letters, digits, '.', '-' and '_'").
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, MinPasswordLength).
		MaxLen(FieldPassword, password, MaxPasswordLength)
	return validator.Err()
}

// # Registration

// RegisterInput holds the data required to open an account.
type RegisterInput struct {
	Username string
	Password string
}

/*
Register validates, hashes and persists a new member account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created account (role member)
  - error: ValidationError, Conflict (username taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	if err := checkCredentials(username, input.Password); err != nil {
		return nil, err
	}

	if _, err := service.userRepository.FindByUsername(context, username); err == nil {
		return nil, apperr.Conflict("Username is already taken")
	} else if !apperr.HasCode(err, "NOT_FOUND") {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         sec.RoleMember,
	}
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("account_registered", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

/*
EnsureAdmin makes sure the configured administrator exists and holds the admin
role. An existing account keeps its password and is promoted if needed. A blank
username disables the bootstrap.

Returns:
  - *User: The administrator, or nil when disabled
  - error: ValidationError for unusable credentials, or storage errors
*/
func (service *Service) EnsureAdmin(context context.Context, username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}

	existing, err := service.userRepository.FindByUsername(context, username)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing, nil
		}
		if err := service.userRepository.UpdateRole(context, existing.ID, string(sec.RoleAdmin)); err != nil {
			return nil, fmt.Errorf("auth_service_promote_admin_failed: %w", err)
		}
		existing.Role = sec.RoleAdmin
		service.logger.Warn("admin_account_promoted", slog.String("username", existing.Username))
		return existing, nil
	case !apperr.HasCode(err, "NOT_FOUND"):
		return nil, err
	}

	if err := checkCredentials(username, password); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	admin := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         sec.RoleAdmin,
	}
	if err := service.userRepository.Create(context, admin); err != nil {
		return nil, fmt.Errorf("auth_service_create_admin_failed: %w", err)
	}

	service.logger.Info("admin_account_created", slog.String("username", admin.Username))
	return admin, nil
}

// # Authentication

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username  string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession is a freshly issued token pair.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login verifies credentials and opens a session.

Unknown usernames and wrong passwords produce the same message.

Returns:
  - *LoginSession: Access token, refresh token and account
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	user, err := service.userRepository.FindByUsername(context, strings.TrimSpace(input.Username))
	if err != nil {
		if apperr.HasCode(err, "NOT_FOUND") {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.issue(context, user, input.UserAgent, input.IPAddress)
}

// issue signs an access token and stores a new refresh session for user.
func (service *Service) issue(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	session := &Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: userAgent,
		IPAddress: ipAddress,
		ExpiresAt: expiresAt,
	}
	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// Logout revokes the session behind refreshToken. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Management

/*
RefreshSession rotates a refresh token.

The presented session is revoked before a new pair is issued, so a token can
only be exchanged once.

Returns:
  - *LoginSession: New credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) RefreshSession(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if err := service.sessionRepository.Revoke(context, session.ID); err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("User not found")
	}

	return service.issue(context, user, userAgent, ipAddress)
}

/*
ChangePassword verifies the current password, stores the new one and revokes
every other session of the user. The session behind currentRefreshToken stays.

Returns:
  - error: Unauthorized, ValidationError or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword, currentRefreshToken string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	validator := &validate.Validator{}
	validator.MinLen(FieldNewPassword, newPassword, MinPasswordLength).
		MaxLen(FieldNewPassword, newPassword, MaxPasswordLength)
	if err := validator.Err(); err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	if session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(currentRefreshToken)); err == nil {
		_ = service.sessionRepository.RevokeOthers(context, userID, session.ID)
	}

	service.logger.Info("password_changed", slog.String("user_id", userID))
	return nil
}

// Me returns the signed-in account.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// PurgeSessions deletes revoked and expired sessions.
func (service *Service) PurgeSessions(context context.Context) (int64, error) {
	removed, err := service.sessionRepository.DeleteExpired(context)
	if err != nil {
		return 0, err
	}
	service.logger.Info("sessions_purged", slog.Int64("removed", removed))
	return removed, nil
}
