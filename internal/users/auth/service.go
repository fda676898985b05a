// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// # Service

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, rotation,
// or login logic must be reviewed by the security team.
type Service struct {
	users      UserRepository
	sessions   SessionStore
	codec      *sec.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
// Zero TTLs fall back to the package defaults.
func NewService(users UserRepository, sessions SessionStore, codec *sec.Codec, accessTTL, refreshTTL time.Duration) *Service {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTokenTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTokenTTL
	}
	return &Service{
		users:      users,
		sessions:   sessions,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTokenTTL exposes the configured access token lifetime for the
// transport layer (cookie expiry, expires_in payload field).
func (service *Service) AccessTokenTTL() time.Duration { return service.accessTTL }

// RefreshTokenTTL exposes the configured refresh token lifetime.
func (service *Service) RefreshTokenTTL() time.Duration { return service.refreshTTL }

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member, handling password hashing and
uniqueness checks. Registration does NOT log the user in; a fresh Login is
required to establish a session.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.users.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.users.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	displayName := input.DisplayName
	if displayName == "" {
		displayName = input.Username
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		Role:         sec.RoleMember,
		IsActive:     true,
	}

	// Persist the user to the database
	if err := service.users.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Login    string // Can be Username or Email
	Password string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	Tokens TokenPair
	User   *User
}

/*
Login validates user credentials and establishes the subject's single session.

Description: Verifies identity with a constant-time password comparison, mints
a fresh access/refresh pair, and installs the refresh token's fingerprint as
the subject's one live session. Any previous session is silently superseded.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session credentials
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	var user *User
	var err error
	// Flexible login: look up by Email or Username
	user, err = service.users.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.users.FindByUsername(context, input.Login)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Mint the access/refresh credential pair
	tokens, err := service.mintPair(user.ID)
	if err != nil {
		return nil, err
	}

	// Install the session: only the fingerprint of the refresh token is kept.
	// One retry on store unavailability before surfacing the failure.
	err = service.withRetry(func() error {
		return service.sessions.SetFingerprint(context, user.ID, sec.Fingerprint(tokens.RefreshToken), service.refreshTTL)
	})
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_install_failed: %w", err)
	}

	// Best-effort bookkeeping; a failed timestamp must not fail the login.
	_ = service.users.TouchLastLogin(context, user.ID)

	return &LoginSession{Tokens: *tokens, User: user}, nil
}

/*
Logout tears down the subject's session.

Description: Idempotent. The refresh token is verified only to learn which
subject to clear; an unverifiable token means there is nothing to clear and
logout still succeeds.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Store failures (after one retry)
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	claims, err := service.codec.Verify(refreshToken, sec.ClassRefresh)
	if err != nil {
		return nil
	}

	err = service.withRetry(func() error {
		return service.sessions.Clear(context, claims.Subject)
	})
	if err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Session Rotation

/*
Refresh implements strict refresh-token rotation.

Description: Verifies the presented refresh token, then atomically trades its
fingerprint for a freshly minted one. Presenting a superseded token is treated
as reuse: the session is destroyed server-side and [ErrSessionRevoked] is
returned. Under concurrent refreshes with the same token, exactly one caller
receives new credentials.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *LoginSession: New session credentials
  - err: ErrInvalidRefreshToken, ErrSessionRevoked, or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*LoginSession, error) {

	// 1. Cryptographic verification. Malformed, forged, expired, and
	//    wrong-class tokens are indistinguishable to the caller.
	claims, err := service.codec.Verify(refreshToken, sec.ClassRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// 2. The account must still exist and be active. Only a definitive
	//    "no such account" is an auth verdict; a lookup that fails for
	//    infrastructure reasons must not burn the client's credentials.
	user, err := service.users.FindByID(context, claims.Subject)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, apperr.DependencyTimeout(fmt.Errorf("auth_service_refresh_lookup_failed: %w", err))
	}
	if !user.IsActive {
		return nil, ErrInvalidRefreshToken
	}

	// 3. Mint the replacement pair BEFORE the swap so the new fingerprint is
	//    ready to install in the same atomic step.
	tokens, err := service.mintPair(user.ID)
	if err != nil {
		return nil, err
	}

	// 4. Atomic compare-and-swap on the stored fingerprint.
	var status RotateStatus
	err = service.withRetry(func() error {
		var rotateErr error
		status, rotateErr = service.sessions.Rotate(
			context,
			user.ID,
			sec.Fingerprint(refreshToken),
			sec.Fingerprint(tokens.RefreshToken),
			service.refreshTTL,
		)
		return rotateErr
	})
	if err != nil {
		return nil, fmt.Errorf("auth_service_rotate_failed: %w", err)
	}

	switch status {
	case RotateStatusRotated:
		return &LoginSession{Tokens: *tokens, User: user}, nil
	case RotateStatusMismatch:
		// Reuse detected. The store already deleted the session, so the
		// holder of the newer token is locked out as well.
		return nil, ErrSessionRevoked
	default:
		// No stored fingerprint: the session was torn down (logout, password
		// change) or expired. Trading a token against a dead session is the
		// same verdict as reuse.
		return nil, ErrSessionRevoked
	}
}

// # Password Management

/*
ChangePassword allows an authenticated user to update their credentials.

Description: Verifies the current password, replaces the hash, and destroys
the subject's session so every outstanding refresh token is dead. The client
must log in again with the new password.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	// Security side effect: destroy the session so previously issued refresh
	// tokens can never be traded in again.
	err = service.withRetry(func() error {
		return service.sessions.Clear(context, userID)
	})
	if err != nil {
		return fmt.Errorf("auth_service_change_password_invalidate_failed: %w", err)
	}

	return nil
}

// # Identity Resolution

/*
ResolveIdentity returns the live identity behind a verified subject id.

Description: Called by the authentication gate on every authenticated request
so that profile changes (display name, avatar, role) are visible immediately
and deleted accounts stop authenticating even with a valid token.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *sec.Identity: Per-request identity view
  - err: Resolution failures
*/
func (service *Service) ResolveIdentity(context context.Context, userID string) (*sec.Identity, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.NotFound("User")
	}
	return user.Identity(), nil
}

// # Internals

// mintPair issues a fresh access/refresh credential pair for the subject.
// Each token carries its own rotation id, so two pairs minted in the same
// instant are still distinct credentials. The pair expiries are the exact
// instants stamped into the claims.
func (service *Service) mintPair(userID string) (*TokenPair, error) {
	accessToken, accessExpiresAt, err := service.codec.Mint(userID, sec.ClassAccess, service.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_mint_access_failed: %w", err)
	}

	refreshToken, refreshExpiresAt, err := service.codec.Mint(userID, sec.ClassRefresh, service.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_mint_refresh_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, nil
}

// withRetry runs operation and retries it exactly once if the session store
// reports itself unavailable. Any other failure surfaces immediately.
func (service *Service) withRetry(operation func() error) error {
	err := operation()
	if errors.Is(err, ErrStoreUnavailable) {
		return operation()
	}
	return err
}
