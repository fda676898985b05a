// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// # Sentinel Errors

var (
	// ErrInvalidRefreshToken indicates the presented refresh token failed
	// verification or no session exists for its subject.
	ErrInvalidRefreshToken = errors.New("auth: invalid refresh token")

	// ErrSessionRevoked indicates the presented refresh token was once valid
	// but has been superseded. This is the token-reuse signal: the session is
	// cleared server-side the moment it is observed.
	ErrSessionRevoked = errors.New("auth: session revoked or token reused")

	// ErrStoreUnavailable indicates the session store could not be reached in
	// time. Callers may retry; the service layer retries once before giving up.
	ErrStoreUnavailable = errors.New("auth: session store unavailable")
)

// # Rotation Outcome

// RotateStatus is the outcome of a compare-and-swap rotation attempt.
type RotateStatus int

const (
	// RotateStatusNone means no session exists for the subject.
	RotateStatusNone RotateStatus = iota

	// RotateStatusMismatch means a session exists but the presented
	// fingerprint is not the current one. The store deletes the session as a
	// side effect, so a stolen-then-reused token locks out the thief too.
	RotateStatusMismatch

	// RotateStatusRotated means the presented fingerprint matched and was
	// atomically replaced by the new one.
	RotateStatusRotated
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		TouchLastLogin records a successful authentication timestamp.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	TouchLastLogin(context context.Context, userID string) error

	/*
		SoftDelete marks the account as deleted without removing the row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	SoftDelete(context context.Context, id string) error
}

// # Session Data Access

// SessionStore holds the single refresh-token fingerprint per subject.
//
// Implementations never see raw tokens, only their fingerprints. A write for
// a subject replaces whatever was there before; there is no append.
type SessionStore interface {

	/*
		SetFingerprint unconditionally installs the subject's session.

		Description: Used on login, where any previous session is simply
		superseded.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - fingerprint: string
		  - ttl: time.Duration

		Returns:
		  - error: ErrStoreUnavailable or storage failures
	*/
	SetFingerprint(context context.Context, userID, fingerprint string, ttl time.Duration) error

	/*
		GetFingerprint returns the subject's current fingerprint.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - string: Current fingerprint, empty when no session exists
		  - error: ErrStoreUnavailable or storage failures
	*/
	GetFingerprint(context context.Context, userID string) (string, error)

	/*
		Rotate atomically replaces the session fingerprint, but only if the
		presented one is current.

		Description: The compare and the swap are a single atomic step; under
		concurrent refreshes with the same token, exactly one caller observes
		RotateStatusRotated. On RotateStatusMismatch the session is deleted as
		part of the same step.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - presented: string (fingerprint being traded in)
		  - next: string (fingerprint of the replacement token)
		  - ttl: time.Duration

		Returns:
		  - RotateStatus: See the status constants
		  - error: ErrStoreUnavailable or storage failures
	*/
	Rotate(context context.Context, userID, presented, next string, ttl time.Duration) (RotateStatus, error)

	/*
		Clear removes the subject's session. Clearing an absent session is not
		an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: ErrStoreUnavailable or storage failures
	*/
	Clear(context context.Context, userID string) error
}
