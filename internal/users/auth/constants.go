// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// DefaultAccessTokenTTL is the fallback lifetime of an access token.
	// We keep it short (15m) to minimize the impact of a leaked token.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the fallback lifetime of a refresh token.
	// Long-lived (30 days) to provide a good user experience.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour

	// MinPasswordLength is the minimum accepted password length on registration
	// and password change.
	MinPasswordLength = 8

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 3
)
