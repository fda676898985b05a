// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Identity is the resolved, per-request view of an authenticated user.
//
// # Lifecycle
//
// It is built by the authentication middleware after token verification AND a
// live profile lookup, attached to the request context, and discarded when the
// request finishes. It is never persisted and never serialized into a token.
type Identity struct {
	// UserID is the opaque subject id the verified token was bound to.
	UserID string

	// Username is the unique handle of the account.
	Username string

	// DisplayName is the public channel name shown next to content.
	DisplayName string

	// AvatarURL is the resolved avatar asset location, if any.
	AvatarURL string

	// Role is the authorization level of the account.
	Role UserRole
}
