// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user profile management and channel presentation.

It provides functionalities for users to view and update their private identity
data, upload avatar and cover images, and expose their public channel page.

# Architecture

  - Entities: ChannelProfile (public DTO).
  - Domain: This package depends on the auth package for the User entity.
  - Media: Avatar and cover bytes are delegated to the asset-hosting client.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/vidora/internal/users/auth"
)

// # Domain Entities

// ChannelProfile is the public view of a user's channel. It never exposes
// email, password material, or account flags.
type ChannelProfile struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"display_name"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	CoverURL        string    `json:"cover_url,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	SubscriberCount int64     `json:"subscriber_count"`
	SubscribedCount int64     `json:"subscribed_count"`
	VideoCount      int64     `json:"video_count"`
	IsSubscribed    bool      `json:"is_subscribed"`
	JoinedAt        time.Time `json:"joined_at"`
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername retrieves a user record by their public handle.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}

// ChannelStats aggregates the public counters shown on a channel page.
// Implemented by the social subscription store.
type ChannelStats interface {
	/*
		StatsFor returns the channel's counters as seen by an optional viewer.

		Parameters:
		  - context: context.Context
		  - channelID: string
		  - viewerID: string (empty for anonymous viewers)

		Returns:
		  - subscriberCount: Accounts subscribed to the channel
		  - subscribedCount: Channels this account subscribes to
		  - videoCount: Published videos on the channel
		  - isSubscribed: Whether the viewer subscribes to the channel
		  - error: Retrieval failures
	*/
	StatsFor(context context.Context, channelID, viewerID string) (subscriberCount, subscribedCount, videoCount int64, isSubscribed bool, err error)
}

// SessionEnder tears down a subject's session. Satisfied by the auth
// session store; account deletion must leave no live refresh token behind.
type SessionEnder interface {
	Clear(context context.Context, userID string) error
}
