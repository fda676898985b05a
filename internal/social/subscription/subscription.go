// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package subscription implements the follow graph between viewers and channels.

Subscriptions are strictly toggled, self-subscription is rejected, and the
aggregate counters here back the public channel profile.
*/
package subscription

import (
	"context"
	"time"
)

// # Domain Entities

// Subscription is one edge in the follow graph.
type Subscription struct {
	ID           string    `json:"id"`
	SubscriberID string    `json:"subscriber_id"`
	ChannelID    string    `json:"channel_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// ChannelSummary is the compact channel card shown in subscriber lists.
type ChannelSummary struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Status is the outcome of a toggle, echoed back to the caller.
type Status struct {
	Subscribed      bool  `json:"subscribed"`
	SubscriberCount int64 `json:"subscriber_count"`
}

const FieldChannelID = "channel_id"

// # Subscription Data Access

// SubscriptionRepository defines the data access contract for the follow graph.
type SubscriptionRepository interface {

	/*
		Add records a subscription if none exists for the pair.

		Parameters:
		  - context: context.Context
		  - subscriberID: string (UUID)
		  - channelID: string (UUID)

		Returns:
		  - bool: True when a new subscription was recorded
		  - error: apperr.NotFound when the channel is gone
	*/
	Add(context context.Context, subscriberID, channelID string) (bool, error)

	/*
		Remove withdraws a subscription if one exists for the pair.

		Parameters:
		  - context: context.Context
		  - subscriberID: string (UUID)
		  - channelID: string (UUID)

		Returns:
		  - bool: True when a subscription was removed
		  - error: Storage failures
	*/
	Remove(context context.Context, subscriberID, channelID string) (bool, error)

	/*
		Exists reports whether the subscriber follows the channel.

		Parameters:
		  - context: context.Context
		  - subscriberID: string (UUID)
		  - channelID: string (UUID)

		Returns:
		  - bool: True when the edge exists
		  - error: Storage failures
	*/
	Exists(context context.Context, subscriberID, channelID string) (bool, error)

	/*
		ListSubscribers returns the accounts following a channel.

		Parameters:
		  - context: context.Context
		  - channelID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*ChannelSummary: Page of follower cards
		  - int: Total followers
		  - error: Storage failures
	*/
	ListSubscribers(context context.Context, channelID string, limit, offset int) ([]*ChannelSummary, int, error)

	/*
		ListSubscriptions returns the channels a user follows.

		Parameters:
		  - context: context.Context
		  - subscriberID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*ChannelSummary: Page of channel cards
		  - int: Total followed channels
		  - error: Storage failures
	*/
	ListSubscriptions(context context.Context, subscriberID string, limit, offset int) ([]*ChannelSummary, int, error)

	/*
		CountsFor returns the raw counters for a channel page.

		Parameters:
		  - context: context.Context
		  - channelID: string (UUID)

		Returns:
		  - subscriberCount: Accounts following the channel
		  - subscribedCount: Channels the account follows
		  - videoCount: Published videos on the channel
		  - error: Storage failures
	*/
	CountsFor(context context.Context, channelID string) (subscriberCount, subscribedCount, videoCount int64, err error)
}
