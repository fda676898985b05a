// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/validate"
)

// # Service Layer

// Service orchestrates the follow graph between viewers and channels.
type Service struct {
	subscriptions SubscriptionRepository
	logger        *slog.Logger
}

// NewService constructs a new [Service].
func NewService(subscriptions SubscriptionRepository, logger *slog.Logger) *Service {
	return &Service{
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// # Follow Operations

/*
Toggle flips the caller's subscription to a channel.

Description: Subscribing to an already followed channel unsubscribes.
Self-subscription is rejected outright.

Parameters:
  - context: context.Context
  - subscriberID: string (UUID)
  - channelID: string (UUID)

Returns:
  - *Status: Post-toggle subscribed flag and channel follower count
  - error: Validation or persistence errors
*/
func (service *Service) Toggle(context context.Context, subscriberID, channelID string) (*Status, error) {

	// 1. Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldChannelID, channelID)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if subscriberID == channelID {
		return nil, apperr.Unprocessable("You cannot subscribe to your own channel")
	}

	// 2. Flip: an insert that lands is a follow, a no-op insert is an unfollow
	added, err := service.subscriptions.Add(context, subscriberID, channelID)
	if err != nil {
		return nil, err
	}
	if !added {
		if _, err := service.subscriptions.Remove(context, subscriberID, channelID); err != nil {
			return nil, err
		}
	}

	subscriberCount, _, _, err := service.subscriptions.CountsFor(context, channelID)
	if err != nil {
		return nil, err
	}

	service.logger.Info("subscription_toggled",
		slog.String("subscriber_id", subscriberID),
		slog.String("channel_id", channelID),
		slog.Bool("subscribed", added),
	)

	return &Status{Subscribed: added, SubscriberCount: subscriberCount}, nil
}

/*
ListSubscribers returns a page of a channel's followers.

Parameters:
  - context: context.Context
  - channelID: string (UUID)
  - limit: int
  - offset: int

Returns:
  - []*ChannelSummary: Follower cards
  - int: Total followers
  - error: Persistence errors
*/
func (service *Service) ListSubscribers(context context.Context, channelID string, limit, offset int) ([]*ChannelSummary, int, error) {
	return service.subscriptions.ListSubscribers(context, channelID, limit, offset)
}

/*
ListSubscriptions returns a page of the channels a user follows.

Parameters:
  - context: context.Context
  - subscriberID: string (UUID)
  - limit: int
  - offset: int

Returns:
  - []*ChannelSummary: Channel cards
  - int: Total followed channels
  - error: Persistence errors
*/
func (service *Service) ListSubscriptions(context context.Context, subscriberID string, limit, offset int) ([]*ChannelSummary, int, error) {
	return service.subscriptions.ListSubscriptions(context, subscriberID, limit, offset)
}

/*
StatsFor returns the channel-page counters as seen by an optional viewer.

Description: Satisfies the account package's channel statistics contract.

Parameters:
  - context: context.Context
  - channelID: string (UUID)
  - viewerID: string (empty for anonymous viewers)

Returns:
  - subscriberCount: Accounts following the channel
  - subscribedCount: Channels the account follows
  - videoCount: Published videos on the channel
  - isSubscribed: Whether the viewer follows the channel
  - error: Persistence errors
*/
func (service *Service) StatsFor(context context.Context, channelID, viewerID string) (int64, int64, int64, bool, error) {
	subscriberCount, subscribedCount, videoCount, err := service.subscriptions.CountsFor(context, channelID)
	if err != nil {
		return 0, 0, 0, false, err
	}

	isSubscribed := false
	if viewerID != "" && viewerID != channelID {
		isSubscribed, err = service.subscriptions.Exists(context, viewerID, channelID)
		if err != nil {
			return 0, 0, 0, false, err
		}
	}

	return subscriberCount, subscribedCount, videoCount, isSubscribed, nil
}
