// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/media"
	"github.com/taibuivan/vidora/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for user accounts and channel pages.
//
// It ensures that profile updates, media uploads, and account teardown follow
// established business constraints.
type Service struct {
	accounts AccountRepository
	stats    ChannelStats
	sessions SessionEnder
	uploader media.Uploader
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accounts AccountRepository,
	stats ChannelStats,
	sessions SessionEnder,
	uploader media.Uploader,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts: accounts,
		stats:    stats,
		sessions: sessions,
		uploader: uploader,
		logger:   logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	DisplayName *string
	Bio         *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	// Business: Ensure the account still exists
	user, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}

	// Apply delta updates
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	// Persist changes
	if err := service.accounts.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

// # Media Management

/*
UpdateAvatar uploads a new avatar image and records its delivery URL.

Parameters:
  - context: context.Context
  - userID: string
  - filename: string (Original client filename)
  - file: io.Reader (Image bytes)

Returns:
  - *auth.User: The updated user profile
  - error: Upload or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID, filename string, file io.Reader) (*auth.User, error) {
	return service.updateImage(context, userID, filename, file, func(user *auth.User, url string) {
		user.AvatarURL = url
	})
}

/*
UpdateCover uploads a new channel cover image and records its delivery URL.

Parameters:
  - context: context.Context
  - userID: string
  - filename: string (Original client filename)
  - file: io.Reader (Image bytes)

Returns:
  - *auth.User: The updated user profile
  - error: Upload or storage failures
*/
func (service *Service) UpdateCover(context context.Context, userID, filename string, file io.Reader) (*auth.User, error) {
	return service.updateImage(context, userID, filename, file, func(user *auth.User, url string) {
		user.CoverURL = url
	})
}

// updateImage uploads the image first and persists the URL only after the
// hosting service accepted the bytes, so the profile never points at a
// missing asset.
func (service *Service) updateImage(
	context context.Context,
	userID, filename string,
	file io.Reader,
	apply func(user *auth.User, url string),
) (*auth.User, error) {
	user, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_image_lookup_failed: %w", err)
	}

	asset, err := service.uploader.Upload(context, media.KindImage, filename, file)
	if err != nil {
		return nil, fmt.Errorf("account_service_image_upload_failed: %w", err)
	}

	apply(user, asset.URL)

	if err := service.accounts.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_image_update_failed: %w", err)
	}

	service.logger.Info("user_image_updated",
		slog.String("user_id", userID),
		slog.String("asset_id", asset.AssetID),
	)

	return user, nil
}

// # Account Lifecycle

/*
DeleteAccount performs an idempotent soft-deletion of a user account.

Description: Flags the account as deleted and immediately destroys the
subject's session to force a global sign-out. Verified tokens for the account
stop resolving on the next request.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {
	if err := service.accounts.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global sign-out for the deleted account
	_ = service.sessions.Clear(context, userID)

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Channel Presentation

/*
GetChannel assembles the public channel page for a username.

Description: Resolves the handle, then aggregates subscription and video
counters. The viewer id personalizes the is_subscribed flag and may be empty
for anonymous traffic.

Parameters:
  - context: context.Context
  - username: string
  - viewerID: string

Returns:
  - *ChannelProfile: Public channel view
  - error: Not found or retrieval failures
*/
func (service *Service) GetChannel(context context.Context, username, viewerID string) (*ChannelProfile, error) {
	user, err := service.accounts.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	subscriberCount, subscribedCount, videoCount, isSubscribed, err := service.stats.StatsFor(context, user.ID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("account_service_channel_stats_failed: %w", err)
	}

	return &ChannelProfile{
		UserID:          user.ID,
		Username:        user.Username,
		DisplayName:     user.DisplayName,
		AvatarURL:       user.AvatarURL,
		CoverURL:        user.CoverURL,
		Bio:             user.Bio,
		SubscriberCount: subscriberCount,
		SubscribedCount: subscribedCount,
		VideoCount:      videoCount,
		IsSubscribed:    isSubscribed,
		JoinedAt:        user.CreatedAt,
	}, nil
}
