// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/core/video"
	"github.com/taibuivan/vidora/internal/platform/validate"
)

// # Service Layer

// Service orchestrates reactions across videos, comments, and posts.
type Service struct {
	likes  LikeRepository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(likes LikeRepository, logger *slog.Logger) *Service {
	return &Service{
		likes:  likes,
		logger: logger,
	}
}

// # Reaction Operations

/*
Toggle flips the caller's like on a target.

Description: Liking an already liked target withdraws the like. The
returned status carries the post-toggle state and count.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - kind: TargetKind (video, comment, post)
  - targetID: string (UUID)

Returns:
  - *Status: Post-toggle liked flag and count
  - error: Validation or persistence errors
*/
func (service *Service) Toggle(context context.Context, userID string, kind TargetKind, targetID string) (*Status, error) {

	// 1. Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTargetID, targetID)
	validator.Custom(FieldTargetKind, !kind.Valid(), "Target kind must be video, comment, or post")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Flip: an insert that lands is a like, a no-op insert is an unlike
	added, err := service.likes.Add(context, userID, kind, targetID)
	if err != nil {
		return nil, err
	}
	if !added {
		if _, err := service.likes.Remove(context, userID, kind, targetID); err != nil {
			return nil, err
		}
	}

	count, err := service.likes.Count(context, kind, targetID)
	if err != nil {
		return nil, err
	}

	service.logger.Info("like_toggled",
		slog.String("user_id", userID),
		slog.String("target_kind", string(kind)),
		slog.String("target_id", targetID),
		slog.Bool("liked", added),
	)

	return &Status{Liked: added, Count: count}, nil
}

/*
StatusFor returns the like state of a target for one viewer.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous viewers)
  - kind: TargetKind
  - targetID: string (UUID)

Returns:
  - *Status: Liked flag (always false for anonymous) and count
  - error: Persistence errors
*/
func (service *Service) StatusFor(context context.Context, viewerID string, kind TargetKind, targetID string) (*Status, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTargetID, targetID)
	validator.Custom(FieldTargetKind, !kind.Valid(), "Target kind must be video, comment, or post")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	count, err := service.likes.Count(context, kind, targetID)
	if err != nil {
		return nil, err
	}

	liked := false
	if viewerID != "" {
		liked, err = service.likes.Exists(context, viewerID, kind, targetID)
		if err != nil {
			return nil, err
		}
	}

	return &Status{Liked: liked, Count: count}, nil
}

/*
ListLikedVideos returns the caller's liked videos, most recent first.

Parameters:
  - context: context.Context
  - userID: string (UUID)
  - limit: int
  - offset: int

Returns:
  - []*video.Video: Page of liked videos
  - int: Total liked videos
  - error: Persistence errors
*/
func (service *Service) ListLikedVideos(context context.Context, userID string, limit, offset int) ([]*video.Video, int, error) {
	return service.likes.ListLikedVideos(context, userID, limit, offset)
}
