// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/media"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pointer"
	"github.com/taibuivan/vidora/pkg/slug"
	"github.com/taibuivan/vidora/pkg/uuid"
)

const maxTitleLength = 200

// # Service Layer

// Service orchestrates the business logic for the video catalog.
type Service struct {
	videos   VideoRepository
	uploader media.Uploader
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(videos VideoRepository, uploader media.Uploader, logger *slog.Logger) *Service {
	return &Service{
		videos:   videos,
		uploader: uploader,
		logger:   logger,
	}
}

// # Catalog Operations

/*
ListVideos retrieves a page of videos matching the filter.

Description: Unpublished rows are only surfaced when the filter asks
for them, which the transport layer permits for owners and moderators.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Video: Matched videos
  - int: Total matching videos
  - error: Storage or execution errors
*/
func (service *Service) ListVideos(context context.Context, filter Filter, limit, offset int) ([]*Video, int, error) {
	return service.videos.List(context, filter, limit, offset)
}

/*
GetVideo retrieves a single video by ID and records the view.

Description: The view counter is bumped best-effort; a failed counter
update never fails the read.

Parameters:
  - context: context.Context
  - id: string (UUID)
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *Video: Hydrated metadata
  - error: apperr.NotFound if missing or unpublished for this viewer
*/
func (service *Service) GetVideo(context context.Context, id, viewerID string) (*Video, error) {
	video, err := service.videos.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	// Drafts are only visible to their owner.
	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, apperr.NotFound("Video")
	}

	if video.IsPublished && video.OwnerID != viewerID {
		if err := service.videos.IncrementViewCount(context, id, 1); err != nil {
			service.logger.Warn("video_view_count_failed",
				slog.String("video_id", id),
				slog.String("error", err.Error()),
			)
		} else {
			video.ViewCount++
		}
	}

	return video, nil
}

/*
GetVideoBySlug retrieves a published video by its URL slug.

Parameters:
  - context: context.Context
  - videoSlug: string
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *Video: Hydrated metadata
  - error: apperr.NotFound if missing
*/
func (service *Service) GetVideoBySlug(context context.Context, videoSlug, viewerID string) (*Video, error) {
	video, err := service.videos.FindBySlug(context, videoSlug)
	if err != nil {
		return nil, err
	}
	return service.GetVideo(context, video.ID, viewerID)
}

// # Upload Pipeline

/*
UploadVideo ingests a new video for the given owner.

Description: The file is streamed to the asset host first; the catalog
row is only written once the host has accepted the bytes. Videos start
as unpublished drafts.

Parameters:
  - context: context.Context
  - ownerID: string (UUID)
  - title: string
  - description: string
  - filename: string
  - file: io.Reader (video bytes)

Returns:
  - *Video: The created draft
  - error: Validation, upload, or persistence errors
*/
func (service *Service) UploadVideo(context context.Context, ownerID, title, description, filename string, file io.Reader) (*Video, error) {

	// 1. Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldTitle, title)
	validator.MaxLen(FieldTitle, title, maxTitleLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Stream bytes to the asset host
	asset, err := service.uploader.Upload(context, media.KindVideo, filename, file)
	if err != nil {
		return nil, fmt.Errorf("video_upload_failed: %w", err)
	}

	// 3. Persist the draft row
	video := &Video{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		VideoURL:     asset.URL,
		VideoAssetID: asset.AssetID,
		Duration:     asset.Duration,
		IsPublished:  false,
	}
	video.Slug = slug.From(title) + "-" + video.ID[:8]

	if err := service.videos.Create(context, video); err != nil {
		// The row never landed, drop the orphaned asset.
		if deleteErr := service.uploader.Delete(context, asset.AssetID); deleteErr != nil {
			service.logger.Warn("video_orphan_cleanup_failed",
				slog.String("asset_id", asset.AssetID),
				slog.String("error", deleteErr.Error()),
			)
		}
		return nil, err
	}

	service.logger.Info("video_uploaded",
		slog.String("video_id", video.ID),
		slog.String("owner_id", ownerID),
		slog.Float64("duration", video.Duration),
	)

	return video, nil
}

/*
UploadThumbnail attaches or replaces the thumbnail image of a video.

Parameters:
  - context: context.Context
  - videoID: string (UUID)
  - filename: string
  - file: io.Reader (image bytes)

Returns:
  - *Video: Updated metadata
  - error: Upload or persistence errors
*/
func (service *Service) UploadThumbnail(context context.Context, videoID, filename string, file io.Reader) (*Video, error) {
	video, err := service.videos.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	asset, err := service.uploader.Upload(context, media.KindImage, filename, file)
	if err != nil {
		return nil, fmt.Errorf("video_thumbnail_upload_failed: %w", err)
	}

	previousAssetID := video.ThumbAssetID
	video.ThumbURL = asset.URL
	video.ThumbAssetID = asset.AssetID

	if err := service.videos.Update(context, video); err != nil {
		return nil, err
	}

	if previousAssetID != "" {
		if deleteErr := service.uploader.Delete(context, previousAssetID); deleteErr != nil {
			service.logger.Warn("video_thumbnail_cleanup_failed",
				slog.String("asset_id", previousAssetID),
				slog.String("error", deleteErr.Error()),
			)
		}
	}

	return video, nil
}

// # Metadata Management

/*
UpdateVideo applies partial metadata changes.

Description: Nil pointers leave the corresponding field untouched. The
slug is regenerated when the title changes so shared links stay readable.

Parameters:
  - context: context.Context
  - videoID: string (UUID)
  - title: *string
  - description: *string

Returns:
  - *Video: Updated metadata
  - error: Validation or persistence errors
*/
func (service *Service) UpdateVideo(context context.Context, videoID string, title, description *string) (*Video, error) {
	video, err := service.videos.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	if title != nil {
		validator := &validate.Validator{}
		validator.Required(FieldTitle, *title)
		validator.MaxLen(FieldTitle, *title, maxTitleLength)
		if err := validator.Err(); err != nil {
			return nil, err
		}
		video.Title = *title
		video.Slug = slug.From(*title) + "-" + video.ID[:8]
	}
	if description != nil {
		video.Description = *description
	}

	if err := service.videos.Update(context, video); err != nil {
		return nil, err
	}
	return video, nil
}

/*
PublishVideo flips a draft to the published state.

Description: Publishing is idempotent; the original publication time is
kept on repeated calls.

Parameters:
  - context: context.Context
  - videoID: string (UUID)

Returns:
  - *Video: Updated metadata
  - error: Persistence errors
*/
func (service *Service) PublishVideo(context context.Context, videoID string) (*Video, error) {
	video, err := service.videos.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	if !video.IsPublished {
		video.IsPublished = true
		video.PublishedAt = pointer.To(time.Now())
		if err := service.videos.Update(context, video); err != nil {
			return nil, err
		}
		service.logger.Info("video_published", slog.String("video_id", videoID))
	}

	return video, nil
}

/*
DeleteVideo removes a video from the catalog.

Description: The catalog row is soft deleted first so the video vanishes
immediately; asset host cleanup runs afterwards and is best-effort.

Parameters:
  - context: context.Context
  - videoID: string (UUID)

Returns:
  - error: Persistence errors
*/
func (service *Service) DeleteVideo(context context.Context, videoID string) error {
	video, err := service.videos.FindByID(context, videoID)
	if err != nil {
		return err
	}

	if err := service.videos.SoftDelete(context, videoID); err != nil {
		return err
	}

	for _, assetID := range []string{video.VideoAssetID, video.ThumbAssetID} {
		if assetID == "" {
			continue
		}
		if err := service.uploader.Delete(context, assetID); err != nil {
			service.logger.Warn("video_asset_cleanup_failed",
				slog.String("video_id", videoID),
				slog.String("asset_id", assetID),
				slog.String("error", err.Error()),
			)
		}
	}

	service.logger.Info("video_deleted", slog.String("video_id", videoID))
	return nil
}

/*
OwnerOf resolves the owning user of a video, for authorization checks.

Parameters:
  - context: context.Context
  - videoID: string (UUID)

Returns:
  - string: Owner user id
  - error: apperr.NotFound if missing
*/
func (service *Service) OwnerOf(context context.Context, videoID string) (string, error) {
	return service.videos.OwnerOf(context, videoID)
}
