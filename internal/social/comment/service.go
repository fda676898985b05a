// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/uuid"
)

const maxBodyLength = 2000

// # Service Layer

// Service orchestrates the business logic for discussion threads.
type Service struct {
	comments CommentRepository
	logger   *slog.Logger
}

// NewService constructs a new [Service].
func NewService(comments CommentRepository, logger *slog.Logger) *Service {
	return &Service{
		comments: comments,
		logger:   logger,
	}
}

// # Thread Operations

/*
ListComments retrieves a page of a video's discussion thread.

Parameters:
  - context: context.Context
  - videoID: string (UUID)
  - limit: int
  - offset: int

Returns:
  - []*Comment: Oldest-first page with author fields
  - int: Total comments on the video
  - error: Storage or execution errors
*/
func (service *Service) ListComments(context context.Context, videoID string, limit, offset int) ([]*Comment, int, error) {
	return service.comments.ListByVideo(context, videoID, limit, offset)
}

/*
AddComment appends a comment or reply to a video's thread.

Description: Replies can only target top-level comments; a reply to a
reply is flattened up to the top-level parent.

Parameters:
  - context: context.Context
  - videoID: string (UUID)
  - userID: string (UUID of the author)
  - parentID: *string (nil for a top-level comment)
  - body: string

Returns:
  - *Comment: The created comment
  - error: Validation or persistence errors
*/
func (service *Service) AddComment(context context.Context, videoID, userID string, parentID *string, body string) (*Comment, error) {

	// 1. Business attribute validation
	validator := &validate.Validator{}
	validator.Required(FieldBody, body)
	validator.MaxLen(FieldBody, body, maxBodyLength)
	validator.Required(FieldVideoID, videoID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// 2. Flatten nested replies onto the top-level parent
	if parentID != nil {
		parent, err := service.comments.FindByID(context, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	// 3. Storage persistence
	entry := &Comment{
		ID:       uuid.New(),
		VideoID:  videoID,
		UserID:   userID,
		ParentID: parentID,
		Body:     body,
	}
	if err := service.comments.Create(context, entry); err != nil {
		return nil, err
	}

	service.logger.Info("comment_added",
		slog.String("comment_id", entry.ID),
		slog.String("video_id", videoID),
	)

	return entry, nil
}

/*
UpdateComment replaces the body of an existing comment.

Parameters:
  - context: context.Context
  - commentID: string (UUID)
  - body: string

Returns:
  - *Comment: Updated comment
  - error: Validation or persistence errors
*/
func (service *Service) UpdateComment(context context.Context, commentID, body string) (*Comment, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBody, body)
	validator.MaxLen(FieldBody, body, maxBodyLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.comments.UpdateBody(context, commentID, body); err != nil {
		return nil, err
	}
	return service.comments.FindByID(context, commentID)
}

/*
DeleteComment blanks a comment while keeping its thread position.

Parameters:
  - context: context.Context
  - commentID: string (UUID)

Returns:
  - error: Persistence errors
*/
func (service *Service) DeleteComment(context context.Context, commentID string) error {
	if err := service.comments.SoftDelete(context, commentID); err != nil {
		return err
	}
	service.logger.Info("comment_deleted", slog.String("comment_id", commentID))
	return nil
}

/*
OwnerOf resolves the author of a comment, for authorization checks.

Parameters:
  - context: context.Context
  - commentID: string (UUID)

Returns:
  - string: Author user id
  - error: apperr.NotFound if missing
*/
func (service *Service) OwnerOf(context context.Context, commentID string) (string, error) {
	return service.comments.OwnerOf(context, commentID)
}
