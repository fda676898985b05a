// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import "context"

// # Comment Data Access

// CommentRepository defines the data access contract for discussion threads.
type CommentRepository interface {

	/*
		ListByVideo returns comments for a video, oldest first.

		Parameters:
		  - context: context.Context
		  - videoID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Comment: Hydrated comments with author fields
		  - int: Total comments on the video
		  - error: Storage failures
	*/
	ListByVideo(context context.Context, videoID string, limit, offset int) ([]*Comment, int, error)

	/*
		FindByID returns a single comment.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Comment: Hydrated comment
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		Create persists a new comment.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: apperr.NotFound when the video or parent is gone
	*/
	Create(context context.Context, comment *Comment) error

	/*
		UpdateBody replaces a comment's body text.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - body: string

		Returns:
		  - error: Update failures
	*/
	UpdateBody(context context.Context, id, body string) error

	/*
		SoftDelete blanks a comment while preserving its thread position.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error

	/*
		OwnerOf returns the author id of a comment.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - string: Author user id
		  - error: apperr.NotFound if missing
	*/
	OwnerOf(context context.Context, id string) (string, error)
}
