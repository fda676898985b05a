// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import "context"

// # Video Data Access

// VideoRepository defines the data access contract for the video catalog.
type VideoRepository interface {

	/*
		List returns videos matching the filter, newest first by default.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Video: List of hydrated videos
		  - int: Total matching videos
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Video, int, error)

	/*
		FindByID returns the video with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Video: Hydrated metadata
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Video, error)

	/*
		FindBySlug returns the video with the given slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Video: Hydrated metadata
		  - error: apperr.NotFound if missing
	*/
	FindBySlug(context context.Context, slug string) (*Video, error)

	/*
		Create persists a new video to the store.

		Parameters:
		  - context: context.Context
		  - video: *Video

		Returns:
		  - error: Storage failure
	*/
	Create(context context.Context, video *Video) error

	/*
		Update persists changes to existing video metadata.

		Parameters:
		  - context: context.Context
		  - video: *Video

		Returns:
		  - error: Update failure
	*/
	Update(context context.Context, video *Video) error

	/*
		SoftDelete marks a video as deleted without physical row removal.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - error: Removal failure
	*/
	SoftDelete(context context.Context, id string) error

	/*
		IncrementViewCount atomically increments the view counter on a video.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - delta: int64

		Returns:
		  - error: Atomic update failure
	*/
	IncrementViewCount(context context.Context, id string, delta int64) error

	/*
		OwnerOf returns the owner id for a video id.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - string: Owner user id
		  - error: apperr.NotFound if missing
	*/
	OwnerOf(context context.Context, id string) (string, error)
}
