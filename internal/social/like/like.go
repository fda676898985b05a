// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package like implements reactions across the platform.

A like targets one of three kinds of content: a video, a comment, or a
post. Likes are strictly toggled; liking twice is an unlike. The store
enforces at most one like per (user, target) pair.
*/
package like

import (
	"context"
	"time"

	"github.com/taibuivan/vidora/internal/core/video"
)

// # Domain Entities

// TargetKind names the kind of content a like is attached to.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetPost    TargetKind = "post"
)

// Valid reports whether the kind is one of the supported targets.
func (kind TargetKind) Valid() bool {
	switch kind {
	case TargetVideo, TargetComment, TargetPost:
		return true
	}
	return false
}

// Like records one user's reaction to one piece of content.
type Like struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TargetKind TargetKind `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Status is the outcome of a toggle, echoed back to the caller.
type Status struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

const (
	FieldTargetKind = "target_kind"
	FieldTargetID   = "target_id"
)

// # Like Data Access

// LikeRepository defines the data access contract for reactions.
type LikeRepository interface {

	/*
		Add records a like if none exists for the pair.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - kind: TargetKind
		  - targetID: string (UUID)

		Returns:
		  - bool: True when a new like was recorded
		  - error: Storage failures
	*/
	Add(context context.Context, userID string, kind TargetKind, targetID string) (bool, error)

	/*
		Remove withdraws a like if one exists for the pair.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - kind: TargetKind
		  - targetID: string (UUID)

		Returns:
		  - bool: True when a like was removed
		  - error: Storage failures
	*/
	Remove(context context.Context, userID string, kind TargetKind, targetID string) (bool, error)

	/*
		Count returns the number of likes on a target.

		Parameters:
		  - context: context.Context
		  - kind: TargetKind
		  - targetID: string (UUID)

		Returns:
		  - int64: Like count
		  - error: Storage failures
	*/
	Count(context context.Context, kind TargetKind, targetID string) (int64, error)

	/*
		Exists reports whether the user has liked the target.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - kind: TargetKind
		  - targetID: string (UUID)

		Returns:
		  - bool: True when a like exists
		  - error: Storage failures
	*/
	Exists(context context.Context, userID string, kind TargetKind, targetID string) (bool, error)

	/*
		ListLikedVideos returns published videos the user has liked,
		most recently liked first.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*video.Video: Page of liked videos
		  - int: Total liked videos
		  - error: Storage failures
	*/
	ListLikedVideos(context context.Context, userID string, limit, offset int) ([]*video.Video, int, error)
}
