// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment implements discussion threads attached to videos.

Comments form a single-level thread: a comment either sits at the top
level of a video or replies to one top-level comment. Deleted comments
keep their row so reply chains stay intact, with the body blanked.
*/
package comment

import "time"

// # Domain Entities

// Comment is a single entry in a video's discussion thread.
type Comment struct {
	ID        string     `json:"id"`
	VideoID   string     `json:"video_id"`
	UserID    string     `json:"user_id"`
	ParentID  *string    `json:"parent_id,omitempty"`
	Body      string     `json:"body"`
	IsDeleted bool       `json:"is_deleted"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Author fields are hydrated from the account table on reads.
	AuthorUsername  string `json:"author_username,omitempty"`
	AuthorDisplay   string `json:"author_display_name,omitempty"`
	AuthorAvatarURL string `json:"author_avatar_url,omitempty"`
}

// # Field Identifiers

const (
	FieldBody     = "body"
	FieldVideoID  = "video_id"
	FieldParentID = "parent_id"
)
