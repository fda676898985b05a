// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video implements the core catalog of the Vidora platform.

It owns the video entity lifecycle: upload, metadata editing, publishing,
view counting, and deletion. Bytes live on the external asset host; this
package persists only delivery URLs and asset ids.
*/
package video

import "time"

// # Domain Entities

// Video represents a single uploaded video on the platform.
type Video struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description,omitempty"`
	VideoURL     string     `json:"video_url"`
	VideoAssetID string     `json:"-"` // Host-side identifier, needed for deletion only.
	ThumbURL     string     `json:"thumb_url,omitempty"`
	ThumbAssetID string     `json:"-"`
	Duration     float64    `json:"duration"`
	ViewCount    int64      `json:"view_count"`
	IsPublished  bool       `json:"is_published"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Filter narrows video listings.
type Filter struct {
	// OwnerID restricts the listing to one channel. Empty means all channels.
	OwnerID string

	// OwnerIDs restricts the listing to a set of channels, used for
	// subscription feeds. Ignored when OwnerID is set.
	OwnerIDs []string

	// Search matches against title and description.
	Search string

	// IncludeUnpublished is set only for owners viewing their own catalog
	// and for moderators.
	IncludeUnpublished bool

	// Sort is one of "latest", "oldest", or "views".
	Sort string
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldVideoFile   = "video"
	FieldThumbFile   = "thumbnail"
)
