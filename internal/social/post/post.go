// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package post implements short text updates published by channels.
package post

import (
	"context"
	"time"
)

// # Domain Entities

// Post is a short text update on a channel's feed.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Author fields are hydrated from the account table on reads.
	AuthorUsername  string `json:"author_username,omitempty"`
	AuthorDisplay   string `json:"author_display_name,omitempty"`
	AuthorAvatarURL string `json:"author_avatar_url,omitempty"`
}

const FieldBody = "body"

// # Post Data Access

// PostRepository defines the data access contract for channel feeds.
type PostRepository interface {

	/*
		ListByAuthor returns a user's posts, newest first.

		Parameters:
		  - context: context.Context
		  - userID: string (UUID)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Post: Page of posts with author fields
		  - int: Total posts by the author
		  - error: Storage failures
	*/
	ListByAuthor(context context.Context, userID string, limit, offset int) ([]*Post, int, error)

	/*
		FindByID returns a single post.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *Post: Hydrated post
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Post, error)

	/*
		Create persists a new post.

		Parameters:
		  - context: context.Context
		  - post: *Post

		Returns:
		  - error: Storage failures
	*/
	Create(context context.Context, post *Post) error

	/*
		UpdateBody replaces the body of a post.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)
		  - body: string

		Returns:
		  - error: Update failures
	*/
	UpdateBody(context context.Context, id, body string) error

	/*
		SoftDelete removes a post from the feed.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error

	/*
		OwnerOf returns the author id of a post.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - string: Author user id
		  - error: apperr.NotFound if missing
	*/
	OwnerOf(context context.Context, id string) (string, error)
}
