// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/uuid"
)

const maxBodyLength = 500

// # Service Layer

// Service orchestrates the business logic for channel feeds.
type Service struct {
	posts  PostRepository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(posts PostRepository, logger *slog.Logger) *Service {
	return &Service{
		posts:  posts,
		logger: logger,
	}
}

// # Feed Operations

/*
ListPosts retrieves a page of a channel's feed, newest first.

Parameters:
  - context: context.Context
  - userID: string (UUID of the channel)
  - limit: int
  - offset: int

Returns:
  - []*Post: Page of posts
  - int: Total posts by the channel
  - error: Storage or execution errors
*/
func (service *Service) ListPosts(context context.Context, userID string, limit, offset int) ([]*Post, int, error) {
	return service.posts.ListByAuthor(context, userID, limit, offset)
}

/*
GetPost retrieves a single post by ID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *Post: Hydrated post
  - error: apperr.NotFound if missing
*/
func (service *Service) GetPost(context context.Context, id string) (*Post, error) {
	return service.posts.FindByID(context, id)
}

/*
CreatePost publishes a new text update to the author's feed.

Parameters:
  - context: context.Context
  - userID: string (UUID of the author)
  - body: string

Returns:
  - *Post: The created post
  - error: Validation or persistence errors
*/
func (service *Service) CreatePost(context context.Context, userID, body string) (*Post, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBody, body)
	validator.MaxLen(FieldBody, body, maxBodyLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	entry := &Post{
		ID:     uuid.New(),
		UserID: userID,
		Body:   body,
	}
	if err := service.posts.Create(context, entry); err != nil {
		return nil, err
	}

	service.logger.Info("post_created",
		slog.String("post_id", entry.ID),
		slog.String("user_id", userID),
	)

	return entry, nil
}

/*
UpdatePost replaces the body of an existing post.

Parameters:
  - context: context.Context
  - postID: string (UUID)
  - body: string

Returns:
  - *Post: Updated post
  - error: Validation or persistence errors
*/
func (service *Service) UpdatePost(context context.Context, postID, body string) (*Post, error) {
	validator := &validate.Validator{}
	validator.Required(FieldBody, body)
	validator.MaxLen(FieldBody, body, maxBodyLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.posts.UpdateBody(context, postID, body); err != nil {
		return nil, err
	}
	return service.posts.FindByID(context, postID)
}

/*
DeletePost removes a post from the feed.

Parameters:
  - context: context.Context
  - postID: string (UUID)

Returns:
  - error: Persistence errors
*/
func (service *Service) DeletePost(context context.Context, postID string) error {
	if err := service.posts.SoftDelete(context, postID); err != nil {
		return err
	}
	service.logger.Info("post_deleted", slog.String("post_id", postID))
	return nil
}

/*
OwnerOf resolves the author of a post, for authorization checks.

Parameters:
  - context: context.Context
  - postID: string (UUID)

Returns:
  - string: Author user id
  - error: apperr.NotFound if missing
*/
func (service *Service) OwnerOf(context context.Context, postID string) (string, error) {
	return service.posts.OwnerOf(context, postID)
}
