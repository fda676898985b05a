// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for channel feeds.
type Handler struct {
	service *Service
}

// NewHandler constructs a new post [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches feed endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Feed reading
	api.Get("/users/{userID}/posts", handler.ListPosts)
	api.Get("/posts/{postID}", handler.GetPost)

	// Authenticated writes
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/posts", handler.CreatePost)
	})

	// Author-only mutations
	api.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireOwner("postID", handler.service.OwnerOf))
		owner.Patch("/posts/{postID}", handler.UpdatePost)
		owner.Delete("/posts/{postID}", handler.DeletePost)
	})
}

// # Feed Reading

/*
GET /api/v1/users/{userID}/posts.

Description: Returns a paginated, newest-first page of a channel's feed.

Request:
  - userID: string (UUID)
  - limit: int
  - page: int

Response:
  - 200: []Post: Paginated feed
*/
func (handler *Handler) ListPosts(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "userID")
	paginationParams := pagination.FromRequest(request)

	posts, total, err := handler.service.ListPosts(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/posts/{postID}.

Request:
  - postID: string (UUID)

Response:
  - 200: Post: Hydrated post
  - 404: ErrNotFound: Post not found
*/
func (handler *Handler) GetPost(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.ID(request, "postID")

	entry, err := handler.service.GetPost(request.Context(), postID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// # Feed Writing

// postRequest defines the inbound JSON schema for post writes.
type postRequest struct {
	Body string `json:"body"`
}

/*
POST /api/v1/posts.

Description: Publishes a text update to the caller's feed.

Request:
  - body: postRequest

Response:
  - 201: Post: The created post
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) CreatePost(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreatePost(request.Context(), identity.UserID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
PATCH /api/v1/posts/{postID}.

Request:
  - postID: string (UUID)
  - body: postRequest

Response:
  - 200: Post: Updated post
  - 403: ErrForbidden: Caller is not the author
*/
func (handler *Handler) UpdatePost(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.ID(request, "postID")

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdatePost(request.Context(), postID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/posts/{postID}.

Request:
  - postID: string (UUID)

Response:
  - 204: Removed
  - 403: ErrForbidden: Caller is not the author
*/
func (handler *Handler) DeletePost(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.ID(request, "postID")

	if err := handler.service.DeletePost(request.Context(), postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
