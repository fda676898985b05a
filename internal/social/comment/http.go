// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for discussion threads.
type Handler struct {
	service *Service
}

// NewHandler constructs a new comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches comment endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Thread reading
	api.Get("/videos/{videoID}/comments", handler.ListComments)

	// Authenticated writes
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/videos/{videoID}/comments", handler.AddComment)
	})

	// Author-only mutations
	api.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireOwner("commentID", handler.service.OwnerOf))
		owner.Patch("/comments/{commentID}", handler.UpdateComment)
		owner.Delete("/comments/{commentID}", handler.DeleteComment)
	})

	// Moderation
	api.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))
		moderator.Delete("/moderation/comments/{commentID}", handler.DeleteCommentAsModerator)
	})
}

// # Thread Reading

/*
GET /api/v1/videos/{videoID}/comments.

Description: Returns a paginated, oldest-first page of the thread.

Request:
  - videoID: string (UUID)
  - limit: int
  - page: int

Response:
  - 200: []Comment: Paginated thread
*/
func (handler *Handler) ListComments(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.ID(request, "videoID")
	paginationParams := pagination.FromRequest(request)

	comments, total, err := handler.service.ListComments(request.Context(), videoID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// # Thread Writing

// commentRequest defines the inbound JSON schema for comment writes.
type commentRequest struct {
	Body     string  `json:"body"`
	ParentID *string `json:"parent_id"`
}

/*
POST /api/v1/videos/{videoID}/comments.

Description: Appends a comment, or a reply when parent_id is provided.

Request:
  - videoID: string (UUID)
  - body: commentRequest

Response:
  - 201: Comment: The created comment
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Video or parent comment is gone
*/
func (handler *Handler) AddComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	videoID := requestutil.ID(request, "videoID")

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.AddComment(request.Context(), videoID, identity.UserID, input.ParentID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
PATCH /api/v1/comments/{commentID}.

Description: Replaces the body of the caller's own comment.

Request:
  - commentID: string (UUID)
  - body: commentRequest (only 'body' is read)

Response:
  - 200: Comment: Updated comment
  - 403: ErrForbidden: Caller is not the author
*/
func (handler *Handler) UpdateComment(writer http.ResponseWriter, request *http.Request) {
	commentID := requestutil.ID(request, "commentID")

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateComment(request.Context(), commentID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
DELETE /api/v1/comments/{commentID}.

Description: Blanks the caller's own comment, keeping the thread intact.

Request:
  - commentID: string (UUID)

Response:
  - 204: Removed
  - 403: ErrForbidden: Caller is not the author
*/
func (handler *Handler) DeleteComment(writer http.ResponseWriter, request *http.Request) {
	commentID := requestutil.ID(request, "commentID")

	if err := handler.service.DeleteComment(request.Context(), commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Moderation

/*
DELETE /api/v1/moderation/comments/{commentID}.

Description: Moderator removal of any comment.

Request:
  - commentID: string (UUID)

Response:
  - 204: Removed
  - 403: ErrForbidden: Insufficient role
*/
func (handler *Handler) DeleteCommentAsModerator(writer http.ResponseWriter, request *http.Request) {
	commentID := requestutil.ID(request, "commentID")

	if err := handler.service.DeleteComment(request.Context(), commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
