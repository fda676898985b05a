// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for reactions.
type Handler struct {
	service *Service
}

// NewHandler constructs a new like [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches reaction endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Like state is readable by everyone
	api.Get("/likes/{kind}/{targetID}", handler.GetStatus)

	// Toggling and the liked list require authentication
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/likes/{kind}/{targetID}", handler.Toggle)
		user.Get("/me/liked-videos", handler.ListLikedVideos)
	})
}

// # Reactions

/*
GET /api/v1/likes/{kind}/{targetID}.

Description: Returns the like count for a target, plus whether the
caller has liked it when authenticated.

Request:
  - kind: string (video, comment, post)
  - targetID: string (UUID)

Response:
  - 200: Status: Liked flag and count
  - 400: Validation: Unknown target kind
*/
func (handler *Handler) GetStatus(writer http.ResponseWriter, request *http.Request) {
	kind := TargetKind(requestutil.Param(request, "kind"))
	targetID := requestutil.ID(request, "targetID")

	var viewerID string
	if identity := requestutil.Identity(request); identity != nil {
		viewerID = identity.UserID
	}

	status, err := handler.service.StatusFor(request.Context(), viewerID, kind, targetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}

/*
POST /api/v1/likes/{kind}/{targetID}.

Description: Toggles the caller's like on a target.

Request:
  - kind: string (video, comment, post)
  - targetID: string (UUID)

Response:
  - 200: Status: Post-toggle liked flag and count
  - 400: Validation: Unknown target kind
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) Toggle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	kind := TargetKind(requestutil.Param(request, "kind"))
	targetID := requestutil.ID(request, "targetID")

	status, err := handler.service.Toggle(request.Context(), identity.UserID, kind, targetID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}

/*
GET /api/v1/me/liked-videos.

Description: Returns the caller's liked videos, most recently liked first.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Video: Paginated liked videos
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListLikedVideos(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginationParams := pagination.FromRequest(request)

	videos, total, err := handler.service.ListLikedVideos(request.Context(), identity.UserID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, videos, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
