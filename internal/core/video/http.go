// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video provides the HTTP interface for the catalog.

# Routing Strategy

  - Public (v1): Browse and watch endpoints accessible to all visitors
    (GET /videos, GET /videos/{id}).
  - Owner (v1): Mutative endpoints bound to the uploading channel
    (PATCH, DELETE, publish, thumbnail).
  - Moderator (v1): Takedown endpoint for content moderation.

The handler translates between the web/JSON layer and the internal domain [Service].
*/
package video

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/pkg/convert"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/query"
)

// maxVideoUploadBytes caps inbound upload bodies at 1 GiB.
const maxVideoUploadBytes = 1 << 30

// maxThumbUploadBytes caps thumbnail bodies at 10 MiB.
const maxThumbUploadBytes = 10 << 20

// # Handler Implementation

// Handler implements the HTTP layer for the video catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a new video [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches catalog endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Browse endpoints
	api.Get("/videos", handler.ListVideos)
	api.Get("/videos/{videoID}", handler.GetVideo)
	api.Get("/watch/{slug}", handler.GetVideoBySlug)

	// Authenticated uploads
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/videos", handler.UploadVideo)
	})

	// Owner-only mutations
	api.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireOwner("videoID", handler.service.OwnerOf))
		owner.Patch("/videos/{videoID}", handler.UpdateVideo)
		owner.Delete("/videos/{videoID}", handler.DeleteVideo)
		owner.Post("/videos/{videoID}/publish", handler.PublishVideo)
		owner.Put("/videos/{videoID}/thumbnail", handler.UploadThumbnail)
	})

	// Moderation
	api.Group(func(moderator chi.Router) {
		moderator.Use(middleware.RequireRole(sec.RoleModerator))
		moderator.Delete("/moderation/videos/{videoID}", handler.TakedownVideo)
	})
}

// # Browsing

/*
GET /api/v1/videos.

Description: Returns a paginated slice of the catalog. Owners can pass
mine=true to include their own drafts.

Request:
  - owner: string (Filter by channel user id, comma-separated for several)
  - q: string (Full-text search over title and description)
  - sort: string (latest, oldest, views)
  - mine: bool (Restrict to the caller's own catalog, drafts included)
  - limit: int
  - page: int

Response:
  - 200: []Video: Paginated list
*/
func (handler *Handler) ListVideos(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		OwnerIDs: query.StringSlice(request.URL.Query().Get("owner")),
		Search:   request.URL.Query().Get("q"),
		Sort:     request.URL.Query().Get("sort"),
	}
	if len(filter.OwnerIDs) == 1 {
		filter.OwnerID = filter.OwnerIDs[0]
	}

	// mine=true pins the listing to the caller and unlocks drafts.
	if convert.ToBool(request.URL.Query().Get("mine")) {
		identity := requestutil.Identity(request)
		if identity != nil {
			filter.OwnerID = identity.UserID
			filter.IncludeUnpublished = true
		}
	}

	videos, total, err := handler.service.ListVideos(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, videos, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/videos/{videoID}.

Description: Returns a single video and records the view. Drafts resolve
only for their owner.

Request:
  - videoID: string (UUID)

Response:
  - 200: Video: Hydrated metadata
  - 404: ErrNotFound: Video not found
*/
func (handler *Handler) GetVideo(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.ID(request, "videoID")

	var viewerID string
	if identity := requestutil.Identity(request); identity != nil {
		viewerID = identity.UserID
	}

	video, err := handler.service.GetVideo(request.Context(), videoID, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
GET /api/v1/watch/{slug}.

Description: Slug-based lookup backing shareable watch URLs.

Request:
  - slug: string

Response:
  - 200: Video: Hydrated metadata
  - 404: ErrNotFound: Video not found
*/
func (handler *Handler) GetVideoBySlug(writer http.ResponseWriter, request *http.Request) {
	videoSlug := requestutil.Param(request, "slug")

	var viewerID string
	if identity := requestutil.Identity(request); identity != nil {
		viewerID = identity.UserID
	}

	video, err := handler.service.GetVideoBySlug(request.Context(), videoSlug, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

// # Upload

/*
POST /api/v1/videos.

Description: Ingests a new video as an unpublished draft.

Request:
  - multipart/form-data with a 'file' part plus 'title' and 'description' fields

Response:
  - 201: Video: The created draft
  - 400: Validation: Missing title or file
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) UploadVideo(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxVideoUploadBytes)
	file, header, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer file.Close()

	video, err := handler.service.UploadVideo(
		request.Context(),
		identity.UserID,
		request.FormValue(FieldTitle),
		request.FormValue(FieldDescription),
		header.Filename,
		file,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video)
}

/*
PUT /api/v1/videos/{videoID}/thumbnail.

Description: Attaches or replaces the thumbnail image.

Request:
  - videoID: string (UUID)
  - multipart/form-data with a 'file' part

Response:
  - 200: Video: Updated metadata
  - 403: ErrForbidden: Caller does not own the video
*/
func (handler *Handler) UploadThumbnail(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.ID(request, "videoID")

	request.Body = http.MaxBytesReader(writer, request.Body, maxThumbUploadBytes)
	file, header, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer file.Close()

	video, err := handler.service.UploadThumbnail(request.Context(), videoID, header.Filename, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

// # Management

// updateVideoRequest defines the inbound JSON schema for metadata edits.
type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

/*
PATCH /api/v1/videos/{videoID}.

Description: Applies partial metadata changes. Absent fields are untouched.

Request:
  - videoID: string (UUID)
  - body: updateVideoRequest

Response:
  - 200: Video: Updated metadata
  - 400: ErrInvalidJSON/Validation: Invalid payload
  - 403: ErrForbidden: Caller does not own the video
*/
func (handler *Handler) UpdateVideo(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.ID(request, "videoID")

	var input updateVideoRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.service.UpdateVideo(request.Context(), videoID, input.Title, input.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
POST /api/v1/videos/{videoID}/publish.

Description: Flips a draft to the published state. Idempotent.

Request:
  - videoID: string (UUID)

Response:
  - 200: Video: Updated metadata
  - 403: ErrForbidden: Caller does not own the video
*/
func (handler *Handler) PublishVideo(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.ID(request, "videoID")

	video, err := handler.service.PublishVideo(request.Context(), videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video)
}

/*
DELETE /api/v1/videos/{videoID}.

Description: Removes a video from the catalog and schedules asset cleanup.

Request:
  - videoID: string (UUID)

Response:
  - 204: Removed
  - 403: ErrForbidden: Caller does not own the video
*/
func (handler *Handler) DeleteVideo(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.ID(request, "videoID")

	if err := handler.service.DeleteVideo(request.Context(), videoID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Moderation

/*
DELETE /api/v1/moderation/videos/{videoID}.

Description: Moderator takedown. Same removal path as the owner delete
but gated on role instead of ownership.

Request:
  - videoID: string (UUID)

Response:
  - 204: Removed
  - 403: ErrForbidden: Insufficient role
*/
func (handler *Handler) TakedownVideo(writer http.ResponseWriter, request *http.Request) {
	videoID := requestutil.ID(request, "videoID")

	if err := handler.service.DeleteVideo(request.Context(), videoID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
