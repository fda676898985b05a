// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/internal/users/auth"
)

// maxImageUploadBytes caps avatar and cover uploads.
const maxImageUploadBytes = 10 << 20 // 10 MiB

// Handler implements the HTTP layer for user account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes attaches the account domain's endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Public channel discovery
	api.Get("/channels/{username}", handler.getChannel)

	// Private account management
	api.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.getMe)
		r.Patch("/me", handler.updateMe)
		r.Delete("/me", handler.deleteMe)
		r.Put("/me/avatar", handler.updateAvatar)
		r.Put("/me/cover", handler.updateCover)
	})
}

// # Private Profile Endpoints

/*
GET /api/v1/me.

Description: Retrieves the full private profile of the authenticated user.

Response:
  - 200: User: Fully hydrated user profile
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMeRequest defines the expected JSON payload for profile updates.
type updateMeRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

/*
PATCH /api/v1/me.

Description: Applies partial updates to the authenticated user's profile.
Absent fields are left untouched.

Request:
  - body: updateMeRequest (Partial JSON)

Response:
  - 200: User: The updated profile
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	if input.DisplayName != nil {
		validator.Required("display_name", *input.DisplayName).
			MaxLen("display_name", *input.DisplayName, 100)
	}
	if input.Bio != nil {
		validator.MaxLen("bio", *input.Bio, 1000)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), userID, UpdateProfileInput{
		DisplayName: input.DisplayName,
		Bio:         input.Bio,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
DELETE /api/v1/me.

Description: Soft-deletes the authenticated account and destroys its session.

Response:
  - 204: No Content: Account deleted
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.accountService.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Media Endpoints

/*
PUT /api/v1/me/avatar.

Description: Replaces the user's avatar with the uploaded image file.

Request:
  - multipart/form-data with a 'file' part

Response:
  - 200: User: Profile with the new avatar URL
  - 400: Validation: Missing or oversized file
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.uploadImage(writer, request, handler.accountService.UpdateAvatar)
}

/*
PUT /api/v1/me/cover.

Description: Replaces the user's channel cover with the uploaded image file.

Request:
  - multipart/form-data with a 'file' part

Response:
  - 200: User: Profile with the new cover URL
  - 400: Validation: Missing or oversized file
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) updateCover(writer http.ResponseWriter, request *http.Request) {
	handler.uploadImage(writer, request, handler.accountService.UpdateCover)
}

// uploadImage is the shared multipart plumbing for avatar and cover updates.
func (handler *Handler) uploadImage(
	writer http.ResponseWriter,
	request *http.Request,
	apply func(ctx context.Context, userID, filename string, file io.Reader) (*auth.User, error),
) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxImageUploadBytes)
	file, header, err := request.FormFile("file")
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("file", "is required"))
		return
	}
	defer func() { _ = file.Close() }()

	user, err := apply(request.Context(), userID, header.Filename, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Public Channel Endpoints

/*
GET /api/v1/channels/{username}.

Description: Returns the public channel page for a handle, personalized with
the viewer's subscription state when authenticated.

Response:
  - 200: ChannelProfile: Public channel view
  - 404: ErrNotFound: No channel with this handle
*/
func (handler *Handler) getChannel(writer http.ResponseWriter, request *http.Request) {
	username := requestutil.Param(request, "username")

	viewerID := ""
	if identity := requestutil.Identity(request); identity != nil {
		viewerID = identity.UserID
	}

	channel, err := handler.accountService.GetChannel(request.Context(), username, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, channel)
}
