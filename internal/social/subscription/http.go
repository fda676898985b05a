// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the follow graph.
type Handler struct {
	service *Service
}

// NewHandler constructs a new subscription [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes attaches follow-graph endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	// Follower lists are public
	api.Get("/users/{userID}/subscribers", handler.ListSubscribers)

	// Toggling and the personal list require authentication
	api.Group(func(user chi.Router) {
		user.Use(middleware.RequireAuth)
		user.Post("/users/{userID}/subscribe", handler.Toggle)
		user.Get("/me/subscriptions", handler.ListSubscriptions)
	})
}

// # Follow Graph

/*
POST /api/v1/users/{userID}/subscribe.

Description: Toggles the caller's subscription to a channel.

Request:
  - userID: string (UUID of the channel)

Response:
  - 200: Status: Post-toggle subscribed flag and follower count
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Channel not found
  - 422: ErrUnprocessable: Self-subscription
*/
func (handler *Handler) Toggle(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	channelID := requestutil.ID(request, "userID")

	status, err := handler.service.Toggle(request.Context(), identity.UserID, channelID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, status)
}

/*
GET /api/v1/users/{userID}/subscribers.

Description: Returns a paginated page of a channel's followers.

Request:
  - userID: string (UUID of the channel)
  - limit: int
  - page: int

Response:
  - 200: []ChannelSummary: Paginated follower cards
*/
func (handler *Handler) ListSubscribers(writer http.ResponseWriter, request *http.Request) {
	channelID := requestutil.ID(request, "userID")
	paginationParams := pagination.FromRequest(request)

	subscribers, total, err := handler.service.ListSubscribers(request.Context(), channelID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, subscribers, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/me/subscriptions.

Description: Returns the channels the caller follows.

Request:
  - limit: int
  - page: int

Response:
  - 200: []ChannelSummary: Paginated channel cards
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListSubscriptions(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	paginationParams := pagination.FromRequest(request)

	subscriptions, total, err := handler.service.ListSubscriptions(request.Context(), identity.UserID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, subscriptions, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
