// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session lifecycle entry points: registration,
// login, token refresh, logout, and password change. It is strictly a
// transport layer (status codes, cookies, JSON); every security decision
// lives in [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register        : Creates a new account.
//   - POST /login           : Authenticates and establishes the single session.
//   - POST /refresh         : Rotates the refresh token.
//   - POST /logout          : Tears the session down.
//   - POST /change-password : Replaces the password and kills the session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// # Session Transport

// setSessionCookies attaches both credentials as httpOnly secure cookies.
// The refresh cookie is path-scoped to the auth endpoints so browsers never
// send the long-lived credential with ordinary API traffic.
func setSessionCookies(writer http.ResponseWriter, tokens TokenPair) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    tokens.AccessToken,
		Path:     "/",
		Expires:  tokens.AccessTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    tokens.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  tokens.RefreshTokenExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies expires both credential cookies on the client.
func clearSessionCookies(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// readRefreshToken extracts the refresh token from the cookie, falling back
// to the JSON body for non-browser clients. Empty when neither is present.
func readRefreshToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.RefreshTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var input refreshRequest
	if err := requestutil.DecodeJSON(request, &input); err == nil {
		return input.RefreshToken
	}
	return ""
}

// mapSessionError converts internal session sentinels into the uniform
// client-facing error. The distinction between invalid, expired, and reused
// tokens is deliberately erased at this boundary.
func mapSessionError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidRefreshToken), errors.Is(err, ErrSessionRevoked):
		return apperr.Unauthorized(constants.GenericAuthFailureMessage)
	case errors.Is(err, ErrStoreUnavailable):
		return apperr.DependencyTimeout(err)
	default:
		return err
	}
}

// sessionPayload builds the JSON body returned by login and refresh. Tokens
// travel in the body as well as the cookies so mobile clients without a
// cookie jar can use the same endpoints.
func (handler *Handler) sessionPayload(session *LoginSession) map[string]any {
	return map[string]any{
		FieldAccessToken:  session.Tokens.AccessToken,
		FieldRefreshToken: session.Tokens.RefreshToken,
		FieldTokenType:    "Bearer",
		FieldExpiresIn:    int64(handler.authService.AccessTokenTTL() / time.Second),
		FieldUser:         session.User,
	}
}

// # Handlers

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input, checks for identity conflicts, and persists
a new user profile to the database. Does not establish a session.

Request:
  - Body: registerRequest (Username, Email, Password, DisplayName)

Response:
  - 201: User: Created user profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, MinUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
Login authenticates a user and establishes their single session.

POST /api/v1/auth/login

Description: Verifies credentials, mints an access/refresh pair, and installs
the refresh fingerprint as the subject's one live session. Both tokens are
set as httpOnly cookies and echoed in the JSON body.

Request:
  - Body: loginRequest (Login, Password)

Response:
  - 200: Session payload (tokens + user profile)
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldLogin, input.Login)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Login:    input.Login,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, mapSessionError(err))
		return
	}

	setSessionCookies(writer, session.Tokens)
	respond.OK(writer, handler.sessionPayload(session))
}

/*
Refresh trades a valid refresh token for a brand new credential pair.

POST /api/v1/auth/refresh

Description: Strict rotation. The presented token is consumed whether the
call succeeds or not; presenting a superseded token destroys the session
entirely. The token is read from the refresh cookie or the JSON body.

Response:
  - 200: Session payload with the rotated credentials
  - 401: ErrUnauthorized: Missing, invalid, expired, or reused token
  - 503: DependencyTimeout: Session store unreachable (after retry)
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	refreshToken := readRefreshToken(request)
	if refreshToken == "" {
		respond.Error(writer, request, apperr.Unauthorized(constants.GenericAuthFailureMessage))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), refreshToken)
	if err != nil {
		mapped := mapSessionError(err)
		// Only an authentication verdict burns the client's cookies. A
		// backing-store outage keeps them so the client can simply retry.
		if appError := apperr.As(mapped); appError != nil && appError.HTTPStatus == http.StatusUnauthorized {
			clearSessionCookies(writer)
		}
		respond.Error(writer, request, mapped)
		return
	}

	setSessionCookies(writer, session.Tokens)
	respond.OK(writer, handler.sessionPayload(session))
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Idempotent. Clears the server-side session (when the refresh
token identifies one) and expires the credential cookies either way.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if refreshToken := readRefreshToken(request); refreshToken != "" {
		if err := handler.authService.Logout(request.Context(), refreshToken); err != nil {
			respond.Error(writer, request, mapSessionError(err))
			return
		}
	}

	clearSessionCookies(writer)
	respond.NoContent(writer)
}

/*
ChangePassword updates the authenticated user's password.

POST /api/v1/auth/change-password

Description: Verifies the current password, stores the new hash, and destroys
the session. Every outstanding token pair is dead afterwards; the client must
log in again.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Success: Password changed
  - 401: ErrUnauthorized: Wrong current password or no session
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		identity.UserID,
		input.CurrentPassword,
		input.NewPassword,
	)
	if err != nil {
		respond.Error(writer, request, mapSessionError(err))
		return
	}

	clearSessionCookies(writer)
	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully. Please log in again.",
	})
}
