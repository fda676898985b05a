// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the Vidora API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS. This file holds the
// security gates: authentication (who is calling) and ownership (may they
// mutate the addressed resource).
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `auth` service
// implementation, allowing us to easily inject fakes during unit testing.
type TokenVerifier interface {
	Verify(tokenString string, expectedClass sec.TokenClass) (*sec.Claims, error)
}

// IdentityResolver resolves the live profile behind a verified subject id.
//
// A token can outlive its account (deletion, suspension), so the gate always
// confirms the subject still exists before attaching an identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (*sec.Identity, error)
}

// Authenticate extracts and verifies the access token on every request.
//
// # Flow
//  1. Extract the token: the access_token cookie wins; the
//     'Authorization: Bearer <token>' header is the fallback. The first
//     source present is used, never both.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, verify via [TokenVerifier] with the access class. Every
//     verification failure is answered with the same generic 401 so clients
//     never learn whether the token was malformed, forged, or merely expired.
//  4. Resolve the subject's current profile via [IdentityResolver]; a
//     deleted account gets the same generic 401, while a lookup that fails
//     for infrastructure reasons surfaces as a retryable 503 instead.
//  5. Inject the resolved [*sec.Identity] into the request context.
//
// No token is ever re-issued here. Expired access tokens are renewed only
// through the refresh endpoint.
//
// # Parameters
//   - verifier: The TokenVerifier instance.
//   - resolver: The IdentityResolver instance.
//
// # Returns
//   - An [http.Handler] middleware.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Ordered Extraction (cookie, then header) ───────────────────
			tokenString := extractAccessToken(request)
			if tokenString == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(tokenString, sec.ClassAccess)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized(constants.GenericAuthFailureMessage))
				return
			}

			// ── 3. Live Profile Resolution ────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), claims.Subject)
			if err != nil {
				// A subject that definitively no longer exists gets the
				// generic 401. A lookup that failed for infrastructure
				// reasons is a retryable outage, not an auth verdict.
				if apperr.IsNotFound(err) {
					respond.Error(writer, request, apperr.Unauthorized(constants.GenericAuthFailureMessage))
					return
				}
				respond.Error(writer, request, apperr.DependencyTimeout(err))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractAccessToken returns the access token carried by the request,
// preferring the cookie over the Authorization header. The two sources are
// never merged.
func extractAccessToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized(constants.GenericAuthFailureMessage))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests if the authenticated user doesn't have the required role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically implies
// [RequireAuth] so you don't need to mount both.
//
// # Flow
//  1. Check if [*sec.Identity] exists in context (implies AuthN).
//  2. Check if the user's role meets or exceeds the target role using [sec.UserRole.AtLeast].
//  3. If insufficient, abort with HTTP 403 Forbidden.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetAuthUser(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized(constants.GenericAuthFailureMessage))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !identity.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// OwnerLookup resolves a resource id to the id of the user who owns it.
//
// Implementations must return an error carrying [apperr.CodeNotFound] when
// the id does not resolve to any resource.
type OwnerLookup func(ctx context.Context, resourceID string) (ownerID string, err error)

// RequireOwner guards resource-mutation endpoints.
//
// # Flow
//  1. Read the resource id from the named URL parameter.
//  2. Resolve its owner through the bound [OwnerLookup]. The binding of
//     parameter name to lookup happens once at route registration, never by
//     runtime type inspection.
//  3. Abort with 404 if the resource does not exist, 403 if the caller is
//     not the owner, otherwise pass the request through untouched.
//
// # Usage
//
// Must be registered AFTER [Authenticate]; it implies [RequireAuth].
//
//	router.With(middleware.RequireOwner("videoID", svc.OwnerOf)).Delete("/{videoID}", h.delete)
func RequireOwner(param string, lookup OwnerLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetAuthUser(request.Context())
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized(constants.GenericAuthFailureMessage))
				return
			}

			resourceID := chi.URLParam(request, param)
			if resourceID == "" {
				respond.Error(writer, request, apperr.NotFound("Resource"))
				return
			}

			ownerID, err := lookup(request.Context(), resourceID)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if ownerID != identity.UserID {
				respond.Error(writer, request, apperr.Forbidden("You do not own this resource"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
