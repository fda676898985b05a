// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

type fakeVerifier struct {
	// tokens maps an accepted token string to the subject it authenticates.
	tokens map[string]string
}

func (v *fakeVerifier) Verify(tokenString string, expectedClass sec.TokenClass) (*sec.Claims, error) {
	if expectedClass != sec.ClassAccess {
		return nil, sec.ErrWrongClass
	}
	subject, ok := v.tokens[tokenString]
	if !ok {
		return nil, sec.ErrBadSignature
	}
	return &sec.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		UserID:           subject,
		Class:            string(sec.ClassAccess),
	}, nil
}

type fakeResolver struct {
	identities map[string]*sec.Identity
	// outage, when set, fails every resolution with a non-auth error.
	outage error
}

func (r *fakeResolver) ResolveIdentity(_ context.Context, userID string) (*sec.Identity, error) {
	if r.outage != nil {
		return nil, r.outage
	}
	identity, ok := r.identities[userID]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return identity, nil
}

func newGate(t *testing.T) func(http.Handler) http.Handler {
	t.Helper()
	verifier := &fakeVerifier{tokens: map[string]string{
		"cookie-token": "user-cookie",
		"bearer-token": "user-bearer",
		"ghost-token":  "user-deleted",
	}}
	resolver := &fakeResolver{identities: map[string]*sec.Identity{
		"user-cookie": {UserID: "user-cookie", Username: "cam", Role: sec.RoleMember},
		"user-bearer": {UserID: "user-bearer", Username: "binh", Role: sec.RoleMember},
	}}
	return middleware.Authenticate(verifier, resolver)
}

// echoIdentity writes the authenticated user id, or "anonymous".
func echoIdentity(writer http.ResponseWriter, request *http.Request) {
	if identity := ctxutil.GetAuthUser(request.Context()); identity != nil {
		_, _ = writer.Write([]byte(identity.UserID))
		return
	}
	_, _ = writer.Write([]byte("anonymous"))
}

func TestAuthenticate_AnonymousPassthrough(t *testing.T) {
	handler := newGate(t)(http.HandlerFunc(echoIdentity))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/feed", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "anonymous", recorder.Body.String())
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	handler := newGate(t)(http.HandlerFunc(echoIdentity))

	request := httptest.NewRequest(http.MethodGet, "/feed", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer bearer-token")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "user-bearer", recorder.Body.String())
}

func TestAuthenticate_CookieWinsOverHeader(t *testing.T) {
	handler := newGate(t)(http.HandlerFunc(echoIdentity))

	// Both sources present: the cookie must be the one consulted, and the
	// (invalid) header must never be looked at.
	request := httptest.NewRequest(http.MethodGet, "/feed", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "cookie-token"})
	request.Header.Set(constants.HeaderAuthorization, "Bearer forged-garbage")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "user-cookie", recorder.Body.String())
}

func TestAuthenticate_UniformFailureMessage(t *testing.T) {
	handler := newGate(t)(http.HandlerFunc(echoIdentity))

	testCases := []struct {
		name  string
		token string
	}{
		{name: "forged token", token: "forged-garbage"},
		{name: "valid token for deleted account", token: "ghost-token"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/feed", nil)
			request.Header.Set(constants.HeaderAuthorization, "Bearer "+testCase.token)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			require.Equal(t, http.StatusUnauthorized, recorder.Code)

			var envelope map[string]any
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, constants.GenericAuthFailureMessage, envelope["error"])
		})
	}
}

func TestAuthenticate_ResolverOutageIsNotAuthFailure(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]string{"cookie-token": "user-cookie"}}
	resolver := &fakeResolver{outage: errors.New("dial tcp: connection refused")}
	handler := middleware.Authenticate(verifier, resolver)(http.HandlerFunc(echoIdentity))

	request := httptest.NewRequest(http.MethodGet, "/feed", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer cookie-token")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	// A storage outage must not masquerade as a rejected credential.
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestRequireAuth_BlocksAnonymous(t *testing.T) {
	handler := middleware.RequireAuth(http.HandlerFunc(echoIdentity))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/videos", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(sec.RoleAdmin)(http.HandlerFunc(echoIdentity))

	t.Run("member is forbidden", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodDelete, "/admin/videos/v1", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), &sec.Identity{UserID: "u1", Role: sec.RoleMember})

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodDelete, "/admin/videos/v1", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), &sec.Identity{UserID: "u2", Role: sec.RoleAdmin})

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/admin/videos/v1", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRequireOwner(t *testing.T) {
	owners := map[string]string{"v1": "alice", "v2": "bob"}
	lookup := func(_ context.Context, resourceID string) (string, error) {
		ownerID, ok := owners[resourceID]
		if !ok {
			return "", apperr.NotFound("Video")
		}
		return ownerID, nil
	}

	router := chi.NewRouter()
	router.With(middleware.RequireOwner("videoID", lookup)).
		Delete("/videos/{videoID}", func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		})

	serve := func(t *testing.T, path string, identity *sec.Identity) *httptest.ResponseRecorder {
		t.Helper()
		request := httptest.NewRequest(http.MethodDelete, path, nil)
		if identity != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), identity))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	t.Run("owner may mutate", func(t *testing.T) {
		recorder := serve(t, "/videos/v1", &sec.Identity{UserID: "alice"})
		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		recorder := serve(t, "/videos/v2", &sec.Identity{UserID: "alice"})
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("missing resource is not found", func(t *testing.T) {
		recorder := serve(t, "/videos/nope", &sec.Identity{UserID: "alice"})
		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		recorder := serve(t, "/videos/v1", nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
