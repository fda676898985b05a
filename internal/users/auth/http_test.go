// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/users/auth"
)

// postRefresh exercises POST /refresh with the token carried in the JSON body.
func postRefresh(t *testing.T, handler *auth.Handler, refreshToken string) *httptest.ResponseRecorder {
	t.Helper()

	body := strings.NewReader(`{"refresh_token":"` + refreshToken + `"}`)
	request := httptest.NewRequest(http.MethodPost, "/refresh", body)
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	return recorder
}

func TestRefreshRejectionClearsClientCookies(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	handler := auth.NewHandler(service)
	session := registerAndLogin(t, service)

	// Consume the token once so the replay below is a reuse.
	_, err := service.Refresh(context.Background(), session.Tokens.RefreshToken)
	require.NoError(t, err)

	recorder := postRefresh(t, handler, session.Tokens.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// The rejection expires both credential cookies on the client.
	cookies := recorder.Result().Cookies()
	require.NotEmpty(t, cookies)
	for _, cookie := range cookies {
		assert.Empty(t, cookie.Value)
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestRefreshOutageKeepsClientCookies(t *testing.T) {
	flaky := &flakySessionStore{SessionStore: auth.NewMemorySessionStore()}
	service, _ := newTestService(t, flaky)
	handler := auth.NewHandler(service)
	session := registerAndLogin(t, service)

	// Exhaust the single retry so the outage surfaces.
	flaky.mu.Lock()
	flaky.remaining = 2
	flaky.mu.Unlock()

	recorder := postRefresh(t, handler, session.Tokens.RefreshToken)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	// The client's cookies survive; once the store recovers, the very same
	// token rotates normally.
	assert.Empty(t, recorder.Result().Cookies())

	recovered := postRefresh(t, handler, session.Tokens.RefreshToken)
	assert.Equal(t, http.StatusOK, recovered.Code)
	assert.NotEmpty(t, recovered.Result().Cookies())
}
