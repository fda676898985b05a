// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/media"
)

func TestClient_Upload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/upload/video", request.URL.Path)
		require.Equal(t, "Bearer test-key", request.Header.Get("Authorization"))

		file, header, err := request.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()

		contents, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake video bytes", string(contents))
		assert.Equal(t, "clip.mp4", header.Filename)

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"secure_url":"https://cdn.vidora.app/v/abc.mp4","public_id":"v/abc","duration":12.5}`))
	}))
	defer server.Close()

	client := media.NewClient(server.URL, "test-key")

	asset, err := client.Upload(context.Background(), media.KindVideo, "clip.mp4", strings.NewReader("fake video bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.vidora.app/v/abc.mp4", asset.URL)
	assert.Equal(t, "v/abc", asset.AssetID)
	assert.InDelta(t, 12.5, asset.Duration, 0.0001)
}

func TestClient_UploadServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := media.NewClient(server.URL, "test-key")

	_, err := client.Upload(context.Background(), media.KindImage, "avatar.png", strings.NewReader("png"))
	assert.Error(t, err)
}

func TestClient_Delete(t *testing.T) {
	t.Run("absent asset is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			require.Equal(t, http.MethodDelete, request.Method)
			require.Equal(t, "/assets/v%2Fabc", request.URL.EscapedPath())
			writer.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := media.NewClient(server.URL, "test-key")
		assert.NoError(t, client.Delete(context.Background(), "v/abc"))
	})

	t.Run("service failure surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := media.NewClient(server.URL, "test-key")
		assert.Error(t, client.Delete(context.Background(), "v/abc"))
	})
}
