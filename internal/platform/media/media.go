// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media integrates with the external asset-hosting service that stores
Vidora's video files, thumbnails, and avatars.

The API server never serves bytes itself. Handlers stream the uploaded file to
the hosting service, persist the returned URL and asset id, and hand the URL
to clients.

Architecture:

  - Uploader: The interface consumed by domain services.
  - Client: The HTTP implementation talking to the hosting service.

The Uploader interface keeps domain services testable without network access.
*/
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// AssetKind distinguishes upload processing pipelines on the hosting side.
type AssetKind string

const (
	KindVideo AssetKind = "video"
	KindImage AssetKind = "image"
)

// Asset describes a successfully stored file.
type Asset struct {
	// URL is the public delivery URL for the asset.
	URL string `json:"url"`
	// AssetID is the hosting service's identifier, needed for deletion.
	AssetID string `json:"asset_id"`
	// Duration is the playable length in seconds. Zero for images.
	Duration float64 `json:"duration"`
}

// Uploader is the storage contract consumed by domain services.
type Uploader interface {
	Upload(ctx context.Context, kind AssetKind, filename string, file io.Reader) (*Asset, error)
	Delete(ctx context.Context, assetID string) error
}

// Client is the HTTP implementation of [Uploader].
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a media client for the configured hosting service.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			// Uploads carry whole video files, so this is deliberately generous.
			Timeout: 5 * time.Minute,
		},
	}
}

// uploadResponse mirrors the hosting service's JSON reply.
type uploadResponse struct {
	SecureURL string  `json:"secure_url"`
	PublicID  string  `json:"public_id"`
	Duration  float64 `json:"duration"`
}

// Upload streams a file to the hosting service and returns the stored asset.
//
// # Parameters
//   - ctx: Request-scoped context; cancellation aborts the transfer.
//   - kind: Processing pipeline to use (video vs image).
//   - filename: Original client filename, forwarded as a hint only.
//   - file: The file contents. Read exactly once, never buffered in full.
//
// # Returns
//   - The stored [*Asset] on success.
//   - A wrapped error on transport or service failure.
func (client *Client) Upload(ctx context.Context, kind AssetKind, filename string, file io.Reader) (*Asset, error) {

	// 1. Pipe the multipart body so large videos are never held in memory
	bodyReader, bodyWriter := io.Pipe()
	form := multipart.NewWriter(bodyWriter)

	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err != nil {
			_ = bodyWriter.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			_ = bodyWriter.CloseWithError(err)
			return
		}
		_ = bodyWriter.CloseWithError(form.Close())
	}()

	// 2. Build and send the request
	endpoint := fmt.Sprintf("%s/upload/%s", client.baseURL, url.PathEscape(string(kind)))
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("media_upload_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", form.FormDataContentType())
	request.Header.Set("Authorization", "Bearer "+client.apiKey)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("media_upload_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("media_upload_failed: unexpected status %d", response.StatusCode)
	}

	// 3. Decode the stored asset descriptor
	var reply uploadResponse
	if err := json.NewDecoder(response.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("media_upload_decode_failed: %w", err)
	}

	return &Asset{
		URL:      reply.SecureURL,
		AssetID:  reply.PublicID,
		Duration: reply.Duration,
	}, nil
}

// Delete removes a stored asset. Deleting an already-absent asset is not an
// error; cleanup paths call this after database rows are gone.
func (client *Client) Delete(ctx context.Context, assetID string) error {
	endpoint := fmt.Sprintf("%s/assets/%s", client.baseURL, url.PathEscape(assetID))
	request, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("media_delete_request_failed: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.apiKey)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("media_delete_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	switch response.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("media_delete_failed: unexpected status %d", response.StatusCode)
	}
}
