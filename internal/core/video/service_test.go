// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/video"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/media"
)

// # Test Doubles

// memoryVideoRepository is an in-memory VideoRepository for service tests.
type memoryVideoRepository struct {
	mu      sync.Mutex
	rows    map[string]*video.Video
	failing bool
}

func newMemoryVideoRepository() *memoryVideoRepository {
	return &memoryVideoRepository{rows: make(map[string]*video.Video)}
}

var errRepositoryDown = errors.New("repository down")

func (repo *memoryVideoRepository) List(_ context.Context, filter video.Filter, limit, offset int) ([]*video.Video, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var matched []*video.Video
	for _, row := range repo.rows {
		if !filter.IncludeUnpublished && !row.IsPublished {
			continue
		}
		if filter.OwnerID != "" && row.OwnerID != filter.OwnerID {
			continue
		}
		if filter.Search != "" && !strings.Contains(row.Title, filter.Search) {
			continue
		}
		copied := *row
		matched = append(matched, &copied)
	}
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (repo *memoryVideoRepository) FindByID(_ context.Context, id string) (*video.Video, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("Video")
	}
	copied := *row
	return &copied, nil
}

func (repo *memoryVideoRepository) FindBySlug(_ context.Context, slug string) (*video.Video, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, row := range repo.rows {
		if row.Slug == slug {
			copied := *row
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Video")
}

func (repo *memoryVideoRepository) Create(_ context.Context, v *video.Video) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.failing {
		return errRepositoryDown
	}
	copied := *v
	repo.rows[v.ID] = &copied
	return nil
}

func (repo *memoryVideoRepository) Update(_ context.Context, v *video.Video) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.rows[v.ID]; !ok {
		return apperr.NotFound("Video")
	}
	copied := *v
	repo.rows[v.ID] = &copied
	return nil
}

func (repo *memoryVideoRepository) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.rows, id)
	return nil
}

func (repo *memoryVideoRepository) IncrementViewCount(_ context.Context, id string, delta int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return apperr.NotFound("Video")
	}
	row.ViewCount += delta
	return nil
}

func (repo *memoryVideoRepository) OwnerOf(_ context.Context, id string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return "", apperr.NotFound("Video")
	}
	return row.OwnerID, nil
}

// fakeUploader records uploads and deletions instead of calling the asset host.
type fakeUploader struct {
	mu       sync.Mutex
	uploaded int
	deleted  []string
}

func (uploader *fakeUploader) Upload(_ context.Context, kind media.AssetKind, filename string, file io.Reader) (*media.Asset, error) {
	if _, err := io.Copy(io.Discard, file); err != nil {
		return nil, err
	}
	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	uploader.uploaded++
	assetID := string(kind) + "/asset-" + filename
	return &media.Asset{
		URL:      "https://assets.test/" + assetID,
		AssetID:  assetID,
		Duration: 42.5,
	}, nil
}

func (uploader *fakeUploader) Delete(_ context.Context, assetID string) error {
	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	uploader.deleted = append(uploader.deleted, assetID)
	return nil
}

func newTestService(t *testing.T) (*video.Service, *memoryVideoRepository, *fakeUploader) {
	t.Helper()
	repo := newMemoryVideoRepository()
	uploader := &fakeUploader{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return video.NewService(repo, uploader, logger), repo, uploader
}

func uploadDraft(t *testing.T, service *video.Service, ownerID, title string) *video.Video {
	t.Helper()
	draft, err := service.UploadVideo(context.Background(), ownerID, title, "a description", "clip.mp4", strings.NewReader("video-bytes"))
	require.NoError(t, err)
	return draft
}

// # Upload

func TestUploadVideoCreatesDraft(t *testing.T) {
	service, _, uploader := newTestService(t)

	draft := uploadDraft(t, service, "owner-1", "My First Video")

	assert.NotEmpty(t, draft.ID)
	assert.False(t, draft.IsPublished)
	assert.Nil(t, draft.PublishedAt)
	assert.Equal(t, "owner-1", draft.OwnerID)
	assert.Contains(t, draft.Slug, "my-first-video")
	assert.Contains(t, draft.VideoURL, "https://assets.test/")
	assert.InDelta(t, 42.5, draft.Duration, 0.001)
	assert.Equal(t, 1, uploader.uploaded)
}

func TestUploadVideoRequiresTitle(t *testing.T) {
	service, _, uploader := newTestService(t)

	_, err := service.UploadVideo(context.Background(), "owner-1", "", "", "clip.mp4", strings.NewReader("bytes"))

	require.Error(t, err)
	assert.Zero(t, uploader.uploaded, "nothing should reach the asset host on validation failure")
}

func TestUploadVideoCleansUpOrphanedAsset(t *testing.T) {
	service, repo, uploader := newTestService(t)
	repo.failing = true

	_, err := service.UploadVideo(context.Background(), "owner-1", "Doomed", "", "clip.mp4", strings.NewReader("bytes"))

	require.ErrorIs(t, err, errRepositoryDown)
	require.Len(t, uploader.deleted, 1, "the uploaded asset must be removed when the row never lands")
}

// # Watching

func TestGetVideoCountsViewsForOtherViewers(t *testing.T) {
	service, _, _ := newTestService(t)
	draft := uploadDraft(t, service, "owner-1", "Counted")
	_, err := service.PublishVideo(context.Background(), draft.ID)
	require.NoError(t, err)

	watched, err := service.GetVideo(context.Background(), draft.ID, "viewer-9")
	require.NoError(t, err)
	assert.Equal(t, int64(1), watched.ViewCount)

	// The owner reviewing their own video is not a view.
	again, err := service.GetVideo(context.Background(), draft.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.ViewCount)
}

func TestGetVideoHidesDraftsFromStrangers(t *testing.T) {
	service, _, _ := newTestService(t)
	draft := uploadDraft(t, service, "owner-1", "Secret Draft")

	_, err := service.GetVideo(context.Background(), draft.ID, "viewer-9")
	require.Error(t, err)

	owned, err := service.GetVideo(context.Background(), draft.ID, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, draft.ID, owned.ID)
}

func TestGetVideoBySlug(t *testing.T) {
	service, _, _ := newTestService(t)
	draft := uploadDraft(t, service, "owner-1", "Sluggable")
	_, err := service.PublishVideo(context.Background(), draft.ID)
	require.NoError(t, err)

	found, err := service.GetVideoBySlug(context.Background(), draft.Slug, "")
	require.NoError(t, err)
	assert.Equal(t, draft.ID, found.ID)
}

// # Publishing

func TestPublishVideoIsIdempotent(t *testing.T) {
	service, _, _ := newTestService(t)
	draft := uploadDraft(t, service, "owner-1", "Going Live")

	first, err := service.PublishVideo(context.Background(), draft.ID)
	require.NoError(t, err)
	require.NotNil(t, first.PublishedAt)

	second, err := service.PublishVideo(context.Background(), draft.ID)
	require.NoError(t, err)
	require.NotNil(t, second.PublishedAt)
	assert.Equal(t, *first.PublishedAt, *second.PublishedAt, "republishing must keep the original timestamp")
}

// # Metadata

func TestUpdateVideoRegeneratesSlug(t *testing.T) {
	service, _, _ := newTestService(t)
	draft := uploadDraft(t, service, "owner-1", "Old Title")

	newTitle := "Brand New Title"
	updated, err := service.UpdateVideo(context.Background(), draft.ID, &newTitle, nil)
	require.NoError(t, err)

	assert.Equal(t, newTitle, updated.Title)
	assert.Contains(t, updated.Slug, "brand-new-title")
	assert.Equal(t, "a description", updated.Description, "absent fields stay untouched")
}

func TestUploadThumbnailReplacesPreviousAsset(t *testing.T) {
	service, _, uploader := newTestService(t)
	draft := uploadDraft(t, service, "owner-1", "Thumbed")

	first, err := service.UploadThumbnail(context.Background(), draft.ID, "one.jpg", strings.NewReader("img"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ThumbURL)
	assert.Empty(t, uploader.deleted)

	second, err := service.UploadThumbnail(context.Background(), draft.ID, "two.jpg", strings.NewReader("img"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ThumbURL, second.ThumbURL)
	require.Len(t, uploader.deleted, 1, "the replaced thumbnail must be removed from the host")
}

// # Deletion

func TestDeleteVideoRemovesAssets(t *testing.T) {
	service, _, uploader := newTestService(t)
	draft := uploadDraft(t, service, "owner-1", "Short Lived")
	_, err := service.UploadThumbnail(context.Background(), draft.ID, "thumb.jpg", strings.NewReader("img"))
	require.NoError(t, err)

	require.NoError(t, service.DeleteVideo(context.Background(), draft.ID))

	_, err = service.GetVideo(context.Background(), draft.ID, "owner-1")
	require.Error(t, err)
	assert.Len(t, uploader.deleted, 2, "both the video and its thumbnail leave the host")
}

func TestOwnerOf(t *testing.T) {
	service, _, _ := newTestService(t)
	draft := uploadDraft(t, service, "owner-1", "Owned")

	ownerID, err := service.OwnerOf(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", ownerID)

	_, err = service.OwnerOf(context.Background(), "missing")
	require.Error(t, err)
}
