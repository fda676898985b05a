// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/social/post"
)

// memoryPostRepository is an in-memory PostRepository for service tests.
type memoryPostRepository struct {
	mu   sync.Mutex
	rows map[string]*post.Post
}

func newMemoryPostRepository() *memoryPostRepository {
	return &memoryPostRepository{rows: make(map[string]*post.Post)}
}

func (repo *memoryPostRepository) ListByAuthor(_ context.Context, userID string, limit, offset int) ([]*post.Post, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var matched []*post.Post
	for _, row := range repo.rows {
		if row.UserID != userID {
			continue
		}
		copied := *row
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
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

func (repo *memoryPostRepository) FindByID(_ context.Context, id string) (*post.Post, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	copied := *row
	return &copied, nil
}

func (repo *memoryPostRepository) Create(_ context.Context, entry *post.Post) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *entry
	repo.rows[entry.ID] = &copied
	return nil
}

func (repo *memoryPostRepository) UpdateBody(_ context.Context, id, body string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if row, ok := repo.rows[id]; ok {
		row.Body = body
	}
	return nil
}

func (repo *memoryPostRepository) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.rows, id)
	return nil
}

func (repo *memoryPostRepository) OwnerOf(_ context.Context, id string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return "", apperr.NotFound("Post")
	}
	return row.UserID, nil
}

func newTestService(t *testing.T) (*post.Service, *memoryPostRepository) {
	t.Helper()
	repo := newMemoryPostRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return post.NewService(repo, logger), repo
}

func TestCreatePost(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.CreatePost(context.Background(), "user-1", "hello feed")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "hello feed", created.Body)
}

func TestCreatePostValidation(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreatePost(context.Background(), "user-1", "")
	require.Error(t, err)

	_, err = service.CreatePost(context.Background(), "user-1", strings.Repeat("x", 501))
	require.Error(t, err)
}

func TestListPostsScopedToAuthor(t *testing.T) {
	service, _ := newTestService(t)
	_, err := service.CreatePost(context.Background(), "user-1", "mine")
	require.NoError(t, err)
	_, err = service.CreatePost(context.Background(), "user-2", "theirs")
	require.NoError(t, err)

	posts, total, err := service.ListPosts(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].Body)
}

func TestUpdatePost(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.CreatePost(context.Background(), "user-1", "draft")
	require.NoError(t, err)

	updated, err := service.UpdatePost(context.Background(), created.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Body)
}

func TestDeletePost(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.CreatePost(context.Background(), "user-1", "fleeting")
	require.NoError(t, err)

	require.NoError(t, service.DeletePost(context.Background(), created.ID))

	_, err = service.GetPost(context.Background(), created.ID)
	require.Error(t, err)
}

func TestOwnerOf(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.CreatePost(context.Background(), "user-1", "owned")
	require.NoError(t, err)

	ownerID, err := service.OwnerOf(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", ownerID)
}
