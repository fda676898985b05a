// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

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
	"github.com/taibuivan/vidora/internal/social/comment"
)

// memoryCommentRepository is an in-memory CommentRepository for service tests.
type memoryCommentRepository struct {
	mu   sync.Mutex
	rows map[string]*comment.Comment
}

func newMemoryCommentRepository() *memoryCommentRepository {
	return &memoryCommentRepository{rows: make(map[string]*comment.Comment)}
}

func (repo *memoryCommentRepository) ListByVideo(_ context.Context, videoID string, limit, offset int) ([]*comment.Comment, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var matched []*comment.Comment
	for _, row := range repo.rows {
		if row.VideoID != videoID {
			continue
		}
		copied := *row
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
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

func (repo *memoryCommentRepository) FindByID(_ context.Context, id string) (*comment.Comment, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	copied := *row
	return &copied, nil
}

func (repo *memoryCommentRepository) Create(_ context.Context, entry *comment.Comment) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *entry
	repo.rows[entry.ID] = &copied
	return nil
}

func (repo *memoryCommentRepository) UpdateBody(_ context.Context, id, body string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok || row.IsDeleted {
		return nil
	}
	row.Body = body
	return nil
}

func (repo *memoryCommentRepository) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if row, ok := repo.rows[id]; ok {
		row.IsDeleted = true
		row.Body = ""
	}
	return nil
}

func (repo *memoryCommentRepository) OwnerOf(_ context.Context, id string) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	row, ok := repo.rows[id]
	if !ok || row.IsDeleted {
		return "", apperr.NotFound("Comment")
	}
	return row.UserID, nil
}

func newTestService(t *testing.T) (*comment.Service, *memoryCommentRepository) {
	t.Helper()
	repo := newMemoryCommentRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return comment.NewService(repo, logger), repo
}

func TestAddComment(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.AddComment(context.Background(), "video-1", "user-1", nil, "first!")
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.ParentID)
	assert.Equal(t, "first!", created.Body)
}

func TestAddCommentValidation(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.AddComment(context.Background(), "video-1", "user-1", nil, "")
	require.Error(t, err)

	_, err = service.AddComment(context.Background(), "video-1", "user-1", nil, strings.Repeat("x", 2001))
	require.Error(t, err)
}

func TestAddReplyFlattensNestedThreads(t *testing.T) {
	service, _ := newTestService(t)

	top, err := service.AddComment(context.Background(), "video-1", "user-1", nil, "top level")
	require.NoError(t, err)

	reply, err := service.AddComment(context.Background(), "video-1", "user-2", &top.ID, "a reply")
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)

	// Replying to a reply attaches to the top-level comment instead.
	nested, err := service.AddComment(context.Background(), "video-1", "user-3", &reply.ID, "nested")
	require.NoError(t, err)
	require.NotNil(t, nested.ParentID)
	assert.Equal(t, top.ID, *nested.ParentID)
}

func TestAddReplyToMissingParent(t *testing.T) {
	service, _ := newTestService(t)

	missing := "no-such-comment"
	_, err := service.AddComment(context.Background(), "video-1", "user-1", &missing, "orphan")
	require.Error(t, err)
}

func TestUpdateComment(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.AddComment(context.Background(), "video-1", "user-1", nil, "tpyo")
	require.NoError(t, err)

	updated, err := service.UpdateComment(context.Background(), created.ID, "typo")
	require.NoError(t, err)
	assert.Equal(t, "typo", updated.Body)
}

func TestDeleteCommentKeepsThreadPosition(t *testing.T) {
	service, repo := newTestService(t)
	top, err := service.AddComment(context.Background(), "video-1", "user-1", nil, "going away")
	require.NoError(t, err)
	_, err = service.AddComment(context.Background(), "video-1", "user-2", &top.ID, "still here")
	require.NoError(t, err)

	require.NoError(t, service.DeleteComment(context.Background(), top.ID))

	comments, total, err := repo.ListByVideo(context.Background(), "video-1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total, "the deleted comment keeps its row")

	for _, entry := range comments {
		if entry.ID == top.ID {
			assert.True(t, entry.IsDeleted)
			assert.Empty(t, entry.Body)
		}
	}
}

func TestOwnerOf(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.AddComment(context.Background(), "video-1", "user-1", nil, "mine")
	require.NoError(t, err)

	ownerID, err := service.OwnerOf(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", ownerID)
}
