// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/users/auth"
)

func newRedisStore(t *testing.T) (*auth.RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return auth.NewRedisSessionStore(client), server
}

func TestRedisSessionStore_SetAndGet(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetFingerprint(ctx, "user-1", "fp-a", time.Hour))

	fingerprint, err := store.GetFingerprint(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "fp-a", fingerprint)

	// Absent subject reads as empty, not as an error.
	fingerprint, err = store.GetFingerprint(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, fingerprint)
}

func TestRedisSessionStore_SetOverwrites(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetFingerprint(ctx, "user-1", "fp-a", time.Hour))
	require.NoError(t, store.SetFingerprint(ctx, "user-1", "fp-b", time.Hour))

	fingerprint, err := store.GetFingerprint(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "fp-b", fingerprint)
}

func TestRedisSessionStore_Rotate(t *testing.T) {
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		store, _ := newRedisStore(t)

		status, err := store.Rotate(ctx, "user-1", "fp-a", "fp-b", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, auth.RotateStatusNone, status)
	})

	t.Run("matching fingerprint rotates", func(t *testing.T) {
		store, _ := newRedisStore(t)
		require.NoError(t, store.SetFingerprint(ctx, "user-1", "fp-a", time.Hour))

		status, err := store.Rotate(ctx, "user-1", "fp-a", "fp-b", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, auth.RotateStatusRotated, status)

		fingerprint, err := store.GetFingerprint(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "fp-b", fingerprint)
	})

	t.Run("mismatch deletes the session", func(t *testing.T) {
		store, _ := newRedisStore(t)
		require.NoError(t, store.SetFingerprint(ctx, "user-1", "fp-a", time.Hour))

		status, err := store.Rotate(ctx, "user-1", "fp-stale", "fp-b", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, auth.RotateStatusMismatch, status)

		// The legitimate holder is locked out too.
		fingerprint, err := store.GetFingerprint(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, fingerprint)
	})
}

func TestRedisSessionStore_SessionExpires(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetFingerprint(ctx, "user-1", "fp-a", time.Minute))

	server.FastForward(2 * time.Minute)

	fingerprint, err := store.GetFingerprint(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, fingerprint)

	status, err := store.Rotate(ctx, "user-1", "fp-a", "fp-b", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, auth.RotateStatusNone, status)
}

func TestRedisSessionStore_RotateRefreshesTTL(t *testing.T) {
	store, server := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetFingerprint(ctx, "user-1", "fp-a", time.Minute))

	// The rotation reinstalls the full refresh lifetime.
	status, err := store.Rotate(ctx, "user-1", "fp-a", "fp-b", time.Hour)
	require.NoError(t, err)
	require.Equal(t, auth.RotateStatusRotated, status)

	server.FastForward(30 * time.Minute)

	fingerprint, err := store.GetFingerprint(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "fp-b", fingerprint)
}

func TestRedisSessionStore_Clear(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetFingerprint(ctx, "user-1", "fp-a", time.Hour))
	require.NoError(t, store.Clear(ctx, "user-1"))
	require.NoError(t, store.Clear(ctx, "user-1"))

	fingerprint, err := store.GetFingerprint(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, fingerprint)
}
