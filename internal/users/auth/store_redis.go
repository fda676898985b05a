// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidora/internal/platform/constants"
)

// # Redis Session Store

// RedisSessionStore implements [SessionStore] on Redis.
//
// Keys live under [constants.RedisPrefixSession] with the user id appended.
// The value is the current refresh-token fingerprint; the key TTL mirrors the
// refresh token lifetime, so abandoned sessions expire on their own.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a Redis-backed [SessionStore].
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// rotateScript performs the compare-and-swap server-side so the compare and
// the replace cannot interleave with a concurrent refresh.
//
// Replies: 0 = no session, 1 = mismatch (session deleted), 2 = rotated.
var rotateScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current then
	return 0
end
if current ~= ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 2
`)

func sessionKey(userID string) string {
	return constants.RedisPrefixSession + userID
}

/*
SetFingerprint unconditionally installs the subject's session.

Parameters:
  - context: context.Context
  - userID: string
  - fingerprint: string
  - ttl: time.Duration

Returns:
  - error: ErrStoreUnavailable wrapping the transport failure
*/
func (store *RedisSessionStore) SetFingerprint(context context.Context, userID, fingerprint string, ttl time.Duration) error {
	if err := store.client.Set(context, sessionKey(userID), fingerprint, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

/*
GetFingerprint returns the subject's current fingerprint, or empty if the
subject has no session.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Current fingerprint ("" when absent)
  - error: ErrStoreUnavailable wrapping the transport failure
*/
func (store *RedisSessionStore) GetFingerprint(context context.Context, userID string) (string, error) {
	fingerprint, err := store.client.Get(context, sessionKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis_session_get_failed: %w: %w", ErrStoreUnavailable, err)
	}
	return fingerprint, nil
}

/*
Rotate atomically trades the presented fingerprint for the next one.

Description: Runs a Lua script so GET, compare, DEL/SET happen as one step
inside Redis. Exactly one of N concurrent callers presenting the same
fingerprint wins.

Parameters:
  - context: context.Context
  - userID: string
  - presented: string
  - next: string
  - ttl: time.Duration

Returns:
  - RotateStatus: Rotation outcome
  - error: ErrStoreUnavailable wrapping the transport failure
*/
func (store *RedisSessionStore) Rotate(context context.Context, userID, presented, next string, ttl time.Duration) (RotateStatus, error) {
	reply, err := rotateScript.Run(
		context,
		store.client,
		[]string{sessionKey(userID)},
		presented,
		next,
		ttl.Milliseconds(),
	).Int64()

	if err != nil {
		return RotateStatusNone, fmt.Errorf("redis_session_rotate_failed: %w: %w", ErrStoreUnavailable, err)
	}

	switch reply {
	case 0:
		return RotateStatusNone, nil
	case 1:
		return RotateStatusMismatch, nil
	case 2:
		return RotateStatusRotated, nil
	default:
		return RotateStatusNone, fmt.Errorf("redis_session_rotate_failed: unexpected script reply %d", reply)
	}
}

/*
Clear removes the subject's session. Clearing an absent session succeeds.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: ErrStoreUnavailable wrapping the transport failure
*/
func (store *RedisSessionStore) Clear(context context.Context, userID string) error {
	if err := store.client.Del(context, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis_session_clear_failed: %w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
