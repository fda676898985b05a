// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"time"
)

// # In-Memory Session Store

// memorySession is a single subject's session record.
type memorySession struct {
	fingerprint string
	expiresAt   time.Time
}

// MemorySessionStore implements [SessionStore] with a mutex-guarded map.
//
// Suitable for single-process deployments and tests. Expired entries are
// reaped lazily on access; semantics otherwise match [RedisSessionStore]
// exactly, including delete-on-mismatch.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

// NewMemorySessionStore creates an empty in-process [SessionStore].
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

// current returns the live record for userID, reaping it if expired.
// Callers must hold the mutex.
func (store *MemorySessionStore) current(userID string) (memorySession, bool) {
	session, ok := store.sessions[userID]
	if !ok {
		return memorySession{}, false
	}
	if store.now().After(session.expiresAt) {
		delete(store.sessions, userID)
		return memorySession{}, false
	}
	return session, true
}

// SetFingerprint unconditionally installs the subject's session.
func (store *MemorySessionStore) SetFingerprint(_ context.Context, userID, fingerprint string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.sessions[userID] = memorySession{
		fingerprint: fingerprint,
		expiresAt:   store.now().Add(ttl),
	}
	return nil
}

// GetFingerprint returns the subject's current fingerprint, or empty if the
// subject has no session.
func (store *MemorySessionStore) GetFingerprint(_ context.Context, userID string) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	session, ok := store.current(userID)
	if !ok {
		return "", nil
	}
	return session.fingerprint, nil
}

// Rotate atomically trades the presented fingerprint for the next one. The
// whole operation happens under the store mutex, so exactly one of N
// concurrent callers presenting the same fingerprint wins.
func (store *MemorySessionStore) Rotate(_ context.Context, userID, presented, next string, ttl time.Duration) (RotateStatus, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	session, ok := store.current(userID)
	if !ok {
		return RotateStatusNone, nil
	}

	if session.fingerprint != presented {
		// Reuse signal: tear the session down so neither party keeps it.
		delete(store.sessions, userID)
		return RotateStatusMismatch, nil
	}

	store.sessions[userID] = memorySession{
		fingerprint: next,
		expiresAt:   store.now().Add(ttl),
	}
	return RotateStatusRotated, nil
}

// Clear removes the subject's session. Clearing an absent session succeeds.
func (store *MemorySessionStore) Clear(_ context.Context, userID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.sessions, userID)
	return nil
}
