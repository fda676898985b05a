// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/sec"
	"github.com/taibuivan/vidora/internal/users/auth"
)

// # Test Fixtures

// memoryUserRepository is a map-backed UserRepository for service tests.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*auth.User)}
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) Update(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (repo *memoryUserRepository) TouchLastLogin(_ context.Context, userID string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (repo *memoryUserRepository) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.users, id)
	return nil
}

// flakySessionStore fails a configured number of leading calls with
// ErrStoreUnavailable, then delegates.
type flakySessionStore struct {
	auth.SessionStore
	mu        sync.Mutex
	remaining int
}

func (store *flakySessionStore) trip() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.remaining > 0 {
		store.remaining--
		return fmt.Errorf("flaky: %w", auth.ErrStoreUnavailable)
	}
	return nil
}

func (store *flakySessionStore) SetFingerprint(ctx context.Context, userID, fingerprint string, ttl time.Duration) error {
	if err := store.trip(); err != nil {
		return err
	}
	return store.SessionStore.SetFingerprint(ctx, userID, fingerprint, ttl)
}

func (store *flakySessionStore) Rotate(ctx context.Context, userID, presented, next string, ttl time.Duration) (auth.RotateStatus, error) {
	if err := store.trip(); err != nil {
		return auth.RotateStatusNone, err
	}
	return store.SessionStore.Rotate(ctx, userID, presented, next, ttl)
}

func (store *flakySessionStore) Clear(ctx context.Context, userID string) error {
	if err := store.trip(); err != nil {
		return err
	}
	return store.SessionStore.Clear(ctx, userID)
}

func newTestCodec(t *testing.T) *sec.Codec {
	t.Helper()
	codec, err := sec.NewCodec(
		[]byte("access-secret-0123456789-0123456789"),
		[]byte("refresh-secret-0123456789-012345678"),
		"vidora.test",
	)
	require.NoError(t, err)
	return codec
}

func newTestService(t *testing.T, sessions auth.SessionStore) (*auth.Service, *memoryUserRepository) {
	t.Helper()
	users := newMemoryUserRepository()
	service := auth.NewService(users, sessions, newTestCodec(t), time.Minute, time.Hour)
	return service, users
}

func registerAndLogin(t *testing.T, service *auth.Service) *auth.LoginSession {
	t.Helper()
	ctx := context.Background()

	_, err := service.Register(ctx, auth.RegisterInput{
		Username: "binh",
		Email:    "binh@vidora.app",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	session, err := service.Login(ctx, auth.LoginInput{
		Login:    "binh@vidora.app",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	return session
}

// # Login

func TestLogin(t *testing.T) {
	sessions := auth.NewMemorySessionStore()
	service, _ := newTestService(t, sessions)
	session := registerAndLogin(t, service)

	assert.NotEmpty(t, session.Tokens.AccessToken)
	assert.NotEmpty(t, session.Tokens.RefreshToken)
	assert.NotEqual(t, session.Tokens.AccessToken, session.Tokens.RefreshToken)

	// The server keeps only the fingerprint of the refresh token.
	fingerprint, err := sessions.GetFingerprint(context.Background(), session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, sec.Fingerprint(session.Tokens.RefreshToken), fingerprint)
	assert.NotContains(t, fingerprint, session.Tokens.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	registerAndLogin(t, service)

	_, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "binh@vidora.app",
		Password: "wrong password",
	})
	assert.Error(t, err)
}

func TestLoginSupersedesPreviousSession(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	first := registerAndLogin(t, service)

	_, err := service.Login(context.Background(), auth.LoginInput{
		Login:    "binh",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	// The first login's refresh token is no longer current; trading it in is
	// now a reuse signal.
	_, err = service.Refresh(context.Background(), first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrSessionRevoked)
}

// # Rotation

func TestRefreshRotation(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	session := registerAndLogin(t, service)
	ctx := context.Background()

	rotated, err := service.Refresh(ctx, session.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.Tokens.RefreshToken, rotated.Tokens.RefreshToken)

	// The replacement token works.
	again, err := service.Refresh(ctx, rotated.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, again.Tokens.AccessToken)
}

func TestRefreshReuseDestroysSession(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	session := registerAndLogin(t, service)
	ctx := context.Background()

	rotated, err := service.Refresh(ctx, session.Tokens.RefreshToken)
	require.NoError(t, err)

	// Replaying the consumed token is detected as reuse.
	_, err = service.Refresh(ctx, session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrSessionRevoked)

	// And the teardown also locks out the holder of the newer token; whoever
	// that was, the session is gone.
	_, err = service.Refresh(ctx, rotated.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrSessionRevoked)
}

func TestRefreshWithAccessToken(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	session := registerAndLogin(t, service)

	// An access token can never be traded in for a new pair.
	_, err := service.Refresh(context.Background(), session.Tokens.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefreshWithGarbage(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	registerAndLogin(t, service)

	_, err := service.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidRefreshToken)
}

func TestRefreshConcurrencySingleWinner(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	session := registerAndLogin(t, service)

	const attempts = 16
	results := make(chan error, attempts)

	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			_, err := service.Refresh(context.Background(), session.Tokens.RefreshToken)
			results <- err
		}()
	}
	start.Done()

	var winners, losers int
	for i := 0; i < attempts; i++ {
		if err := <-results; err == nil {
			winners++
		} else {
			losers++
		}
	}

	// The compare-and-swap admits exactly one of N identical refresh attempts.
	assert.Equal(t, 1, winners)
	assert.Equal(t, attempts-1, losers)
}

// # Logout & Password Change

func TestLogoutIsIdempotent(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	session := registerAndLogin(t, service)
	ctx := context.Background()

	require.NoError(t, service.Logout(ctx, session.Tokens.RefreshToken))
	require.NoError(t, service.Logout(ctx, session.Tokens.RefreshToken))
	require.NoError(t, service.Logout(ctx, "garbage"))

	// Trading a token against the torn-down session is a revocation verdict.
	_, err := service.Refresh(ctx, session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrSessionRevoked)
}

func TestChangePasswordKillsSession(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	session := registerAndLogin(t, service)
	ctx := context.Background()

	err := service.ChangePassword(ctx, session.User.ID, "correct horse battery", "even better secret")
	require.NoError(t, err)

	// Outstanding refresh tokens are dead; the verdict is revocation.
	_, err = service.Refresh(ctx, session.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrSessionRevoked)

	// The old password no longer authenticates; the new one does.
	_, err = service.Login(ctx, auth.LoginInput{Login: "binh", Password: "correct horse battery"})
	assert.Error(t, err)

	_, err = service.Login(ctx, auth.LoginInput{Login: "binh", Password: "even better secret"})
	assert.NoError(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	service, _ := newTestService(t, auth.NewMemorySessionStore())
	session := registerAndLogin(t, service)

	err := service.ChangePassword(context.Background(), session.User.ID, "wrong", "even better secret")
	assert.Error(t, err)

	// The session survives a failed attempt.
	_, err = service.Refresh(context.Background(), session.Tokens.RefreshToken)
	assert.NoError(t, err)
}

// # Store Resilience

func TestRefreshRetriesOnceOnStoreOutage(t *testing.T) {
	flaky := &flakySessionStore{SessionStore: auth.NewMemorySessionStore()}
	service, _ := newTestService(t, flaky)
	session := registerAndLogin(t, service)

	// A single transient failure is absorbed by the retry.
	flaky.mu.Lock()
	flaky.remaining = 1
	flaky.mu.Unlock()

	rotated, err := service.Refresh(context.Background(), session.Tokens.RefreshToken)
	require.NoError(t, err)

	// Two consecutive failures exhaust the retry and surface the outage.
	flaky.mu.Lock()
	flaky.remaining = 2
	flaky.mu.Unlock()

	_, err = service.Refresh(context.Background(), rotated.Tokens.RefreshToken)
	assert.ErrorIs(t, err, auth.ErrStoreUnavailable)
}

// failingUserRepository simulates a database outage on account lookups.
type failingUserRepository struct {
	*memoryUserRepository
	mu      sync.Mutex
	failing bool
}

func (repo *failingUserRepository) setFailing(failing bool) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.failing = failing
}

func (repo *failingUserRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	failing := repo.failing
	repo.mu.Unlock()
	if failing {
		return nil, errors.New("dial tcp: connection refused")
	}
	return repo.memoryUserRepository.FindByID(ctx, id)
}

func TestRefreshSurvivesUserLookupOutage(t *testing.T) {
	users := &failingUserRepository{memoryUserRepository: newMemoryUserRepository()}
	service := auth.NewService(users, auth.NewMemorySessionStore(), newTestCodec(t), time.Minute, time.Hour)
	session := registerAndLogin(t, service)

	// A database outage during the account check is a retryable 503, never an
	// auth verdict that would cost the client their credentials.
	users.setFailing(true)
	_, err := service.Refresh(context.Background(), session.Tokens.RefreshToken)
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidRefreshToken)
	assert.NotErrorIs(t, err, auth.ErrSessionRevoked)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusServiceUnavailable, appError.HTTPStatus)

	// The session survived the outage; the very same token still rotates.
	users.setFailing(false)
	_, err = service.Refresh(context.Background(), session.Tokens.RefreshToken)
	assert.NoError(t, err)
}

// # Token Transport Metadata

func TestTokenPairExpiryMatchesClaims(t *testing.T) {
	codec := newTestCodec(t)
	service := auth.NewService(newMemoryUserRepository(), auth.NewMemorySessionStore(), codec, time.Minute, time.Hour)
	session := registerAndLogin(t, service)

	// The pair expiry handed to the transport layer is the exact instant
	// stamped into the claim, not a second independent clock reading.
	claims, err := codec.Verify(session.Tokens.RefreshToken, sec.ClassRefresh)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(session.Tokens.RefreshTokenExpiresAt.Truncate(time.Second)))

	accessClaims, err := codec.Verify(session.Tokens.AccessToken, sec.ClassAccess)
	require.NoError(t, err)
	assert.True(t, accessClaims.ExpiresAt.Time.Equal(session.Tokens.AccessTokenExpiresAt.Truncate(time.Second)))
}

// # Identity Resolution

func TestResolveIdentity(t *testing.T) {
	service, users := newTestService(t, auth.NewMemorySessionStore())
	session := registerAndLogin(t, service)
	ctx := context.Background()

	identity, err := service.ResolveIdentity(ctx, session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, identity.UserID)
	assert.Equal(t, "binh", identity.Username)

	// A deleted account stops resolving even though its tokens still verify.
	require.NoError(t, users.SoftDelete(ctx, session.User.ID))
	_, err = service.ResolveIdentity(ctx, session.User.ID)
	assert.Error(t, err)
}
