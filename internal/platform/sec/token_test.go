// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()

	codec, err := NewCodec(
		[]byte("access-secret-0123456789-0123456789-ab"),
		[]byte("refresh-secret-0123456789-0123456789-a"),
		"vidora.app",
	)
	require.NoError(t, err)
	return codec
}

/*
TestCodec_MintVerifyRoundTrip verifies that a minted token is accepted for its
own class and carries the subject back.
*/
func TestCodec_MintVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	for _, class := range []TokenClass{ClassAccess, ClassRefresh} {
		token, _, err := codec.Mint("user-1", class, 15*time.Minute)
		require.NoError(t, err)

		claims, err := codec.Verify(token, class)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, string(class), claims.Class)
		assert.NotNil(t, claims.IssuedAt)
	}
}

/*
TestCodec_WrongClass verifies that presenting one class where the other is
expected fails. Because each class signs with its own secret, the failure
surfaces as a signature mismatch rather than a class-claim mismatch.
*/
func TestCodec_WrongClass(t *testing.T) {
	codec := newTestCodec(t)

	refreshToken, _, err := codec.Mint("user-1", ClassRefresh, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(refreshToken, ClassAccess)
	assert.ErrorIs(t, err, ErrBadSignature)
}

/*
TestCodec_WrongClassSameSecretClaim exercises the class-claim check directly:
a token whose claim says "refresh" but which is signed with the access secret
must fail with ErrWrongClass, not pass as an access token.
*/
func TestCodec_WrongClassSameSecretClaim(t *testing.T) {
	codec := newTestCodec(t)

	// Forge the scenario by minting with a codec whose refresh secret equals
	// the real codec's access secret.
	crossed := &Codec{
		accessSecret:  codec.accessSecret,
		refreshSecret: codec.accessSecret,
		issuer:        codec.issuer,
		now:           time.Now,
	}
	token, _, err := crossed.Mint("user-1", ClassRefresh, time.Hour)
	require.NoError(t, err)

	_, err = codec.Verify(token, ClassAccess)
	assert.ErrorIs(t, err, ErrWrongClass)
}

/*
TestCodec_ExpiryBoundary pins the expiry semantics: a token expiring at T is
accepted at T-1s and rejected at exactly T.
*/
func TestCodec_ExpiryBoundary(t *testing.T) {
	codec := newTestCodec(t)

	mintedAt := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	expiry := mintedAt.Add(15 * time.Minute)

	codec.now = func() time.Time { return mintedAt }
	token, _, err := codec.Mint("user-1", ClassAccess, 15*time.Minute)
	require.NoError(t, err)

	// 1. One second before expiry: accepted.
	codec.now = func() time.Time { return expiry.Add(-time.Second) }
	_, err = codec.Verify(token, ClassAccess)
	assert.NoError(t, err)

	// 2. Exactly at expiry: rejected.
	codec.now = func() time.Time { return expiry }
	_, err = codec.Verify(token, ClassAccess)
	assert.ErrorIs(t, err, ErrExpired)

	// 3. After expiry: rejected.
	codec.now = func() time.Time { return expiry.Add(time.Second) }
	_, err = codec.Verify(token, ClassAccess)
	assert.ErrorIs(t, err, ErrExpired)
}

/*
TestCodec_TamperedToken verifies that modifying any part of the compact form
invalidates the token.
*/
func TestCodec_TamperedToken(t *testing.T) {
	codec := newTestCodec(t)

	token, _, err := codec.Mint("user-1", ClassAccess, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"truncated", token[:len(token)/2]},
		{"flipped_signature", token[:len(token)-2] + "zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token, ClassAccess)
			assert.Error(t, err)
		})
	}
}

/*
TestCodec_FingerprintStability verifies that fingerprints are deterministic
per token and distinct across tokens.
*/
func TestCodec_FingerprintStability(t *testing.T) {
	codec := newTestCodec(t)

	first, _, err := codec.Mint("user-1", ClassRefresh, time.Hour)
	require.NoError(t, err)

	second, _, err := codec.Mint("user-1", ClassRefresh, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(first), Fingerprint(first))
	assert.NotEqual(t, Fingerprint(first), Fingerprint(second))
	assert.Len(t, Fingerprint(first), 64) // hex sha-256
}

/*
TestCodec_MintDistinctPerCall pins the rotation-id guarantee: two tokens
minted for the same subject and class at the exact same instant are distinct
credentials with distinct fingerprints and distinct jti claims.
*/
func TestCodec_MintDistinctPerCall(t *testing.T) {
	codec := newTestCodec(t)

	frozen := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	codec.now = func() time.Time { return frozen }

	first, _, err := codec.Mint("user-1", ClassRefresh, time.Hour)
	require.NoError(t, err)
	second, _, err := codec.Mint("user-1", ClassRefresh, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, Fingerprint(first), Fingerprint(second))

	firstClaims, err := codec.Verify(first, ClassRefresh)
	require.NoError(t, err)
	secondClaims, err := codec.Verify(second, ClassRefresh)
	require.NoError(t, err)
	assert.NotEmpty(t, firstClaims.ID)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

/*
TestCodec_MintReturnsStampedExpiry verifies the expiry returned by Mint is the
exact instant written into the exp claim, so cookie lifetimes computed from it
never drift from the token.
*/
func TestCodec_MintReturnsStampedExpiry(t *testing.T) {
	codec := newTestCodec(t)

	mintedAt := time.Date(2026, 1, 2, 15, 4, 5, 750000000, time.UTC)
	codec.now = func() time.Time { return mintedAt }

	token, expiresAt, err := codec.Mint("user-1", ClassAccess, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, expiresAt.Equal(mintedAt.Add(15*time.Minute)))

	claims, err := codec.Verify(token, ClassAccess)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(expiresAt.Truncate(time.Second)))
}

/*
TestNewCodec_RejectsWeakConfiguration checks constructor guardrails.
*/
func TestNewCodec_RejectsWeakConfiguration(t *testing.T) {
	long := strings.Repeat("a", 40)

	_, err := NewCodec([]byte("short"), []byte(long), "vidora.app")
	assert.Error(t, err)

	_, err = NewCodec([]byte(long), []byte(long), "vidora.app")
	assert.Error(t, err)
}
