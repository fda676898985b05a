// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenCodec] interface.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/vidora/pkg/uuid"
)

// # Token Classes

// TokenClass distinguishes the two credential types minted by the platform.
//
// Access and refresh tokens are signed with distinct secrets so that
// compromise of one class can never forge the other.
type TokenClass string

const (
	// ClassAccess is the short-lived credential attached to every API request.
	ClassAccess TokenClass = "access"

	// ClassRefresh is the long-lived credential used solely to mint new pairs.
	ClassRefresh TokenClass = "refresh"
)

// # Verification Failures

// Codec verification errors. The HTTP boundary must never forward these
// distinctions to clients; they exist for logging and tests only.
var (
	// ErrMalformed means the token string could not be parsed at all.
	ErrMalformed = errors.New("sec: malformed token")

	// ErrBadSignature means the signature does not match the class secret.
	ErrBadSignature = errors.New("sec: bad token signature")

	// ErrExpired means the token is structurally valid but past its expiry.
	ErrExpired = errors.New("sec: token expired")

	// ErrWrongClass means an access token was presented where a refresh token
	// was expected, or vice versa.
	ErrWrongClass = errors.New("sec: wrong token class")
)

// minSecretLen is the minimum byte length accepted for a signing secret.
const minSecretLen = 32

// Claims represents the payload embedded inside a signed Vidora token.
//
// # Why custom claims?
//
// By embedding the UserID and token class directly in the token, the
// verification path can decide class validity WITHOUT any storage round trip.
type Claims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the payload small.
	UserID string `json:"uid"`
	Class  string `json:"cls"`
}

// Codec mints and verifies signed, expiring tokens using HMAC-SHA256.
//
// # Purity
//
// Mint and Verify are pure functions of their input, the two static secrets,
// and the injected clock. The codec holds no mutable state and is safe for
// concurrent use.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	now           func() time.Time
}

// NewCodec creates a Codec from the two class-specific signing secrets.
func NewCodec(accessSecret, refreshSecret []byte, issuer string) (*Codec, error) {
	if len(accessSecret) < minSecretLen || len(refreshSecret) < minSecretLen {
		return nil, fmt.Errorf("sec: signing secrets must be at least %d bytes", minSecretLen)
	}
	if string(accessSecret) == string(refreshSecret) {
		return nil, errors.New("sec: access and refresh secrets must differ")
	}

	return &Codec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		issuer:        issuer,
		now:           time.Now,
	}, nil
}

/*
Mint produces a signed token string for the given subject and class.

Description: Every minted token carries a unique rotation id in the jti claim,
so two tokens minted for the same subject in the same instant are still
distinct credentials with distinct fingerprints. The stamped expiry is
returned alongside the token so callers computing cookie lifetimes never
disagree with the claim.

Parameters:
  - subject: The user ID the credential is bound to.
  - class: ClassAccess or ClassRefresh (selects the signing secret).
  - timeToLive: Duration until the token expires.

Returns:
  - A signed compact token string.
  - The exact instant written into the exp claim.
  - An error if signing fails.
*/
func (codec *Codec) Mint(subject string, class TokenClass, timeToLive time.Duration) (string, time.Time, error) {
	secret, err := codec.secretFor(class)
	if err != nil {
		return "", time.Time{}, err
	}

	currentTime := codec.now()
	expiresAt := currentTime.Add(timeToLive)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   subject,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: subject,
		Class:  string(class),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

/*
Verify checks the signature, expiry, and class of a token string.

Description: Signature verification uses the secret of the EXPECTED class, so
a refresh token presented as an access token fails the signature check before
its class claim is ever consulted.

Parameters:
  - tokenString: The compact signed token.
  - expectedClass: The class this call site requires.

Returns:
  - *Claims: The verified payload (subject, issued-at).
  - error: ErrMalformed, ErrBadSignature, ErrExpired, or ErrWrongClass.
*/
func (codec *Codec) Verify(tokenString string, expectedClass TokenClass) (*Claims, error) {
	secret, err := codec.secretFor(expectedClass)
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		// Expiry is validated below against the injected clock so that the
		// boundary instant (now == exp) is rejected deterministically.
		jwt.WithoutClaimsValidation(),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformed
		}
	}

	if !token.Valid {
		return nil, ErrBadSignature
	}

	// A token without an expiry or subject was never minted by this codec.
	if claims.ExpiresAt == nil || claims.Subject == "" {
		return nil, ErrMalformed
	}

	// Valid strictly before exp; rejected at and after exp.
	if !codec.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrExpired
	}

	if claims.Class != string(expectedClass) {
		return nil, ErrWrongClass
	}

	return claims, nil
}

// secretFor selects the signing secret for a token class.
func (codec *Codec) secretFor(class TokenClass) ([]byte, error) {
	switch class {
	case ClassAccess:
		return codec.accessSecret, nil
	case ClassRefresh:
		return codec.refreshSecret, nil
	default:
		return nil, fmt.Errorf("sec: unknown token class %q", class)
	}
}
