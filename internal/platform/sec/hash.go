// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// Fingerprint derives the one-way server-side identifier of a signed token.
//
// Only the fingerprint of a refresh token is ever persisted, so a storage
// compromise alone cannot reconstruct a usable credential (the signing secret
// is still required to mint a token that hashes to the stored value).
func Fingerprint(signedToken string) string {
	sum := sha256.Sum256([]byte(signedToken))
	return hex.EncodeToString(sum[:])
}
