/* Copyright 2025 Leaflog Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package token issues and verifies credential tokens that bind a
// bearer credential to a user identifier
package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Lifetime is how long an issued credential stays valid
const Lifetime = 24 * time.Hour

var (
	// ErrInvalid is an error for a token that is malformed, has a bad
	// signature, or has expired
	ErrInvalid = errors.New("invalid token")
)

// Issuer creates and verifies signed credential tokens
type Issuer struct {
	secret []byte
}

// NewIssuer creates an Issuer with the given signing secret
func NewIssuer(secret string) Issuer {
	return Issuer{secret: []byte(secret)}
}

// Configured checks if the issuer has a signing secret
func (i Issuer) Configured() bool {
	return len(i.secret) > 0
}

// Create issues a signed token for the user of the given id, expiring
// after Lifetime from now
func (i Issuer) Create(userID int, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	return signed, nil
}

// Verify validates the given token string and returns the user id it
// is bound to. Expired or tampered tokens result in ErrInvalid.
func (i Issuer) Verify(value string) (int, error) {
	t, err := jwt.ParseWithClaims(value, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
		}

		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return 0, ErrInvalid
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalid
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, ErrInvalid
	}

	return userID, nil
}
