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

package middleware

import (
	"errors"
	"net/http"

	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/context"
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/permissions"
	"github.com/leaflog/leaflog/pkg/server/token"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// AuthWithToken resolves the request's bearer token to a user
func AuthWithToken(a *app.App, r *http.Request) (database.User, bool, error) {
	var user database.User

	tokenValue, err := GetCredential(r)
	if err != nil {
		return user, false, pkgErrors.Wrap(err, "getting credential")
	}
	if tokenValue == "" {
		return user, false, nil
	}

	userID, err := a.Tokens.Verify(tokenValue)
	if errors.Is(err, token.ErrInvalid) {
		return user, false, nil
	} else if err != nil {
		return user, false, pkgErrors.Wrap(err, "verifying token")
	}

	err = a.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, false, nil
	} else if err != nil {
		return user, false, pkgErrors.Wrap(err, "finding user from token")
	}

	return user, true, nil
}

// Auth is an authentication middleware
func Auth(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok, err := AuthWithToken(a, r)
		if err != nil {
			DoError(w, "authenticating with token", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly is an authentication middleware that also requires the
// resolved user to have the admin role
func AdminOnly(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return Auth(a, func(w http.ResponseWriter, r *http.Request) {
		user := context.User(r.Context())
		if !permissions.IsAdmin(user) {
			RespondForbidden(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
