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

package app

import (
	"errors"
	"time"

	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/log"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

// SessionMeta carries client metadata recorded in the login history
type SessionMeta struct {
	UserAgent string
	IP        string
}

// SignInResult is the outcome of a successful sign-in
type SignInResult struct {
	Token string
	// PrevLastLoginAt is the last login timestamp from before this
	// sign-in, for "last seen" display. Nil on the first ever login.
	PrevLastLoginAt *time.Time
}

// SignIn signs in a user: it records the login in the login history,
// updates the last login timestamp, and issues a credential token.
func (a *App) SignIn(user *database.User, meta SessionMeta) (SignInResult, error) {
	prevLastLoginAt := user.LastLoginAt

	if err := a.TouchLastLoginAt(*user, a.DB); err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	session := database.Session{
		UserID:    user.ID,
		LoginAt:   a.Clock.Now(),
		UserAgent: meta.UserAgent,
		IP:        meta.IP,
	}
	if err := a.DB.Create(&session).Error; err != nil {
		return SignInResult{}, pkgErrors.Wrap(err, "creating session")
	}

	tok, err := a.Tokens.Create(user.ID, a.Clock.Now())
	if err != nil {
		return SignInResult{}, pkgErrors.Wrap(err, "issuing token")
	}

	return SignInResult{Token: tok, PrevLastLoginAt: prevLastLoginAt}, nil
}

// SignOut closes the most recent open session of the given user by
// filling its logout timestamp. It is idempotent: without an open
// session it is a no-op reporting success.
func (a *App) SignOut(userID int) error {
	var session database.Session
	err := a.DB.
		Where("user_id = ? AND logout_at IS NULL", userID).
		Order("login_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	} else if err != nil {
		return pkgErrors.Wrap(err, "finding open session")
	}

	now := a.Clock.Now()
	if err := a.DB.Model(&session).Update("logout_at", &now).Error; err != nil {
		return pkgErrors.Wrap(err, "closing session")
	}

	return nil
}
