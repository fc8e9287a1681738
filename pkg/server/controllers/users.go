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

package controllers

import (
	"net/http"
	"time"

	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/context"
	mw "github.com/leaflog/leaflog/pkg/server/middleware"
	"github.com/leaflog/leaflog/pkg/server/operations"
	"github.com/leaflog/leaflog/pkg/server/presenters"
)

// NewUsers creates a new Users controller
func NewUsers(app *app.App) *Users {
	return &Users{
		app: app,
	}
}

// Users is a user controller
type Users struct {
	app *app.App
}

// RegistrationForm is the form data for registering
type RegistrationForm struct {
	Username  string `schema:"username" json:"username"`
	Email     string `schema:"email" json:"email"`
	Password  string `schema:"password" json:"password"`
	IsAdmin   bool   `schema:"is_admin" json:"is_admin"`
	AdminCode string `schema:"admin_code" json:"admin_code"`
}

// sessionResponse is the payload for a successful registration or login
type sessionResponse struct {
	Token string          `json:"token"`
	User  presenters.User `json:"user"`
	// LastLoginAt is the login timestamp from before this sign-in
	LastLoginAt *time.Time `json:"last_login_at"`
}

// Register handles POST /api/auth/register
func (u *Users) Register(w http.ResponseWriter, r *http.Request) {
	var form RegistrationForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.CreateUser(app.CreateUserParams{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		Admin:     form.IsAdmin,
		AdminCode: form.AdminCode,
	})
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	// Registering is not a login. The token is issued directly so that
	// the login history and last-login timestamp stay untouched until
	// the user actually signs in.
	tok, err := u.app.Tokens.Create(user.ID, u.app.Clock.Now())
	if err != nil {
		handleJSONError(w, err, "issuing token")
		return
	}

	respondJSON(w, http.StatusCreated, sessionResponse{
		Token:       tok,
		User:        presenters.PresentUser(user),
		LastLoginAt: nil,
	})
}

// LoginForm is the form data for logging in
type LoginForm struct {
	Email    string `schema:"email" json:"email"`
	Password string `schema:"password" json:"password"`
}

// Login handles POST /api/auth/login
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, err := u.app.Authenticate(form.Email, form.Password)
	if err != nil {
		handleJSONError(w, err, "authenticating user")
		return
	}

	result, err := u.app.SignIn(user, sessionMeta(r))
	if err != nil {
		handleJSONError(w, err, "signing in user")
		return
	}

	respondJSON(w, http.StatusOK, sessionResponse{
		Token:       result.Token,
		User:        presenters.PresentUser(*user),
		LastLoginAt: result.PrevLastLoginAt,
	})
}

// Logout handles POST /api/auth/logout. Logging out without an open
// session succeeds.
func (u *Users) Logout(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	if err := u.app.SignOut(user.ID); err != nil {
		handleJSONError(w, err, "signing out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Index handles GET /api/users
func (u *Users) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	users, err := u.app.ListUsers(query.Get("search"))
	if err != nil {
		handleJSONError(w, err, "listing users")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUsers(users))
}

// Delete handles DELETE /api/users/{userID}
func (u *Users) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		handleJSONError(w, err, "parsing userID")
		return
	}

	user, err := u.app.GetUser(userID)
	if err != nil {
		handleJSONError(w, err, "finding user")
		return
	}

	if err := u.app.RemoveUser(user); err != nil {
		handleJSONError(w, err, "removing user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reviews handles GET /api/users/{userID}/reviews
func (u *Users) Reviews(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		handleJSONError(w, err, "parsing userID")
		return
	}

	if _, err := u.app.GetUser(userID); err != nil {
		handleJSONError(w, err, "finding user")
		return
	}

	reviews, err := u.app.ListUserReviews(userID)
	if err != nil {
		handleJSONError(w, err, "listing reviews")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentReviews(reviews))
}

// DeleteReview handles DELETE /api/reviews/{reviewID}
func (u *Users) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	reviewID, err := parseIDParam(r, "reviewID")
	if err != nil {
		handleJSONError(w, err, "parsing reviewID")
		return
	}

	review, ok, err := operations.GetReview(u.app.DB, reviewID)
	if err != nil {
		handleJSONError(w, err, "finding review")
		return
	}
	if !ok {
		handleJSONError(w, app.ErrReviewNotFound, "finding review")
		return
	}

	if err := u.app.DeleteReview(*user, review); err != nil {
		handleJSONError(w, err, "deleting review")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sessionMeta captures the client metadata recorded in the login
// history. The rate limiter's notion of the client IP is reused so the
// two agree behind a proxy.
func sessionMeta(r *http.Request) app.SessionMeta {
	return app.SessionMeta{
		UserAgent: r.UserAgent(),
		IP:        mw.LookupIP(r),
	}
}
