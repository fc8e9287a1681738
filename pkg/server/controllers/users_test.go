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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/leaflog/leaflog/pkg/assert"
	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/testutils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func setupServer(t *testing.T) (*httptest.Server, *gorm.DB, *app.App) {
	db := testutils.InitMemoryDB(t)

	a := app.NewTest()
	a.DB = db

	server := MustNewServer(t, &a)
	t.Cleanup(server.Close)

	return server, db, &a
}

func mustDecodeJSON(t *testing.T, res *http.Response, dst interface{}) {
	t.Helper()

	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatal(errors.Wrap(err, "decoding payload"))
	}
}

func TestRegister(t *testing.T) {
	testutils.RunForFormAndJSON(t, "success", func(t *testing.T, encoding testutils.BodyEncoding) {
		server, db, _ := setupServer(t)

		// execute
		var req *http.Request
		if encoding == testutils.EncodingJSON {
			req = testutils.MakeJSONReq(server.URL, "POST", "/api/auth/register",
				`{"username": "alice", "email": "alice@example.com", "password": "pass1234"}`)
		} else {
			req = testutils.MakeFormReq(server.URL, "POST", "/api/auth/register", url.Values{
				"username": {"alice"},
				"email":    {"alice@example.com"},
				"password": {"pass1234"},
			})
		}
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

		var payload struct {
			Token string `json:"token"`
			User  struct {
				Username string `json:"username"`
				Role     string `json:"role"`
			} `json:"user"`
			LastLoginAt *time.Time `json:"last_login_at"`
		}
		mustDecodeJSON(t, res, &payload)

		assert.NotEqual(t, payload.Token, "", "token should not be empty")
		assert.Equal(t, payload.User.Username, "alice", "username mismatch")
		assert.Equal(t, payload.User.Role, database.RoleUser, "role mismatch")
		if payload.LastLoginAt != nil {
			t.Errorf("last_login_at should be null for a fresh account, got %v", payload.LastLoginAt)
		}

		// registering is not a login
		var userCount, sessionCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
		assert.Equal(t, sessionCount, int64(0), "session count mismatch")

		var userRecord database.User
		testutils.MustExec(t, db.First(&userRecord), "finding user")
		if userRecord.LastLoginAt != nil {
			t.Errorf("LastLoginAt should be unset after registering, got %v", userRecord.LastLoginAt)
		}
	})

	t.Run("first login after registering reports no previous login", func(t *testing.T) {
		server, _, _ := setupServer(t)

		registerReq := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/register",
			`{"username": "alice", "email": "alice@example.com", "password": "pass1234"}`)
		registerRes := testutils.HTTPDo(t, registerReq)
		assert.StatusCodeEquals(t, registerRes, http.StatusCreated, "register status code mismatch")

		// execute
		loginReq := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/login",
			`{"email": "alice@example.com", "password": "pass1234"}`)
		loginRes := testutils.HTTPDo(t, loginReq)

		// test
		assert.StatusCodeEquals(t, loginRes, http.StatusOK, "login status code mismatch")

		var payload struct {
			LastLoginAt *time.Time `json:"last_login_at"`
		}
		mustDecodeJSON(t, loginRes, &payload)

		if payload.LastLoginAt != nil {
			t.Errorf("last_login_at should be null on the first login, got %v", payload.LastLoginAt)
		}
	})

	t.Run("admin with valid code", func(t *testing.T) {
		server, db, _ := setupServer(t)

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/register",
			`{"username": "root", "email": "root@example.com", "password": "pass1234", "is_admin": true, "admin_code": "test-admin-code"}`)
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

		var userRecord database.User
		testutils.MustExec(t, db.First(&userRecord), "finding user")
		assert.Equal(t, userRecord.Role, database.RoleAdmin, "role mismatch")
	})

	t.Run("admin with wrong code", func(t *testing.T) {
		server, db, _ := setupServer(t)

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/register",
			`{"username": "root", "email": "root@example.com", "password": "pass1234", "is_admin": true, "admin_code": "wrong"}`)
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusForbidden, "status code mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		assert.Equal(t, userCount, int64(0), "user count mismatch")
	})

	t.Run("duplicate email", func(t *testing.T) {
		server, db, _ := setupServer(t)
		testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/register",
			`{"username": "alice2", "email": "alice@example.com", "password": "pass1234"}`)
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})

	t.Run("missing password", func(t *testing.T) {
		server, _, _ := setupServer(t)

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/register",
			`{"username": "alice", "email": "alice@example.com"}`)
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")
	})

	t.Run("registration disabled", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		a := app.NewTest()
		a.DB = db
		a.DisableRegistration = true

		server := MustNewServer(t, &a)
		defer server.Close()

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/register",
			`{"username": "alice", "email": "alice@example.com", "password": "pass1234"}`)
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")
	})
}

func TestLogin(t *testing.T) {
	testutils.RunForFormAndJSON(t, "success", func(t *testing.T, encoding testutils.BodyEncoding) {
		server, db, _ := setupServer(t)
		testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		var req *http.Request
		if encoding == testutils.EncodingJSON {
			req = testutils.MakeJSONReq(server.URL, "POST", "/api/auth/login",
				`{"email": "alice@example.com", "password": "pass1234"}`)
		} else {
			req = testutils.MakeFormReq(server.URL, "POST", "/api/auth/login", url.Values{
				"email":    {"alice@example.com"},
				"password": {"pass1234"},
			})
		}
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload struct {
			Token string `json:"token"`
			User  struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		mustDecodeJSON(t, res, &payload)

		assert.NotEqual(t, payload.Token, "", "token should not be empty")
		assert.Equal(t, payload.User.Email, "alice@example.com", "email mismatch")

		var sessionRecord database.Session
		testutils.MustExec(t, db.First(&sessionRecord), "finding session")
		if sessionRecord.LogoutAt != nil {
			t.Errorf("session should be open")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		server, db, _ := setupServer(t)
		testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/login",
			`{"email": "alice@example.com", "password": "wrongpass"}`)
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")

		var sessionCount int64
		testutils.MustExec(t, db.Model(&database.Session{}).Count(&sessionCount), "counting sessions")
		assert.Equal(t, sessionCount, int64(0), "session count mismatch")
	})

	t.Run("nonexistent email", func(t *testing.T) {
		server, _, _ := setupServer(t)

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", "/api/auth/login",
			`{"email": "ghost@example.com", "password": "pass1234"}`)
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})
}

func TestLogout(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		testutils.SetupSession(db, user)

		// execute
		req := testutils.MakeReq(server.URL, "POST", "/api/auth/logout", "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNoContent, "status code mismatch")

		var sessionRecord database.Session
		testutils.MustExec(t, db.First(&sessionRecord), "finding session")
		if sessionRecord.LogoutAt == nil {
			t.Errorf("session should be closed")
		}
	})

	t.Run("no open session", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeReq(server.URL, "POST", "/api/auth/logout", "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNoContent, "status code mismatch")
	})

	t.Run("guest", func(t *testing.T) {
		server, _, _ := setupServer(t)

		// execute
		req := testutils.MakeReq(server.URL, "POST", "/api/auth/logout", "")
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})
}

func TestListUsers(t *testing.T) {
	t.Run("as admin", func(t *testing.T) {
		server, db, _ := setupServer(t)
		admin := testutils.SetupAdminData(db, "root", "root@example.com", "pass1234")
		testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeReq(server.URL, "GET", "/api/users", "")
		res := testutils.HTTPAuthDo(t, req, admin)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload []struct {
			Username string `json:"username"`
		}
		mustDecodeJSON(t, res, &payload)
		assert.Equal(t, len(payload), 2, "user count mismatch")
	})

	t.Run("as regular user", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeReq(server.URL, "GET", "/api/users", "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusForbidden, "status code mismatch")
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("as admin", func(t *testing.T) {
		server, db, _ := setupServer(t)
		admin := testutils.SetupAdminData(db, "root", "root@example.com", "pass1234")
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeReq(server.URL, "DELETE", getUserPath(user.ID), "")
		res := testutils.HTTPAuthDo(t, req, admin)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNoContent, "status code mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		assert.Equal(t, userCount, int64(1), "user count mismatch")
	})

	t.Run("as regular user", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		other := testutils.SetupUserData(db, "bob", "bob@example.com", "pass1234")

		// execute
		req := testutils.MakeReq(server.URL, "DELETE", getUserPath(other.ID), "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusForbidden, "status code mismatch")

		var userCount int64
		testutils.MustExec(t, db.Model(&database.User{}).Count(&userCount), "counting users")
		assert.Equal(t, userCount, int64(2), "user count mismatch")
	})

	t.Run("nonexistent user", func(t *testing.T) {
		server, db, _ := setupServer(t)
		admin := testutils.SetupAdminData(db, "root", "root@example.com", "pass1234")

		// execute
		req := testutils.MakeReq(server.URL, "DELETE", getUserPath(999), "")
		res := testutils.HTTPAuthDo(t, req, admin)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")
	})
}
