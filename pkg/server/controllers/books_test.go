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
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leaflog/leaflog/pkg/assert"
	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/storage"
	"github.com/leaflog/leaflog/pkg/server/testutils"
	"github.com/pkg/errors"
)

func mustCreateBook(t *testing.T, a *app.App, user database.User, p app.BookParams) database.Book {
	t.Helper()

	book, err := a.CreateBook(user, p)
	if err != nil {
		t.Fatal(errors.Wrap(err, "preparing book"))
	}

	return book
}

func TestGetBooks(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})
		mustCreateBook(t, a, user, app.BookParams{Title: "Ubik", Description: "Reality decays"})

		// execute
		req := testutils.MakeReq(server.URL, "GET", "/api/books", "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload []struct {
			Title string `json:"title"`
		}
		mustDecodeJSON(t, res, &payload)

		assert.Equal(t, len(payload), 2, "result count mismatch")
		assert.Equal(t, payload[0].Title, "Solaris", "first title mismatch")
		assert.Equal(t, payload[1].Title, "Ubik", "second title mismatch")
	})

	t.Run("search", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})
		mustCreateBook(t, a, user, app.BookParams{Title: "Ubik", Description: "Reality decays"})

		// execute
		req := testutils.MakeReq(server.URL, "GET", "/api/books?search=ubik", "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload []struct {
			Title string `json:"title"`
		}
		mustDecodeJSON(t, res, &payload)

		assert.Equal(t, len(payload), 1, "result count mismatch")
		assert.Equal(t, payload[0].Title, "Ubik", "title mismatch")
	})

	t.Run("guest", func(t *testing.T) {
		server, _, _ := setupServer(t)

		// execute
		req := testutils.MakeReq(server.URL, "GET", "/api/books", "")
		res := testutils.HTTPDo(t, req)

		// test
		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})
}

func TestGetBook(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeReq(server.URL, "GET", getBookPath(book.ID), "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload struct {
			Book struct {
				Title string `json:"title"`
			} `json:"book"`
			UserBook struct {
				ReadingStatus string `json:"reading_status"`
			} `json:"user_book"`
			CanModify bool `json:"can_modify"`
		}
		mustDecodeJSON(t, res, &payload)

		assert.Equal(t, payload.Book.Title, "Solaris", "title mismatch")
		assert.Equal(t, payload.UserBook.ReadingStatus, database.ReadingStatusNotStarted, "reading status mismatch")
		assert.Equal(t, payload.CanModify, true, "can modify mismatch")
	})

	t.Run("reader's own state", func(t *testing.T) {
		server, db, a := setupServer(t)
		owner := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		reader := testutils.SetupUserData(db, "bob", "bob@example.com", "pass1234")
		book := mustCreateBook(t, a, owner, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		status := database.ReadingStatusInProgress
		progress := 40
		if _, err := a.SetBookStatus(reader, book.ID, app.UserBookParams{ReadingStatus: &status, ReadingProgress: &progress}); err != nil {
			t.Fatal(errors.Wrap(err, "preparing reading state"))
		}

		// execute
		req := testutils.MakeReq(server.URL, "GET", getBookPath(book.ID), "")
		res := testutils.HTTPAuthDo(t, req, reader)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload struct {
			UserBook struct {
				ReadingStatus   string `json:"reading_status"`
				ReadingProgress int    `json:"reading_progress"`
			} `json:"user_book"`
			CanModify bool `json:"can_modify"`
		}
		mustDecodeJSON(t, res, &payload)

		assert.Equal(t, payload.UserBook.ReadingStatus, database.ReadingStatusInProgress, "reading status mismatch")
		assert.Equal(t, payload.UserBook.ReadingProgress, 40, "reading progress mismatch")
		assert.Equal(t, payload.CanModify, false, "can modify mismatch")
	})

	t.Run("nonexistent book", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeReq(server.URL, "GET", getBookPath(999), "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")
	})

	t.Run("non-numeric id", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeReq(server.URL, "GET", "/api/books/abc", "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")

		var payload struct {
			Error string `json:"error"`
		}
		mustDecodeJSON(t, res, &payload)
		assert.Equal(t, payload.Error, "Invalid id in the URL", "error message mismatch")
	})
}

func TestCreateBook(t *testing.T) {
	testutils.RunForFormAndJSON(t, "with associations", func(t *testing.T, encoding testutils.BodyEncoding) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		author, err := a.CreateAuthor(user, app.AuthorParams{Name: "Stanislaw Lem"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "preparing author"))
		}
		genre, err := a.CreateGenre(user, "Science Fiction")
		if err != nil {
			t.Fatal(errors.Wrap(err, "preparing genre"))
		}

		// execute
		var req *http.Request
		if encoding == testutils.EncodingJSON {
			data := fmt.Sprintf(`{"title": "Solaris", "description": "An ocean planet", "author_ids": [%d], "genre_ids": [%d]}`, author.ID, genre.ID)
			req = testutils.MakeJSONReq(server.URL, "POST", "/api/books", data)
		} else {
			// form submissions carry the association sets as JSON-encoded strings
			req = testutils.MakeFormReq(server.URL, "POST", "/api/books", url.Values{
				"title":       {"Solaris"},
				"description": {"An ocean planet"},
				"author_ids":  {fmt.Sprintf("[%d]", author.ID)},
				"genre_ids":   {fmt.Sprintf("[%d]", genre.ID)},
			})
		}
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

		var payload struct {
			ID      int `json:"id"`
			Authors []struct {
				Name string `json:"name"`
			} `json:"authors"`
			Genres []struct {
				Name string `json:"name"`
			} `json:"genres"`
		}
		mustDecodeJSON(t, res, &payload)

		assert.Equal(t, len(payload.Authors), 1, "author count mismatch")
		assert.Equal(t, payload.Authors[0].Name, "Stanislaw Lem", "author name mismatch")
		assert.Equal(t, len(payload.Genres), 1, "genre count mismatch")
		assert.Equal(t, payload.Genres[0].Name, "Science Fiction", "genre name mismatch")

		var bookRecord database.Book
		testutils.MustExec(t, db.First(&bookRecord), "finding book")
		assert.Equal(t, bookRecord.CreatedBy, user.ID, "created by mismatch")
	})

	t.Run("malformed association string", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeFormReq(server.URL, "POST", "/api/books", url.Values{
			"title":       {"Solaris"},
			"description": {"An ocean planet"},
			"author_ids":  {"not json"},
		})
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		// the book is created; the unparseable association set is ignored
		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

		var bookCount int64
		testutils.MustExec(t, db.Model(&database.Book{}).Count(&bookCount), "counting books")
		assert.Equal(t, bookCount, int64(1), "book count mismatch")
	})

	t.Run("missing title", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", "/api/books", `{"description": "An ocean planet"}`)
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")

		var bookCount int64
		testutils.MustExec(t, db.Model(&database.Book{}).Count(&bookCount), "counting books")
		assert.Equal(t, bookCount, int64(0), "book count mismatch")
	})
}

func TestUpdateBook(t *testing.T) {
	t.Run("as owner", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeJSONReq(server.URL, "PUT", getBookPath(book.ID), `{"title": "Solaris (revised)"}`)
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var bookRecord database.Book
		testutils.MustExec(t, db.First(&bookRecord), "finding book")
		assert.Equal(t, bookRecord.Title, "Solaris (revised)", "title mismatch")
		assert.Equal(t, bookRecord.Description, "An ocean planet", "description mismatch")
	})

	t.Run("as another user", func(t *testing.T) {
		server, db, a := setupServer(t)
		owner := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		other := testutils.SetupUserData(db, "bob", "bob@example.com", "pass1234")
		book := mustCreateBook(t, a, owner, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeJSONReq(server.URL, "PUT", getBookPath(book.ID), `{"title": "Hijacked"}`)
		res := testutils.HTTPAuthDo(t, req, other)

		// test
		assert.StatusCodeEquals(t, res, http.StatusForbidden, "status code mismatch")

		var bookRecord database.Book
		testutils.MustExec(t, db.First(&bookRecord), "finding book")
		assert.Equal(t, bookRecord.Title, "Solaris", "title mismatch")
	})

	t.Run("as admin", func(t *testing.T) {
		server, db, a := setupServer(t)
		owner := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		admin := testutils.SetupAdminData(db, "root", "root@example.com", "pass1234")
		book := mustCreateBook(t, a, owner, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeJSONReq(server.URL, "PUT", getBookPath(book.ID), `{"title": "Solaris (revised)"}`)
		res := testutils.HTTPAuthDo(t, req, admin)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")
	})
}

func TestDeleteBook(t *testing.T) {
	t.Run("as owner", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		if _, err := a.AddReview(user, book.ID, "A classic"); err != nil {
			t.Fatal(errors.Wrap(err, "preparing review"))
		}

		// execute
		req := testutils.MakeReq(server.URL, "DELETE", getBookPath(book.ID), "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNoContent, "status code mismatch")

		var bookCount, reviewCount int64
		testutils.MustExec(t, db.Model(&database.Book{}).Count(&bookCount), "counting books")
		testutils.MustExec(t, db.Model(&database.Review{}).Count(&reviewCount), "counting reviews")
		assert.Equal(t, bookCount, int64(0), "book count mismatch")
		assert.Equal(t, reviewCount, int64(0), "review count mismatch")
	})

	t.Run("as another user", func(t *testing.T) {
		server, db, a := setupServer(t)
		owner := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		other := testutils.SetupUserData(db, "bob", "bob@example.com", "pass1234")
		book := mustCreateBook(t, a, owner, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeReq(server.URL, "DELETE", getBookPath(book.ID), "")
		res := testutils.HTTPAuthDo(t, req, other)

		// test
		assert.StatusCodeEquals(t, res, http.StatusForbidden, "status code mismatch")

		var bookCount int64
		testutils.MustExec(t, db.Model(&database.Book{}).Count(&bookCount), "counting books")
		assert.Equal(t, bookCount, int64(1), "book count mismatch")
	})
}

func TestFavoriteBooks(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		other := testutils.SetupUserData(db, "bob", "bob@example.com", "pass1234")
		wishlisted := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})
		plain := mustCreateBook(t, a, user, app.BookParams{Title: "Ubik", Description: "Reality decays"})

		if _, err := a.SetBookStatus(user, wishlisted.ID, app.UserBookParams{IsWishlisted: &testutils.TrueVal}); err != nil {
			t.Fatal(errors.Wrap(err, "preparing wishlist"))
		}
		if _, err := a.SetBookStatus(other, plain.ID, app.UserBookParams{IsWishlisted: &testutils.TrueVal}); err != nil {
			t.Fatal(errors.Wrap(err, "preparing other user's wishlist"))
		}

		// execute
		req := testutils.MakeReq(server.URL, "GET", "/api/books/favorites", "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload []struct {
			Title string `json:"title"`
		}
		mustDecodeJSON(t, res, &payload)

		assert.Equal(t, len(payload), 1, "result count mismatch")
		assert.Equal(t, payload[0].Title, "Solaris", "title mismatch")
	})
}

func TestSetBookStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", getBookPath(book.ID)+"/status",
			`{"reading_status": "in_progress", "reading_progress": 25}`)
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload struct {
			ReadingStatus   string `json:"reading_status"`
			ReadingProgress int    `json:"reading_progress"`
		}
		mustDecodeJSON(t, res, &payload)
		assert.Equal(t, payload.ReadingStatus, database.ReadingStatusInProgress, "reading status mismatch")
		assert.Equal(t, payload.ReadingProgress, 25, "reading progress mismatch")

		var rowCount int64
		testutils.MustExec(t, db.Model(&database.UserBook{}).Count(&rowCount), "counting user books")
		assert.Equal(t, rowCount, int64(1), "user book count mismatch")
	})

	t.Run("invalid status", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", getBookPath(book.ID)+"/status",
			`{"reading_status": "abandoned"}`)
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")
	})

	t.Run("nonexistent book", func(t *testing.T) {
		server, db, _ := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", getBookPath(999)+"/status",
			`{"reading_status": "in_progress"}`)
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")
	})
}

func TestAddReview(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", getBookPath(book.ID)+"/reviews", `{"content": "A classic"}`)
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

		var payload struct {
			Content string `json:"content"`
			User    struct {
				Username string `json:"username"`
			} `json:"user"`
		}
		mustDecodeJSON(t, res, &payload)
		assert.Equal(t, payload.Content, "A classic", "content mismatch")
		assert.Equal(t, payload.User.Username, "alice", "username mismatch")
	})

	t.Run("empty content", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})

		// execute
		req := testutils.MakeJSONReq(server.URL, "POST", getBookPath(book.ID)+"/reviews", `{}`)
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")
	})
}

func TestDeleteReview(t *testing.T) {
	t.Run("as author via book path", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})
		review, err := a.AddReview(user, book.ID, "A classic")
		if err != nil {
			t.Fatal(errors.Wrap(err, "preparing review"))
		}

		// execute
		path := fmt.Sprintf("%s/reviews/%d", getBookPath(book.ID), review.ID)
		req := testutils.MakeReq(server.URL, "DELETE", path, "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNoContent, "status code mismatch")

		var reviewCount int64
		testutils.MustExec(t, db.Model(&database.Review{}).Count(&reviewCount), "counting reviews")
		assert.Equal(t, reviewCount, int64(0), "review count mismatch")
	})

	t.Run("mismatched book", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})
		otherBook := mustCreateBook(t, a, user, app.BookParams{Title: "Ubik", Description: "Reality decays"})
		review, err := a.AddReview(user, book.ID, "A classic")
		if err != nil {
			t.Fatal(errors.Wrap(err, "preparing review"))
		}

		// execute
		path := fmt.Sprintf("%s/reviews/%d", getBookPath(otherBook.ID), review.ID)
		req := testutils.MakeReq(server.URL, "DELETE", path, "")
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")

		var reviewCount int64
		testutils.MustExec(t, db.Model(&database.Review{}).Count(&reviewCount), "counting reviews")
		assert.Equal(t, reviewCount, int64(1), "review count mismatch")
	})

	t.Run("as admin via canonical path", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		admin := testutils.SetupAdminData(db, "root", "root@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})
		review, err := a.AddReview(user, book.ID, "A classic")
		if err != nil {
			t.Fatal(errors.Wrap(err, "preparing review"))
		}

		// execute
		req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/reviews/%d", review.ID), "")
		res := testutils.HTTPAuthDo(t, req, admin)

		// test
		assert.StatusCodeEquals(t, res, http.StatusNoContent, "status code mismatch")

		var reviewCount int64
		testutils.MustExec(t, db.Model(&database.Review{}).Count(&reviewCount), "counting reviews")
		assert.Equal(t, reviewCount, int64(0), "review count mismatch")
	})

	t.Run("as another user", func(t *testing.T) {
		server, db, a := setupServer(t)
		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")
		other := testutils.SetupUserData(db, "bob", "bob@example.com", "pass1234")
		book := mustCreateBook(t, a, user, app.BookParams{Title: "Solaris", Description: "An ocean planet"})
		review, err := a.AddReview(user, book.ID, "A classic")
		if err != nil {
			t.Fatal(errors.Wrap(err, "preparing review"))
		}

		// execute
		req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/reviews/%d", review.ID), "")
		res := testutils.HTTPAuthDo(t, req, other)

		// test
		assert.StatusCodeEquals(t, res, http.StatusForbidden, "status code mismatch")

		var reviewCount int64
		testutils.MustExec(t, db.Model(&database.Review{}).Count(&reviewCount), "counting reviews")
		assert.Equal(t, reviewCount, int64(1), "review count mismatch")
	})
}

func TestUploadCover(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		files, err := storage.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatal(errors.Wrap(err, "preparing file store"))
		}

		a := app.NewTest()
		a.DB = db
		a.Files = files

		server := MustNewServer(t, &a)
		defer server.Close()

		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("coverImage", "cover.png")
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating form file"))
		}
		if _, err := part.Write([]byte("fake image bytes")); err != nil {
			t.Fatal(errors.Wrap(err, "writing form file"))
		}
		if err := writer.Close(); err != nil {
			t.Fatal(errors.Wrap(err, "closing writer"))
		}

		// execute
		req, err := http.NewRequest("POST", server.URL+"/api/books/upload-cover", &body)
		if err != nil {
			t.Fatal(errors.Wrap(err, "constructing request"))
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var payload struct {
			ImageURL string `json:"imageUrl"`
		}
		mustDecodeJSON(t, res, &payload)

		if !strings.HasPrefix(payload.ImageURL, "/uploads/") {
			t.Errorf("image url %s should be under /uploads/", payload.ImageURL)
		}

		storedName := strings.TrimPrefix(payload.ImageURL, "/uploads/")
		storedBytes, err := os.ReadFile(filepath.Join(files.BasePath(), storedName))
		if err != nil {
			t.Fatal(errors.Wrap(err, "reading stored file"))
		}
		assert.Equal(t, string(storedBytes), "fake image bytes", "stored content mismatch")

		// the stored file is served back
		fileReq := testutils.MakeReq(server.URL, "GET", payload.ImageURL, "")
		fileRes := testutils.HTTPDo(t, fileReq)
		assert.StatusCodeEquals(t, fileRes, http.StatusOK, "file status code mismatch")
	})

	t.Run("missing file", func(t *testing.T) {
		db := testutils.InitMemoryDB(t)

		files, err := storage.NewFileStore(t.TempDir())
		if err != nil {
			t.Fatal(errors.Wrap(err, "preparing file store"))
		}

		a := app.NewTest()
		a.DB = db
		a.Files = files

		server := MustNewServer(t, &a)
		defer server.Close()

		user := testutils.SetupUserData(db, "alice", "alice@example.com", "pass1234")

		// execute
		req := testutils.MakeFormReq(server.URL, "POST", "/api/books/upload-cover", url.Values{})
		res := testutils.HTTPAuthDo(t, req, user)

		// test
		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")
	})
}
