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
	"net/url"

	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/context"
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/helpers"
	"github.com/leaflog/leaflog/pkg/server/log"
	"github.com/leaflog/leaflog/pkg/server/permissions"
	"github.com/leaflog/leaflog/pkg/server/presenters"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// coverUploadMaxBytes caps the in-memory portion of a cover upload
const coverUploadMaxBytes = 10 << 20

// NewBooks creates a new Books controller
func NewBooks(app *app.App) *Books {
	return &Books{
		app: app,
	}
}

// Books is a book controller
type Books struct {
	app *app.App
}

// BookForm is the form data for creating or updating a book. JSON
// requests carry the association sets as arrays; form submissions carry
// them as JSON-encoded strings.
type BookForm struct {
	Title       string  `schema:"title" json:"title"`
	Description string  `schema:"description" json:"description"`
	CoverImage  string  `schema:"cover_image" json:"cover_image"`
	StoreLink   *string `schema:"store_link" json:"store_link"`
	PublishDate *string `schema:"publish_date" json:"publish_date"`
	AuthorIDs   *[]int  `schema:"-" json:"author_ids"`
	GenreIDs    *[]int  `schema:"-" json:"genre_ids"`

	RawAuthorIDs *string `schema:"author_ids" json:"-"`
	RawGenreIDs  *string `schema:"genre_ids" json:"-"`
}

// params translates the form into book parameters. A malformed
// JSON-encoded association string leaves that association set unchanged
// rather than failing the whole request.
func (f BookForm) params() app.BookParams {
	ret := app.BookParams{
		Title:       f.Title,
		Description: f.Description,
		CoverImage:  f.CoverImage,
		StoreLink:   f.StoreLink,
		PublishDate: f.PublishDate,
		AuthorIDs:   f.AuthorIDs,
		GenreIDs:    f.GenreIDs,
	}

	if ret.AuthorIDs == nil {
		ret.AuthorIDs = decodeIDList(f.RawAuthorIDs, "author_ids")
	}
	if ret.GenreIDs == nil {
		ret.GenreIDs = decodeIDList(f.RawGenreIDs, "genre_ids")
	}

	return ret
}

func decodeIDList(raw *string, field string) *[]int {
	if raw == nil {
		return nil
	}

	var ids []int
	if err := json.Unmarshal([]byte(*raw), &ids); err != nil {
		log.WithFields(log.Fields{
			"field": field,
		}).Warn("ignoring malformed id list")

		return nil
	}

	return &ids
}

// Index handles GET /api/books
func (b *Books) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	books, err := b.app.ListBooks(query.Get("search"))
	if err != nil {
		handleJSONError(w, err, "listing books")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBooks(books))
}

// Favorites handles GET /api/books/favorites
func (b *Books) Favorites(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	books, err := b.app.ListFavoriteBooks(*user)
	if err != nil {
		handleJSONError(w, err, "listing favorite books")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBooks(books))
}

// bookDetailResponse is the payload for a single book, bundled with the
// caller's reading state and permission on it
type bookDetailResponse struct {
	Book      presenters.BookDetails `json:"book"`
	UserBook  presenters.UserBook    `json:"user_book"`
	CanModify bool                   `json:"can_modify"`
}

// Show handles GET /api/books/{bookID}
func (b *Books) Show(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	bookID, err := parseIDParam(r, "bookID")
	if err != nil {
		handleJSONError(w, err, "parsing bookID")
		return
	}

	book, err := b.app.GetBookDetails(bookID)
	if err != nil {
		handleJSONError(w, err, "finding book")
		return
	}

	userBook := presenters.DefaultUserBook(book.ID)
	row, ok, err := b.app.GetUserBook(user.ID, book.ID)
	if err != nil {
		handleJSONError(w, err, "finding reading state")
		return
	}
	if ok {
		userBook = presenters.PresentUserBook(row)
	}

	respondJSON(w, http.StatusOK, bookDetailResponse{
		Book:      presenters.PresentBookDetails(book),
		UserBook:  userBook,
		CanModify: permissions.CanModifyBook(user, book),
	})
}

// Create handles POST /api/books
func (b *Books) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var form BookForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	book, err := b.app.CreateBook(*user, form.params())
	if err != nil {
		handleJSONError(w, err, "creating book")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentBook(book))
}

// Update handles PUT /api/books/{bookID}
func (b *Books) Update(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	bookID, err := parseIDParam(r, "bookID")
	if err != nil {
		handleJSONError(w, err, "parsing bookID")
		return
	}

	book, err := b.app.GetBook(bookID)
	if err != nil {
		handleJSONError(w, err, "finding book")
		return
	}

	var form BookForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	updated, err := b.app.UpdateBook(*user, book, form.params())
	if err != nil {
		handleJSONError(w, err, "updating book")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentBook(updated))
}

// Delete handles DELETE /api/books/{bookID}
func (b *Books) Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	bookID, err := parseIDParam(r, "bookID")
	if err != nil {
		handleJSONError(w, err, "parsing bookID")
		return
	}

	book, err := b.app.GetBook(bookID)
	if err != nil {
		handleJSONError(w, err, "finding book")
		return
	}

	if err := b.app.DeleteBook(*user, book); err != nil {
		handleJSONError(w, err, "deleting book")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// coverUploadResponse is the payload for a stored cover image
type coverUploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

// UploadCover handles POST /api/books/upload-cover. The stored file is
// served back under /uploads.
func (b *Books) UploadCover(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(coverUploadMaxBytes); err != nil {
		respondJSONError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile("coverImage")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "coverImage file is required")
		return
	}
	defer file.Close()

	name, err := b.app.Files.Save(header.Filename, file)
	if err != nil {
		handleJSONError(w, err, "saving cover image")
		return
	}

	respondJSON(w, http.StatusOK, coverUploadResponse{
		ImageURL: helpers.GetPath("/uploads/"+url.PathEscape(name), nil),
	})
}

// StatusForm is the form data for updating the reading state of a book.
// Omitted fields retain their previous values.
type StatusForm struct {
	ReadingStatus   *string `schema:"reading_status" json:"reading_status"`
	ReadingProgress *int    `schema:"reading_progress" json:"reading_progress"`
	HasPhysicalCopy *bool   `schema:"has_physical_copy" json:"has_physical_copy"`
	IsWishlisted    *bool   `schema:"is_wishlisted" json:"is_wishlisted"`
}

// SetStatus handles POST /api/books/{bookID}/status
func (b *Books) SetStatus(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	bookID, err := parseIDParam(r, "bookID")
	if err != nil {
		handleJSONError(w, err, "parsing bookID")
		return
	}

	var form StatusForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	row, err := b.app.SetBookStatus(*user, bookID, app.UserBookParams{
		ReadingStatus:   form.ReadingStatus,
		ReadingProgress: form.ReadingProgress,
		HasPhysicalCopy: form.HasPhysicalCopy,
		IsWishlisted:    form.IsWishlisted,
	})
	if err != nil {
		handleJSONError(w, err, "updating reading state")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentUserBook(row))
}

// ReviewForm is the form data for adding a review
type ReviewForm struct {
	Content string `schema:"content" json:"content"`
}

// AddReview handles POST /api/books/{bookID}/reviews
func (b *Books) AddReview(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	bookID, err := parseIDParam(r, "bookID")
	if err != nil {
		handleJSONError(w, err, "parsing bookID")
		return
	}

	var form ReviewForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	review, err := b.app.AddReview(*user, bookID, form.Content)
	if err != nil {
		handleJSONError(w, err, "adding review")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentReview(review))
}

// DeleteReview handles DELETE /api/books/{bookID}/reviews/{reviewID}.
// The review must belong to the book in the path.
func (b *Books) DeleteReview(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	bookID, err := parseIDParam(r, "bookID")
	if err != nil {
		handleJSONError(w, err, "parsing bookID")
		return
	}

	reviewID, err := parseIDParam(r, "reviewID")
	if err != nil {
		handleJSONError(w, err, "parsing reviewID")
		return
	}

	var review database.Review
	err = b.app.DB.Where("id = ? AND book_id = ?", reviewID, bookID).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		handleJSONError(w, app.ErrReviewNotFound, "finding review")
		return
	}
	if err != nil {
		handleJSONError(w, err, "finding review")
		return
	}

	if err := b.app.DeleteReview(*user, review); err != nil {
		handleJSONError(w, err, "deleting review")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
