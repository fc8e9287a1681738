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

	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/context"
	"github.com/leaflog/leaflog/pkg/server/operations"
	"github.com/leaflog/leaflog/pkg/server/presenters"
)

// NewAuthors creates a new Authors controller
func NewAuthors(app *app.App) *Authors {
	return &Authors{
		app: app,
	}
}

// Authors is an author controller
type Authors struct {
	app *app.App
}

// AuthorForm is the form data for creating or updating an author
type AuthorForm struct {
	Name            string  `schema:"name" json:"name"`
	Dob             *string `schema:"dob" json:"dob"`
	CountryOfBirth  *string `schema:"country_of_birth" json:"country_of_birth"`
	DateOfDeath     *string `schema:"date_of_death" json:"date_of_death"`
	BookPublishDate *string `schema:"book_publish_date" json:"book_publish_date"`
}

func (f AuthorForm) params() app.AuthorParams {
	return app.AuthorParams{
		Name:            f.Name,
		Dob:             f.Dob,
		CountryOfBirth:  f.CountryOfBirth,
		DateOfDeath:     f.DateOfDeath,
		BookPublishDate: f.BookPublishDate,
	}
}

// Index handles GET /api/authors
func (c *Authors) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	authors, err := c.app.ListAuthors(query.Get("search"))
	if err != nil {
		handleJSONError(w, err, "listing authors")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentAuthors(authors))
}

// Create handles POST /api/authors
func (c *Authors) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var form AuthorForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	author, err := c.app.CreateAuthor(*user, form.params())
	if err != nil {
		handleJSONError(w, err, "creating author")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentAuthor(author))
}

// Update handles PUT /api/authors/{authorID}
func (c *Authors) Update(w http.ResponseWriter, r *http.Request) {
	authorID, err := parseIDParam(r, "authorID")
	if err != nil {
		handleJSONError(w, err, "parsing authorID")
		return
	}

	author, ok, err := operations.GetAuthor(c.app.DB, authorID)
	if err != nil {
		handleJSONError(w, err, "finding author")
		return
	}
	if !ok {
		handleJSONError(w, app.ErrAuthorNotFound, "finding author")
		return
	}

	var form AuthorForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	updated, err := c.app.UpdateAuthor(author, form.params())
	if err != nil {
		handleJSONError(w, err, "updating author")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentAuthor(updated))
}

// Delete handles DELETE /api/authors/{authorID}
func (c *Authors) Delete(w http.ResponseWriter, r *http.Request) {
	authorID, err := parseIDParam(r, "authorID")
	if err != nil {
		handleJSONError(w, err, "parsing authorID")
		return
	}

	author, ok, err := operations.GetAuthor(c.app.DB, authorID)
	if err != nil {
		handleJSONError(w, err, "finding author")
		return
	}
	if !ok {
		handleJSONError(w, app.ErrAuthorNotFound, "finding author")
		return
	}

	if err := c.app.DeleteAuthor(author); err != nil {
		handleJSONError(w, err, "deleting author")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
