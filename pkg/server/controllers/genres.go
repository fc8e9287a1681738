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

// NewGenres creates a new Genres controller
func NewGenres(app *app.App) *Genres {
	return &Genres{
		app: app,
	}
}

// Genres is a genre controller
type Genres struct {
	app *app.App
}

// GenreForm is the form data for creating or updating a genre
type GenreForm struct {
	Name string `schema:"name" json:"name"`
}

// Index handles GET /api/genres
func (c *Genres) Index(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	genres, err := c.app.ListGenres(query.Get("search"))
	if err != nil {
		handleJSONError(w, err, "listing genres")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentGenres(genres))
}

// Create handles POST /api/genres
func (c *Genres) Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())

	var form GenreForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	genre, err := c.app.CreateGenre(*user, form.Name)
	if err != nil {
		handleJSONError(w, err, "creating genre")
		return
	}

	respondJSON(w, http.StatusCreated, presenters.PresentGenre(genre))
}

// Update handles PUT /api/genres/{genreID}
func (c *Genres) Update(w http.ResponseWriter, r *http.Request) {
	genreID, err := parseIDParam(r, "genreID")
	if err != nil {
		handleJSONError(w, err, "parsing genreID")
		return
	}

	genre, ok, err := operations.GetGenre(c.app.DB, genreID)
	if err != nil {
		handleJSONError(w, err, "finding genre")
		return
	}
	if !ok {
		handleJSONError(w, app.ErrGenreNotFound, "finding genre")
		return
	}

	var form GenreForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	updated, err := c.app.UpdateGenre(genre, form.Name)
	if err != nil {
		handleJSONError(w, err, "updating genre")
		return
	}

	respondJSON(w, http.StatusOK, presenters.PresentGenre(updated))
}

// Delete handles DELETE /api/genres/{genreID}
func (c *Genres) Delete(w http.ResponseWriter, r *http.Request) {
	genreID, err := parseIDParam(r, "genreID")
	if err != nil {
		handleJSONError(w, err, "parsing genreID")
		return
	}

	genre, ok, err := operations.GetGenre(c.app.DB, genreID)
	if err != nil {
		handleJSONError(w, err, "finding genre")
		return
	}
	if !ok {
		handleJSONError(w, app.ErrGenreNotFound, "finding genre")
		return
	}

	if err := c.app.DeleteGenre(genre); err != nil {
		handleJSONError(w, err, "deleting genre")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
