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
)

// NewSuggest creates a new Suggest controller
func NewSuggest(app *app.App) *Suggest {
	return &Suggest{
		app: app,
	}
}

// Suggest is a book suggestion controller
type Suggest struct {
	app *app.App
}

// SuggestForm is the form data for requesting book suggestions
type SuggestForm struct {
	Books []string `schema:"books" json:"books"`
}

type suggestResponse struct {
	Suggestions string `json:"suggestions"`
}

// Books handles POST /api/ai/suggest-books
func (c *Suggest) Books(w http.ResponseWriter, r *http.Request) {
	var form SuggestForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	suggestions, err := c.app.SuggestBooks(r.Context(), form.Books)
	if err != nil {
		handleJSONError(w, err, "fetching suggestions")
		return
	}

	respondJSON(w, http.StatusOK, suggestResponse{Suggestions: suggestions})
}
