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
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/log"
	"github.com/pkg/errors"
)

var formDecoder = schema.NewDecoder()

func init() {
	formDecoder.IgnoreUnknownKeys(true)
}

// parseForm decodes the request's form body into dst
func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return errors.Wrap(err, "parsing form")
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return errors.Wrap(err, "decoding form")
	}

	return nil
}

// parseRequestData decodes the request body into dst based on the
// content type. JSON bodies and form bodies are both accepted.
func parseRequestData(r *http.Request, dst interface{}) error {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return errors.Wrap(err, "decoding json")
		}

		return nil
	}

	return parseForm(r, dst)
}

// errInvalidID is an error for a non-numeric id in the request path
var errInvalidID = errors.New("Invalid id in the URL")

// parseIDParam reads a numeric path variable from the request
func parseIDParam(r *http.Request, name string) (int, error) {
	vars := mux.Vars(r)

	id, err := strconv.Atoi(vars[name])
	if err != nil {
		return 0, errInvalidID
	}

	return id, nil
}

// respondJSON responds with the JSON-encoding of the given value
func respondJSON(w http.ResponseWriter, statusCode int, i interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(i); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSONError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, errorResponse{Error: message})
}

// statusForError maps a known application error to an HTTP status.
// Unknown errors map to a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, app.ErrUsernameRequired),
		errors.Is(err, app.ErrEmailRequired),
		errors.Is(err, app.ErrPasswordRequired),
		errors.Is(err, app.ErrPasswordTooShort),
		errors.Is(err, app.ErrDuplicateUser),
		errors.Is(err, app.ErrAdminCodeRequired),
		errors.Is(err, app.ErrTitleRequired),
		errors.Is(err, app.ErrDescriptionRequired),
		errors.Is(err, app.ErrContentRequired),
		errors.Is(err, app.ErrNameRequired),
		errors.Is(err, app.ErrDuplicateAuthor),
		errors.Is(err, app.ErrDuplicateGenre),
		errors.Is(err, app.ErrProgressOutOfRange),
		errors.Is(err, app.ErrInvalidReadingStatus),
		errors.Is(err, errInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, app.ErrLoginInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrInvalidAdminCode),
		errors.Is(err, app.ErrUpdateBookDenied),
		errors.Is(err, app.ErrDeleteBookDenied),
		errors.Is(err, app.ErrDeleteReviewDenied):
		return http.StatusForbidden
	case errors.Is(err, app.ErrNotFound),
		errors.Is(err, app.ErrBookNotFound),
		errors.Is(err, app.ErrAuthorNotFound),
		errors.Is(err, app.ErrGenreNotFound),
		errors.Is(err, app.ErrReviewNotFound),
		errors.Is(err, app.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrSuggestionsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleJSONError responds with a JSON error envelope. Known
// application errors surface their message with the mapped status;
// everything else is logged and hidden behind a generic message.
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := statusForError(err)

	if statusCode == http.StatusInternalServerError {
		log.ErrorWrap(err, msg)
		respondJSONError(w, statusCode, "Something went wrong")
		return
	}

	respondJSONError(w, statusCode, err.Error())
}
