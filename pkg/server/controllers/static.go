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
	"strings"

	"github.com/leaflog/leaflog/pkg/server/app"
)

// uploadsHandler serves stored cover images. Nil when the app has no
// file store configured.
func uploadsHandler(a *app.App) http.Handler {
	if a.Files == nil {
		return nil
	}

	fs := http.FileServer(http.Dir(a.Files.BasePath()))

	return http.StripPrefix("/uploads/", fs)
}

// NotFound is a catch-all handler for requests with no matching route
func NotFound(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")

	if strings.Contains(accept, "application/json") {
		respondJSONError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}

	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(http.StatusText(http.StatusNotFound)))
}
