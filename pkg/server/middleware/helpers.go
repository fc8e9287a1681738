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

package middleware

import (
	"net/http"
	"strings"

	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/log"
)

// Middleware wraps a handler with a chain of ambient concerns
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// getCredentialFromAuth reads the bearer credential from the
// authorization header
func getCredentialFromAuth(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// GetCredential extracts the client credential from the given request.
// An absent credential is an empty string, not an error.
func GetCredential(r *http.Request) (string, error) {
	return getCredentialFromAuth(r), nil
}

// DoError logs the given error and responds with a generic message
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	log.ErrorWrap(err, msg)
	http.Error(w, http.StatusText(statusCode), statusCode)
}

// RespondUnauthorized responds with a 401
func RespondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="Restricted"`)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}

// RespondForbidden responds with a 403
func RespondForbidden(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

func logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		log.WithFields(log.Fields{
			"remoteAddr": LookupIP(r),
			"method":     r.Method,
			"uri":        r.RequestURI,
		}).Debug("incoming request")
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// APIMw is the middleware chain for API routes
func APIMw(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(h, rateLimit)
}

// Global is the middleware chain applied to the whole router
func Global(h http.Handler) http.Handler {
	return logging(cors(h))
}
