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

	"github.com/gorilla/mux"
	"github.com/leaflog/leaflog/pkg/server/app"
	mw "github.com/leaflog/leaflog/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	APIRoutes   []Route
}

// NewAPIRoutes returns the api routes. Patterns are relative to the
// /api prefix. Fixed paths are listed before their pattern-variable
// siblings so they match first.
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	ret := []Route{
		{"POST", "/auth/login", c.Users.Login, true},
		{"POST", "/auth/logout", mw.Auth(a, c.Users.Logout), true},

		{"GET", "/books", mw.Auth(a, c.Books.Index), true},
		{"GET", "/books/favorites", mw.Auth(a, c.Books.Favorites), true},
		{"POST", "/books/upload-cover", mw.Auth(a, c.Books.UploadCover), true},
		{"GET", "/books/{bookID}", mw.Auth(a, c.Books.Show), true},
		{"POST", "/books", mw.Auth(a, c.Books.Create), true},
		{"PUT", "/books/{bookID}", mw.Auth(a, c.Books.Update), true},
		{"DELETE", "/books/{bookID}", mw.Auth(a, c.Books.Delete), true},
		{"POST", "/books/{bookID}/status", mw.Auth(a, c.Books.SetStatus), true},
		{"POST", "/books/{bookID}/reviews", mw.Auth(a, c.Books.AddReview), true},
		{"DELETE", "/books/{bookID}/reviews/{reviewID}", mw.Auth(a, c.Books.DeleteReview), true},
		{"DELETE", "/reviews/{reviewID}", mw.Auth(a, c.Users.DeleteReview), true},

		{"GET", "/authors", mw.Auth(a, c.Authors.Index), true},
		{"POST", "/authors", mw.AdminOnly(a, c.Authors.Create), true},
		{"PUT", "/authors/{authorID}", mw.AdminOnly(a, c.Authors.Update), true},
		{"DELETE", "/authors/{authorID}", mw.AdminOnly(a, c.Authors.Delete), true},

		{"GET", "/genres", mw.Auth(a, c.Genres.Index), true},
		{"POST", "/genres", mw.AdminOnly(a, c.Genres.Create), true},
		{"PUT", "/genres/{genreID}", mw.AdminOnly(a, c.Genres.Update), true},
		{"DELETE", "/genres/{genreID}", mw.AdminOnly(a, c.Genres.Delete), true},

		{"GET", "/users", mw.AdminOnly(a, c.Users.Index), true},
		{"DELETE", "/users/{userID}", mw.AdminOnly(a, c.Users.Delete), true},
		{"GET", "/users/{userID}/reviews", mw.Auth(a, c.Users.Reviews), true},

		{"POST", "/ai/suggest-books", mw.Auth(a, c.Suggest.Books), true},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/auth/register", c.Users.Register, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	apiRouter := router.PathPrefix("/api").Subrouter()
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	router.HandleFunc("/health", rc.Controllers.Health.Index).Methods("GET")

	if uploads := uploadsHandler(app); uploads != nil {
		router.PathPrefix("/uploads/").Handler(uploads)
	}

	router.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /"))
	})

	// catch-all
	router.PathPrefix("/").HandlerFunc(NotFound)

	return mw.Global(router), nil
}
