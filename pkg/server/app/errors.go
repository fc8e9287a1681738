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

package app

import (
	"github.com/pkg/errors"
)

// Validation errors. Requests failing with these have no side effects.
var (
	// ErrUsernameRequired is an error for a missing username
	ErrUsernameRequired = errors.New("Username is required")
	// ErrEmailRequired is an error for a missing email
	ErrEmailRequired = errors.New("Email is required")
	// ErrPasswordRequired is an error for a missing password
	ErrPasswordRequired = errors.New("Password is required")
	// ErrPasswordTooShort is an error for a password that is too short
	ErrPasswordTooShort = errors.New("Password should be longer than 8 characters")
	// ErrDuplicateUser is an error for a username or email that is already taken
	ErrDuplicateUser = errors.New("Username or email already exists")
	// ErrAdminCodeRequired is an error for an admin registration without a code
	ErrAdminCodeRequired = errors.New("Admin code is required for admin registration")
	// ErrTitleRequired is an error for a book without a title
	ErrTitleRequired = errors.New("Title is required")
	// ErrDescriptionRequired is an error for a book without a description
	ErrDescriptionRequired = errors.New("Description is required")
	// ErrContentRequired is an error for a review without content
	ErrContentRequired = errors.New("Content is required")
	// ErrNameRequired is an error for an author or genre without a name
	ErrNameRequired = errors.New("Name is required")
	// ErrDuplicateAuthor is an error for an author name that already exists
	ErrDuplicateAuthor = errors.New("Author already exists")
	// ErrDuplicateGenre is an error for a genre name that already exists
	ErrDuplicateGenre = errors.New("Genre already exists")
	// ErrProgressOutOfRange is an error for a reading progress outside [0, 100]
	ErrProgressOutOfRange = errors.New("Reading progress must be between 0 and 100")
	// ErrInvalidReadingStatus is an error for an unknown reading status
	ErrInvalidReadingStatus = errors.New("Invalid reading status")
)

// Authentication errors
var (
	// ErrLoginInvalid is an error for invalid login credentials. It is
	// deliberately generic so that account existence is not revealed.
	ErrLoginInvalid = errors.New("Invalid credentials")
)

// Authorization errors
var (
	// ErrInvalidAdminCode is an error for a mismatched admin registration code
	ErrInvalidAdminCode = errors.New("Invalid admin code")
	// ErrUpdateBookDenied is an error for updating a book without permission
	ErrUpdateBookDenied = errors.New("Not authorized to update this book")
	// ErrDeleteBookDenied is an error for deleting a book without permission
	ErrDeleteBookDenied = errors.New("Not authorized to delete this book")
	// ErrDeleteReviewDenied is an error for deleting a review without permission
	ErrDeleteReviewDenied = errors.New("Not authorized to delete this review")
)

// Not-found errors. Existence is checked before any authorization check.
var (
	// ErrNotFound is a generic error for a resource that does not exist
	ErrNotFound = errors.New("not found")
	// ErrBookNotFound is an error for a book that does not exist
	ErrBookNotFound = errors.New("Book not found")
	// ErrAuthorNotFound is an error for an author that does not exist
	ErrAuthorNotFound = errors.New("Author not found")
	// ErrGenreNotFound is an error for a genre that does not exist
	ErrGenreNotFound = errors.New("Genre not found")
	// ErrReviewNotFound is an error for a review that does not exist
	ErrReviewNotFound = errors.New("Review not found")
	// ErrUserNotFound is an error for a user that does not exist
	ErrUserNotFound = errors.New("User not found")
)

var (
	// ErrSuggestionsDisabled is an error for using book suggestions without
	// a configured suggestion service
	ErrSuggestionsDisabled = errors.New("Book suggestions are not configured")
)
