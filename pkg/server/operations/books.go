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

// Package operations provides database lookups shared by handlers.
// Lookups report existence rather than erroring on a missing row.
package operations

import (
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetBook retrieves a book with its authors and genres populated
func GetBook(db *gorm.DB, id int) (database.Book, bool, error) {
	var book database.Book
	err := database.PreloadBook(db).Where("books.id = ?", id).First(&book).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Book{}, false, nil
	} else if err != nil {
		return database.Book{}, false, errors.Wrap(err, "finding book")
	}

	return book, true, nil
}

// GetBookDetails retrieves a book with its authors, genres, and reviews
// populated
func GetBookDetails(db *gorm.DB, id int) (database.Book, bool, error) {
	var book database.Book
	err := database.PreloadBookDetails(db).Where("books.id = ?", id).First(&book).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Book{}, false, nil
	} else if err != nil {
		return database.Book{}, false, errors.Wrap(err, "finding book")
	}

	return book, true, nil
}

// GetAuthor retrieves an author
func GetAuthor(db *gorm.DB, id int) (database.Author, bool, error) {
	var author database.Author
	err := db.Where("id = ?", id).First(&author).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Author{}, false, nil
	} else if err != nil {
		return database.Author{}, false, errors.Wrap(err, "finding author")
	}

	return author, true, nil
}

// GetGenre retrieves a genre
func GetGenre(db *gorm.DB, id int) (database.Genre, bool, error) {
	var genre database.Genre
	err := db.Where("id = ?", id).First(&genre).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Genre{}, false, nil
	} else if err != nil {
		return database.Genre{}, false, errors.Wrap(err, "finding genre")
	}

	return genre, true, nil
}

// GetReview retrieves a review
func GetReview(db *gorm.DB, id int) (database.Review, bool, error) {
	var review database.Review
	err := db.Where("id = ?", id).First(&review).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Review{}, false, nil
	} else if err != nil {
		return database.Review{}, false, errors.Wrap(err, "finding review")
	}

	return review, true, nil
}
