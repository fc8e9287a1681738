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

package presenters

import (
	"time"

	"github.com/leaflog/leaflog/pkg/server/database"
)

// Book is a result of PresentBook
type Book struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CoverImage  string    `json:"cover_image"`
	StoreLink   *string   `json:"store_link"`
	PublishDate *string   `json:"publish_date"`
	CreatedBy   int       `json:"created_by"`
	Authors     []Author  `json:"authors"`
	Genres      []Genre   `json:"genres"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BookDetails is a result of PresentBookDetails
type BookDetails struct {
	Book
	Reviews []Review `json:"reviews"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format("2006-01-02")
	return &s
}

func nullableString(ns database.NullString) *string {
	if !ns.Valid {
		return nil
	}

	return &ns.String
}

// PresentBook presents a book
func PresentBook(book database.Book) Book {
	return Book{
		ID:          book.ID,
		Title:       book.Title,
		Description: book.Description,
		CoverImage:  book.CoverImage,
		StoreLink:   nullableString(book.StoreLink),
		PublishDate: formatDate(book.PublishDate),
		CreatedBy:   book.CreatedBy,
		Authors:     PresentAuthors(book.Authors),
		Genres:      PresentGenres(book.Genres),
		CreatedAt:   FormatTS(book.CreatedAt),
		UpdatedAt:   FormatTS(book.UpdatedAt),
	}
}

// PresentBooks presents books
func PresentBooks(books []database.Book) []Book {
	ret := []Book{}

	for _, book := range books {
		p := PresentBook(book)
		ret = append(ret, p)
	}

	return ret
}

// PresentBookDetails presents a book together with its reviews
func PresentBookDetails(book database.Book) BookDetails {
	return BookDetails{
		Book:    PresentBook(book),
		Reviews: PresentReviews(book.Reviews),
	}
}
