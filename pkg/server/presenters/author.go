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

// Author is a result of PresentAuthor
type Author struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Dob             *string   `json:"dob"`
	CountryOfBirth  *string   `json:"country_of_birth"`
	DateOfDeath     *string   `json:"date_of_death"`
	BookPublishDate *string   `json:"book_publish_date"`
	CreatedBy       int       `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PresentAuthor presents an author
func PresentAuthor(author database.Author) Author {
	return Author{
		ID:              author.ID,
		Name:            author.Name,
		Dob:             formatDate(author.Dob),
		CountryOfBirth:  nullableString(author.CountryOfBirth),
		DateOfDeath:     formatDate(author.DateOfDeath),
		BookPublishDate: formatDate(author.BookPublishDate),
		CreatedBy:       author.CreatedBy,
		CreatedAt:       FormatTS(author.CreatedAt),
		UpdatedAt:       FormatTS(author.UpdatedAt),
	}
}

// PresentAuthors presents authors
func PresentAuthors(authors []database.Author) []Author {
	ret := []Author{}

	for _, author := range authors {
		p := PresentAuthor(author)
		ret = append(ret, p)
	}

	return ret
}
