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
	"github.com/leaflog/leaflog/pkg/server/database"
)

// UserBook is a result of PresentUserBook
type UserBook struct {
	BookID          int    `json:"book_id"`
	ReadingStatus   string `json:"reading_status"`
	ReadingProgress int    `json:"reading_progress"`
	HasPhysicalCopy bool   `json:"has_physical_copy"`
	IsWishlisted    bool   `json:"is_wishlisted"`
}

// PresentUserBook presents a user's reading state for a book
func PresentUserBook(row database.UserBook) UserBook {
	return UserBook{
		BookID:          row.BookID,
		ReadingStatus:   row.ReadingStatus,
		ReadingProgress: row.ReadingProgress,
		HasPhysicalCopy: row.HasPhysicalCopy,
		IsWishlisted:    row.IsWishlisted,
	}
}

// DefaultUserBook presents the reading state for a book the user has
// never touched
func DefaultUserBook(bookID int) UserBook {
	return UserBook{
		BookID:        bookID,
		ReadingStatus: database.ReadingStatusNotStarted,
	}
}
