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
	"errors"

	"github.com/leaflog/leaflog/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserBookParams is the input for updating a user's reading state for a
// book. Only non-nil fields are applied.
type UserBookParams struct {
	ReadingStatus   *string
	ReadingProgress *int
	HasPhysicalCopy *bool
	IsWishlisted    *bool
}

// findOrCreateUserBook returns the interaction row for the (user, book)
// pair, creating it with defaults if none exists. The create is atomic
// with respect to the unique (user_id, book_id) index: a lost race
// falls through to reading the winner's row instead of surfacing a
// constraint violation.
func (a *App) findOrCreateUserBook(userID, bookID int) (database.UserBook, error) {
	var row database.UserBook
	err := a.DB.Where("user_id = ? AND book_id = ?", userID, bookID).First(&row).Error
	if err == nil {
		return row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return database.UserBook{}, pkgErrors.Wrap(err, "finding interaction row")
	}

	row = database.UserBook{
		UserID:        userID,
		BookID:        bookID,
		ReadingStatus: database.ReadingStatusNotStarted,
	}
	err = a.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return database.UserBook{}, pkgErrors.Wrap(err, "creating interaction row")
	}

	// Re-read in case a concurrent request won the create
	if err := a.DB.Where("user_id = ? AND book_id = ?", userID, bookID).First(&row).Error; err != nil {
		return database.UserBook{}, pkgErrors.Wrap(err, "reloading interaction row")
	}

	return row, nil
}

// SetBookStatus upserts the user's interaction row for the given book
// and applies the supplied fields. Setting the status to completed
// forces the progress to 100 and not_started forces it to 0.
func (a *App) SetBookStatus(user database.User, bookID int, p UserBookParams) (database.UserBook, error) {
	if p.ReadingStatus != nil && !database.ValidReadingStatus(*p.ReadingStatus) {
		return database.UserBook{}, ErrInvalidReadingStatus
	}
	if p.ReadingProgress != nil && (*p.ReadingProgress < 0 || *p.ReadingProgress > 100) {
		return database.UserBook{}, ErrProgressOutOfRange
	}

	if err := a.requireBook(bookID); err != nil {
		return database.UserBook{}, err
	}

	row, err := a.findOrCreateUserBook(user.ID, bookID)
	if err != nil {
		return database.UserBook{}, err
	}

	if p.ReadingStatus != nil {
		row.ReadingStatus = *p.ReadingStatus
	}
	if p.ReadingProgress != nil {
		row.ReadingProgress = *p.ReadingProgress
	}
	if p.HasPhysicalCopy != nil {
		row.HasPhysicalCopy = *p.HasPhysicalCopy
	}
	if p.IsWishlisted != nil {
		row.IsWishlisted = *p.IsWishlisted
	}

	// The progress always reflects a terminal-state status
	switch row.ReadingStatus {
	case database.ReadingStatusCompleted:
		row.ReadingProgress = 100
	case database.ReadingStatusNotStarted:
		row.ReadingProgress = 0
	}

	if err := a.DB.Save(&row).Error; err != nil {
		return database.UserBook{}, pkgErrors.Wrap(err, "saving interaction row")
	}

	return row, nil
}

// GetUserBook returns the user's interaction row for the given book,
// or false if none exists
func (a *App) GetUserBook(userID, bookID int) (database.UserBook, bool, error) {
	var row database.UserBook
	err := a.DB.Where("user_id = ? AND book_id = ?", userID, bookID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.UserBook{}, false, nil
	} else if err != nil {
		return database.UserBook{}, false, pkgErrors.Wrap(err, "finding interaction row")
	}

	return row, true, nil
}
