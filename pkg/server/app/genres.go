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
	"strings"

	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/pkg/errors"
)

// ListGenres returns genres ordered by name, optionally filtered by a
// case-insensitive substring match on the name
func (a *App) ListGenres(search string) ([]database.Genre, error) {
	conn := a.DB
	if search != "" {
		conn = conn.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var genres []database.Genre
	if err := conn.Order("name ASC").Find(&genres).Error; err != nil {
		return nil, errors.Wrap(err, "listing genres")
	}

	return genres, nil
}

// CreateGenre creates a genre. A name matching an existing genre
// case-insensitively is a duplicate.
func (a *App) CreateGenre(user database.User, name string) (database.Genre, error) {
	if name == "" {
		return database.Genre{}, ErrNameRequired
	}

	var count int64
	if err := a.DB.Model(database.Genre{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return database.Genre{}, errors.Wrap(err, "counting genres")
	}
	if count > 0 {
		return database.Genre{}, ErrDuplicateGenre
	}

	genre := database.Genre{
		Name:      name,
		CreatedBy: user.ID,
	}
	if err := a.DB.Create(&genre).Error; err != nil {
		return database.Genre{}, errors.Wrap(err, "inserting genre")
	}

	return genre, nil
}

// UpdateGenre renames the given genre
func (a *App) UpdateGenre(genre database.Genre, name string) (database.Genre, error) {
	if name == "" {
		return genre, ErrNameRequired
	}

	if !strings.EqualFold(name, genre.Name) {
		var count int64
		if err := a.DB.Model(database.Genre{}).Where("LOWER(name) = LOWER(?) AND id <> ?", name, genre.ID).Count(&count).Error; err != nil {
			return genre, errors.Wrap(err, "counting genres")
		}
		if count > 0 {
			return genre, ErrDuplicateGenre
		}
	}

	genre.Name = name
	if err := a.DB.Save(&genre).Error; err != nil {
		return genre, errors.Wrap(err, "updating genre")
	}

	return genre, nil
}

// DeleteGenre deletes the given genre and its book association rows
func (a *App) DeleteGenre(genre database.Genre) error {
	tx := a.DB.Begin()

	if err := tx.Exec("DELETE FROM book_genres WHERE genre_id = ?", genre.ID).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting book associations")
	}
	if err := tx.Delete(&genre).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting genre")
	}

	tx.Commit()

	return nil
}
