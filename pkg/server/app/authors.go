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

// AuthorParams is the input for creating or updating an author. The
// date fields are raw client strings; sentinel values meaning "no
// value" are normalized before persistence.
type AuthorParams struct {
	Name            string
	Dob             *string
	CountryOfBirth  *string
	DateOfDeath     *string
	BookPublishDate *string
}

// ListAuthors returns authors ordered by name, optionally filtered by a
// case-insensitive substring match on the name
func (a *App) ListAuthors(search string) ([]database.Author, error) {
	conn := a.DB
	if search != "" {
		conn = conn.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var authors []database.Author
	if err := conn.Order("name ASC").Find(&authors).Error; err != nil {
		return nil, errors.Wrap(err, "listing authors")
	}

	return authors, nil
}

// CreateAuthor creates an author. A name matching an existing author
// case-insensitively is a duplicate.
func (a *App) CreateAuthor(user database.User, p AuthorParams) (database.Author, error) {
	if p.Name == "" {
		return database.Author{}, ErrNameRequired
	}

	var count int64
	if err := a.DB.Model(database.Author{}).Where("LOWER(name) = LOWER(?)", p.Name).Count(&count).Error; err != nil {
		return database.Author{}, errors.Wrap(err, "counting authors")
	}
	if count > 0 {
		return database.Author{}, ErrDuplicateAuthor
	}

	author := database.Author{
		Name:      p.Name,
		CreatedBy: user.ID,
	}
	applyAuthorFields(&author, p)

	if err := a.DB.Create(&author).Error; err != nil {
		return database.Author{}, errors.Wrap(err, "inserting author")
	}

	return author, nil
}

// UpdateAuthor applies a partial update to the given author
func (a *App) UpdateAuthor(author database.Author, p AuthorParams) (database.Author, error) {
	if p.Name != "" && !strings.EqualFold(p.Name, author.Name) {
		var count int64
		if err := a.DB.Model(database.Author{}).Where("LOWER(name) = LOWER(?) AND id <> ?", p.Name, author.ID).Count(&count).Error; err != nil {
			return author, errors.Wrap(err, "counting authors")
		}
		if count > 0 {
			return author, ErrDuplicateAuthor
		}
	}

	if p.Name != "" {
		author.Name = p.Name
	}
	applyAuthorFields(&author, p)

	if err := a.DB.Save(&author).Error; err != nil {
		return author, errors.Wrap(err, "updating author")
	}

	return author, nil
}

// applyAuthorFields applies the optional biographical fields, with the
// client's "no value" sentinels normalized away
func applyAuthorFields(author *database.Author, p AuthorParams) {
	if p.Dob != nil {
		author.Dob = normalizeDate(*p.Dob)
	}
	if p.DateOfDeath != nil {
		author.DateOfDeath = normalizeDate(*p.DateOfDeath)
	}
	if p.BookPublishDate != nil {
		author.BookPublishDate = normalizeDate(*p.BookPublishDate)
	}
	if p.CountryOfBirth != nil {
		if *p.CountryOfBirth == "" {
			author.CountryOfBirth = database.NullString{}
		} else {
			author.CountryOfBirth = database.ToNullString(*p.CountryOfBirth)
		}
	}
}

// DeleteAuthor deletes the given author and its book association rows
func (a *App) DeleteAuthor(author database.Author) error {
	tx := a.DB.Begin()

	if err := tx.Exec("DELETE FROM book_authors WHERE author_id = ?", author.ID).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting book associations")
	}
	if err := tx.Delete(&author).Error; err != nil {
		tx.Rollback()
		return errors.Wrap(err, "deleting author")
	}

	tx.Commit()

	return nil
}
