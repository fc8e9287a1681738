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
	"github.com/leaflog/leaflog/pkg/server/log"
	"github.com/leaflog/leaflog/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// BookParams is the input for creating or updating a book. Zero-valued
// text fields retain the previous value on update. StoreLink and
// PublishDate are nullable-overridable: a pointer to an empty value
// clears them, nil leaves them untouched. A non-nil id list replaces
// the association set wholesale.
type BookParams struct {
	Title       string
	Description string
	CoverImage  string
	StoreLink   *string
	PublishDate *string
	AuthorIDs   *[]int
	GenreIDs    *[]int
}

// CreateBook creates a book owned by the given user and sets its
// author/genre associations to the supplied sets
func (a *App) CreateBook(user database.User, p BookParams) (database.Book, error) {
	if p.Title == "" {
		return database.Book{}, ErrTitleRequired
	}
	if p.Description == "" {
		return database.Book{}, ErrDescriptionRequired
	}

	book := database.Book{
		Title:       p.Title,
		Description: p.Description,
		CoverImage:  p.CoverImage,
		CreatedBy:   user.ID,
	}
	if p.StoreLink != nil && *p.StoreLink != "" {
		book.StoreLink = database.ToNullString(*p.StoreLink)
	}
	if p.PublishDate != nil {
		book.PublishDate = normalizeDate(*p.PublishDate)
	}

	tx := a.DB.Begin()

	if err := tx.Create(&book).Error; err != nil {
		tx.Rollback()
		return database.Book{}, errors.Wrap(err, "inserting book")
	}

	a.replaceAssociations(tx, &book, p.AuthorIDs, p.GenreIDs)

	tx.Commit()

	return a.loadBook(book.ID)
}

// UpdateBook applies a partial update to the given book. Supplied
// association id lists replace the existing sets.
func (a *App) UpdateBook(user database.User, book database.Book, p BookParams) (database.Book, error) {
	if !permissions.CanModifyBook(&user, book) {
		return book, ErrUpdateBookDenied
	}

	if p.Title != "" {
		book.Title = p.Title
	}
	if p.Description != "" {
		book.Description = p.Description
	}
	if p.CoverImage != "" {
		book.CoverImage = p.CoverImage
	}
	if p.StoreLink != nil {
		if *p.StoreLink == "" {
			book.StoreLink = database.NullString{}
		} else {
			book.StoreLink = database.ToNullString(*p.StoreLink)
		}
	}
	if p.PublishDate != nil {
		book.PublishDate = normalizeDate(*p.PublishDate)
	}

	tx := a.DB.Begin()

	if err := tx.Save(&book).Error; err != nil {
		tx.Rollback()
		return book, errors.Wrap(err, "updating book")
	}

	a.replaceAssociations(tx, &book, p.AuthorIDs, p.GenreIDs)

	tx.Commit()

	return a.loadBook(book.ID)
}

// replaceAssociations replaces the author and genre sets of the book
// with the supplied id lists. Failures are logged and skipped: a bad
// association set must not abort the field update that already happened
// in the same call.
func (a *App) replaceAssociations(tx *gorm.DB, book *database.Book, authorIDs, genreIDs *[]int) {
	if authorIDs != nil {
		var authors []database.Author
		if err := tx.Where("id IN ?", *authorIDs).Find(&authors).Error; err != nil {
			log.ErrorWrap(err, "finding authors")
		} else if err := tx.Model(book).Association("Authors").Replace(&authors); err != nil {
			log.ErrorWrap(err, "replacing authors")
		}
	}

	if genreIDs != nil {
		var genres []database.Genre
		if err := tx.Where("id IN ?", *genreIDs).Find(&genres).Error; err != nil {
			log.ErrorWrap(err, "finding genres")
		} else if err := tx.Model(book).Association("Genres").Replace(&genres); err != nil {
			log.ErrorWrap(err, "replacing genres")
		}
	}
}

// GetBook finds a book by id with its authors and genres populated
func (a *App) GetBook(id int) (database.Book, error) {
	var book database.Book
	err := database.PreloadBook(a.DB).Where("books.id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Book{}, ErrBookNotFound
	} else if err != nil {
		return database.Book{}, errors.Wrap(err, "finding book")
	}

	return book, nil
}

// GetBookDetails finds a book by id with its authors, genres, and
// reviews populated
func (a *App) GetBookDetails(id int) (database.Book, error) {
	var book database.Book
	err := database.PreloadBookDetails(a.DB).Where("books.id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Book{}, ErrBookNotFound
	} else if err != nil {
		return database.Book{}, errors.Wrap(err, "finding book")
	}

	return book, nil
}

// requireBook returns ErrBookNotFound unless a book with the id exists
func (a *App) requireBook(id int) error {
	var count int64
	if err := a.DB.Model(&database.Book{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return errors.Wrap(err, "counting books")
	}
	if count == 0 {
		return ErrBookNotFound
	}

	return nil
}

// loadBook reloads a book with its authors and genres populated
func (a *App) loadBook(id int) (database.Book, error) {
	var book database.Book
	if err := database.PreloadBook(a.DB).Where("books.id = ?", id).First(&book).Error; err != nil {
		return database.Book{}, errors.Wrap(err, "loading book")
	}

	return book, nil
}

// ListBooks returns books ordered by title, optionally filtered by a
// case-insensitive substring match on the title
func (a *App) ListBooks(search string) ([]database.Book, error) {
	conn := database.PreloadBook(a.DB)
	if search != "" {
		conn = conn.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var books []database.Book
	if err := conn.Order("title ASC").Find(&books).Error; err != nil {
		return nil, errors.Wrap(err, "listing books")
	}

	return books, nil
}

// ListFavoriteBooks returns the books the given user has wishlisted,
// ordered by title
func (a *App) ListFavoriteBooks(user database.User) ([]database.Book, error) {
	var rows []database.UserBook
	if err := a.DB.Where("user_id = ? AND is_wishlisted = ?", user.ID, true).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "finding interaction rows")
	}

	bookIDs := make([]int, 0, len(rows))
	for _, row := range rows {
		bookIDs = append(bookIDs, row.BookID)
	}
	if len(bookIDs) == 0 {
		return []database.Book{}, nil
	}

	var books []database.Book
	if err := database.PreloadBook(a.DB).Where("books.id IN ?", bookIDs).Order("title ASC").Find(&books).Error; err != nil {
		return nil, errors.Wrap(err, "listing favorite books")
	}

	return books, nil
}

// DeleteBook deletes the given book and all rows that depend on it:
// association rows, interaction rows, and reviews
func (a *App) DeleteBook(user database.User, book database.Book) error {
	if !permissions.CanModifyBook(&user, book) {
		return ErrDeleteBookDenied
	}

	tx := a.DB.Begin()

	if err := deleteBookTx(tx, book); err != nil {
		tx.Rollback()
		return err
	}

	tx.Commit()

	a.removeCoverFile(book)

	return nil
}

// removeCoverFile deletes the stored cover image for the book, if any.
// The book row is already gone, so failures are logged and not returned.
func (a *App) removeCoverFile(book database.Book) {
	if a.Files == nil {
		return
	}

	name := strings.TrimPrefix(book.CoverImage, "/uploads/")
	if name == "" || name == book.CoverImage {
		return
	}

	if err := a.Files.Remove(name); err != nil {
		log.WithFields(log.Fields{
			"book_id": book.ID,
			"name":    name,
		}).Warn("removing cover file: " + err.Error())
	}
}

// deleteBookTx removes the book and its dependent rows inside the given
// transaction, leaving no orphaned association rows behind
func deleteBookTx(tx *gorm.DB, book database.Book) error {
	if err := tx.Exec("DELETE FROM book_authors WHERE book_id = ?", book.ID).Error; err != nil {
		return errors.Wrap(err, "deleting author associations")
	}
	if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", book.ID).Error; err != nil {
		return errors.Wrap(err, "deleting genre associations")
	}
	if err := tx.Where("book_id = ?", book.ID).Delete(&database.UserBook{}).Error; err != nil {
		return errors.Wrap(err, "deleting interaction rows")
	}
	if err := tx.Where("book_id = ?", book.ID).Delete(&database.Review{}).Error; err != nil {
		return errors.Wrap(err, "deleting reviews")
	}
	if err := tx.Delete(&book).Error; err != nil {
		return errors.Wrap(err, "deleting book")
	}

	return nil
}
