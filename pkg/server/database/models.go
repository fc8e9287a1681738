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

package database

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user
type User struct {
	Model
	Username    string     `json:"username" gorm:"uniqueIndex;type:text"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:text"`
	Password    NullString `json:"-"`
	Role        string     `json:"role" gorm:"default:user;index"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// Book is a model for a book record
type Book struct {
	Model
	Title       string     `json:"title" gorm:"index"`
	Description string     `json:"description"`
	CoverImage  string     `json:"cover_image"`
	StoreLink   NullString `json:"store_link"`
	PublishDate *time.Time `json:"publish_date" gorm:"type:date"`
	CreatedBy   int        `json:"created_by" gorm:"index"`
	Authors     []Author   `json:"authors" gorm:"many2many:book_authors"`
	Genres      []Genre    `json:"genres" gorm:"many2many:book_genres"`
	Reviews     []Review   `json:"reviews" gorm:"foreignKey:BookID"`
}

// Author is a model for a book author
type Author struct {
	Model
	Name            string     `json:"name" gorm:"uniqueIndex;type:text"`
	Dob             *time.Time `json:"dob" gorm:"type:date"`
	CountryOfBirth  NullString `json:"country_of_birth"`
	DateOfDeath     *time.Time `json:"date_of_death" gorm:"type:date"`
	BookPublishDate *time.Time `json:"book_publish_date" gorm:"type:date"`
	CreatedBy       int        `json:"created_by" gorm:"index"`
}

// Genre is a model for a book genre
type Genre struct {
	Model
	Name      string `json:"name" gorm:"uniqueIndex;type:text"`
	CreatedBy int    `json:"created_by" gorm:"index"`
}

// UserBook is the per-(user, book) record tracking reading state.
// A (user, book) pair has at most one row, enforced by the composite
// unique index.
type UserBook struct {
	Model
	UserID          int    `json:"user_id" gorm:"uniqueIndex:idx_user_book"`
	BookID          int    `json:"book_id" gorm:"uniqueIndex:idx_user_book;index"`
	ReadingStatus   string `json:"reading_status" gorm:"default:not_started"`
	ReadingProgress int    `json:"reading_progress" gorm:"default:0"`
	HasPhysicalCopy bool   `json:"has_physical_copy" gorm:"default:false"`
	IsWishlisted    bool   `json:"is_wishlisted" gorm:"default:false"`
}

// Review is a model for a book review
type Review struct {
	Model
	Content string `json:"content"`
	UserID  int    `json:"user_id" gorm:"index"`
	BookID  int    `json:"book_id" gorm:"index"`
	User    User   `json:"user" gorm:"foreignKey:UserID"`
}

// Session is a login history record for a user. LogoutAt remains null
// until the session is closed by a logout.
type Session struct {
	Model
	UserID    int        `json:"user_id" gorm:"index"`
	LoginAt   time.Time  `json:"login_at"`
	LogoutAt  *time.Time `json:"logout_at"`
	UserAgent string     `json:"user_agent"`
	IP        string     `json:"ip"`
}
