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
	"strings"

	"github.com/leaflog/leaflog/pkg/server/database"
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUserParams is the input for creating a user
type CreateUserParams struct {
	Username  string
	Email     string
	Password  string
	Admin     bool
	AdminCode string
}

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return pkgErrors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser creates a user. Requesting the admin role requires the
// pre-shared registration code.
func (a *App) CreateUser(p CreateUserParams) (database.User, error) {
	if p.Username == "" {
		return database.User{}, ErrUsernameRequired
	}
	if p.Email == "" {
		return database.User{}, ErrEmailRequired
	}
	if p.Password == "" {
		return database.User{}, ErrPasswordRequired
	}
	if len(p.Password) < 8 {
		return database.User{}, ErrPasswordTooShort
	}

	role := database.RoleUser
	if p.Admin {
		if p.AdminCode == "" {
			return database.User{}, ErrAdminCodeRequired
		}
		if p.AdminCode != a.AdminRegistrationCode {
			return database.User{}, ErrInvalidAdminCode
		}

		role = database.RoleAdmin
	}

	tx := a.DB.Begin()

	var count int64
	if err := tx.Model(database.User{}).Where("username = ? OR email = ?", p.Username, p.Email).Count(&count).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "counting user")
	}
	if count > 0 {
		tx.Rollback()
		return database.User{}, ErrDuplicateUser
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "hashing password")
	}

	user := database.User{
		Username: p.Username,
		Email:    p.Email,
		Password: database.ToNullString(string(hashedPassword)),
		Role:     role,
	}
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		return database.User{}, pkgErrors.Wrap(err, "saving user")
	}

	tx.Commit()

	return user, nil
}

// Authenticate authenticates a user. Both an unknown email and a wrong
// password result in ErrLoginInvalid.
func (a *App) Authenticate(email, password string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLoginInvalid
	} else if err != nil {
		return nil, pkgErrors.Wrap(err, "finding user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password.String), []byte(password)); err != nil {
		return nil, ErrLoginInvalid
	}

	return &user, nil
}

// GetUser finds a user by id
func (a *App) GetUser(id int) (database.User, error) {
	var user database.User
	err := a.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrUserNotFound
	} else if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// GetUserByEmail finds a user by email
func (a *App) GetUserByEmail(email string) (database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrUserNotFound
	} else if err != nil {
		return database.User{}, pkgErrors.Wrap(err, "finding user")
	}

	return user, nil
}

// ListUsers returns all users, optionally filtered by a case-insensitive
// substring match over username and email
func (a *App) ListUsers(search string) ([]database.User, error) {
	conn := a.DB
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		conn = conn.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var users []database.User
	if err := conn.Order("username ASC").Find(&users).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "listing users")
	}

	return users, nil
}

// RemoveUser deletes the given user together with the rows that depend
// on it: sessions, reviews, interaction rows, and the books the user
// created along with their dependents.
func (a *App) RemoveUser(user database.User) error {
	tx := a.DB.Begin()

	var books []database.Book
	if err := tx.Where("created_by = ?", user.ID).Find(&books).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "finding user books")
	}
	for _, book := range books {
		if err := deleteBookTx(tx, book); err != nil {
			tx.Rollback()
			return pkgErrors.Wrap(err, "deleting book")
		}
	}

	if err := tx.Where("user_id = ?", user.ID).Delete(&database.Session{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting sessions")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.Review{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting reviews")
	}
	if err := tx.Where("user_id = ?", user.ID).Delete(&database.UserBook{}).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting interaction rows")
	}
	if err := tx.Delete(&user).Error; err != nil {
		tx.Rollback()
		return pkgErrors.Wrap(err, "deleting user")
	}

	tx.Commit()

	return nil
}

// UpdateUserPassword hashes and updates the password of the given user
func UpdateUserPassword(tx *gorm.DB, user *database.User, password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return pkgErrors.Wrap(err, "hashing password")
	}

	if err := tx.Model(user).Update("password", database.ToNullString(string(hashedPassword))).Error; err != nil {
		return pkgErrors.Wrap(err, "updating password")
	}

	return nil
}
