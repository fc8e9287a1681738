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

// Package permissions holds pure predicates deciding whether a user may
// act on a resource. Admins may modify anything; otherwise modification
// requires ownership.
package permissions

import (
	"github.com/leaflog/leaflog/pkg/server/database"
)

// IsAdmin checks if the given user is an administrator
func IsAdmin(user *database.User) bool {
	return user != nil && user.Role == database.RoleAdmin
}

func canModify(user *database.User, creatorID int) bool {
	if user == nil {
		return false
	}
	if IsAdmin(user) {
		return true
	}

	return creatorID != 0 && creatorID == user.ID
}

// CanModifyBook checks if the given user can modify the given book
func CanModifyBook(user *database.User, book database.Book) bool {
	return canModify(user, book.CreatedBy)
}

// CanModifyAuthor checks if the given user can modify the given author
func CanModifyAuthor(user *database.User, author database.Author) bool {
	return canModify(user, author.CreatedBy)
}

// CanModifyGenre checks if the given user can modify the given genre
func CanModifyGenre(user *database.User, genre database.Genre) bool {
	return canModify(user, genre.CreatedBy)
}

// CanModifyReview checks if the given user can modify the given review
func CanModifyReview(user *database.User, review database.Review) bool {
	return canModify(user, review.UserID)
}
