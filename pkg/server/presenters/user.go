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

// User is a result of PresentUser
type User struct {
	ID          int        `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// PresentUser presents a user. The password hash never leaves the server.
func PresentUser(user database.User) User {
	ret := User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: FormatTS(user.CreatedAt),
	}
	if user.LastLoginAt != nil {
		t := FormatTS(*user.LastLoginAt)
		ret.LastLoginAt = &t
	}

	return ret
}

// PresentUsers presents users
func PresentUsers(users []database.User) []User {
	ret := []User{}

	for _, user := range users {
		p := PresentUser(user)
		ret = append(ret, p)
	}

	return ret
}
