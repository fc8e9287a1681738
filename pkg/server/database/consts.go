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

const (
	// RoleUser is the default role for a registered user
	RoleUser = "user"
	// RoleAdmin is the role for an administrator
	RoleAdmin = "admin"
)

const (
	// ReadingStatusNotStarted indicates that the user has not started the book
	ReadingStatusNotStarted = "not_started"
	// ReadingStatusInProgress indicates that the user is reading the book
	ReadingStatusInProgress = "in_progress"
	// ReadingStatusCompleted indicates that the user has finished the book
	ReadingStatusCompleted = "completed"
)

// ValidReadingStatus checks if the given value is a known reading status
func ValidReadingStatus(s string) bool {
	return s == ReadingStatusNotStarted || s == ReadingStatusInProgress || s == ReadingStatusCompleted
}
