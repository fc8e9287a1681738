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
	"database/sql"
	"encoding/json"

	"gorm.io/gorm"
)

// PreloadBook preloads the associations of a book
func PreloadBook(conn *gorm.DB) *gorm.DB {
	return conn.Preload("Authors").Preload("Genres")
}

// PreloadBookDetails preloads the associations of a book together with
// its reviews and their authors
func PreloadBookDetails(conn *gorm.DB) *gorm.DB {
	return PreloadBook(conn).Preload("Reviews").Preload("Reviews.User")
}

// NullString is a nullable string column that serializes to JSON null
// when not valid
type NullString struct {
	sql.NullString
}

// ToNullString creates a valid NullString from the given string
func ToNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: true}}
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(ns.String)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON null becomes an
// invalid NullString.
func (ns *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ns.Valid = false
		ns.String = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	ns.String = s
	ns.Valid = true

	return nil
}
