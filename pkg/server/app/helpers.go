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
	"time"
)

// dateFormat is the wire format for date-only fields
const dateFormat = "2006-01-02"

// normalizeDate parses a client-sent date-only value. Clients send the
// literal string "Invalid date" or an empty string to mean no value;
// both normalize to nil rather than being stored literally. A value that
// fails to parse also normalizes to nil.
func normalizeDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || s == "Invalid date" {
		return nil
	}

	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return nil
	}

	return &t
}
