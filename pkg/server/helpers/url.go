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

// Package helpers provides shared helpers
package helpers

import (
	"fmt"
	"net/url"
)

// GetPath returns the path with the given query
func GetPath(path string, query *url.Values) string {
	if query == nil {
		return path
	}

	return fmt.Sprintf("%s?%s", path, query.Encode())
}
