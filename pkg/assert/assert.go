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

// Package assert provides assertion helpers for tests
package assert

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Equal fails the test if the two values are not equal
func Equal(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a != b {
		t.Errorf("%s. Actual: %+v. Expected: %+v.", message, a, b)
	}
}

// Equalf fails the test if the two values are not equal, formatting the message
func Equalf(t *testing.T, a, b interface{}, format string, args ...interface{}) {
	t.Helper()

	Equal(t, a, b, fmt.Sprintf(format, args...))
}

// NotEqual fails the test if the two values are equal
func NotEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a == b {
		t.Errorf("%s. Got: %+v.", message, a)
	}
}

// DeepEqual fails the test if the two values are not deeply equal
func DeepEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if diff := cmp.Diff(b, a); diff != "" {
		t.Errorf("%s. Diff (-expected +actual):\n%s", message, diff)
	}
}

// StatusCodeEquals fails the test if the response status code does not match the expectation
func StatusCodeEquals(t *testing.T, res *http.Response, expected int, message string) {
	t.Helper()

	if res.StatusCode != expected {
		t.Errorf("%s. Status: %d. Expected: %d.", message, res.StatusCode, expected)
	}
}
