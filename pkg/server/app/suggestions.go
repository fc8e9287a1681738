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
	"context"

	"github.com/pkg/errors"
)

// SuggestBooks asks the configured suggestion service for book
// recommendations based on the given titles. It never touches book data.
func (a *App) SuggestBooks(ctx context.Context, titles []string) (string, error) {
	if a.Suggest == nil || !a.Suggest.Configured() {
		return "", ErrSuggestionsDisabled
	}

	suggestions, err := a.Suggest.SuggestBooks(ctx, titles)
	if err != nil {
		return "", errors.Wrap(err, "getting suggestions")
	}

	return suggestions, nil
}
