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
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/permissions"
	"github.com/pkg/errors"
)

// AddReview creates a review by the given user for the given book.
// A user may review the same book more than once.
func (a *App) AddReview(user database.User, bookID int, content string) (database.Review, error) {
	if content == "" {
		return database.Review{}, ErrContentRequired
	}

	if err := a.requireBook(bookID); err != nil {
		return database.Review{}, err
	}

	review := database.Review{
		Content: content,
		UserID:  user.ID,
		BookID:  bookID,
	}
	if err := a.DB.Create(&review).Error; err != nil {
		return database.Review{}, errors.Wrap(err, "inserting review")
	}

	// Reload with the author's public identity populated
	if err := a.DB.Preload("User").Where("id = ?", review.ID).First(&review).Error; err != nil {
		return database.Review{}, errors.Wrap(err, "loading review")
	}

	return review, nil
}

// DeleteReview deletes the given review. Only an admin or the review's
// author may delete it.
func (a *App) DeleteReview(user database.User, review database.Review) error {
	if !permissions.CanModifyReview(&user, review) {
		return ErrDeleteReviewDenied
	}

	if err := a.DB.Delete(&review).Error; err != nil {
		return errors.Wrap(err, "deleting review")
	}

	return nil
}

// ListUserReviews returns all reviews authored by the given user
func (a *App) ListUserReviews(userID int) ([]database.Review, error) {
	var reviews []database.Review
	if err := a.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, errors.Wrap(err, "listing reviews")
	}

	return reviews, nil
}
