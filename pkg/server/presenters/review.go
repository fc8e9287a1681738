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

// Review is a result of PresentReview
type Review struct {
	ID        int        `json:"id"`
	Content   string     `json:"content"`
	BookID    int        `json:"book_id"`
	User      ReviewUser `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ReviewUser is the review author's public identity
type ReviewUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// PresentReview presents a review
func PresentReview(review database.Review) Review {
	return Review{
		ID:      review.ID,
		Content: review.Content,
		BookID:  review.BookID,
		User: ReviewUser{
			ID:       review.User.ID,
			Username: review.User.Username,
		},
		CreatedAt: FormatTS(review.CreatedAt),
		UpdatedAt: FormatTS(review.UpdatedAt),
	}
}

// PresentReviews presents reviews
func PresentReviews(reviews []database.Review) []Review {
	ret := []Review{}

	for _, review := range reviews {
		p := PresentReview(review)
		ret = append(ret, p)
	}

	return ret
}
