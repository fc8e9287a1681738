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

// Package suggest calls an external chat completion service to suggest books
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoAPIKey is an error for a suggestion request without a configured API key
var ErrNoAPIKey = errors.New("no API key is configured")

// Client calls a chat completion API over HTTP
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a suggestion client. An empty API key leaves the
// client disabled.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      "gpt-3.5-turbo",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured indicates whether the client has an API key
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SuggestBooks asks the completion service for book suggestions based on
// the given titles and returns the raw suggestion text
func (c *Client) SuggestBooks(ctx context.Context, titles []string) (string, error) {
	if !c.Configured() {
		return "", ErrNoAPIKey
	}

	prompt := fmt.Sprintf("Suggest 5 books for someone who likes these: %s.", strings.Join(titles, ", "))

	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   200,
		Temperature: 0.7,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encoding payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", errors.Wrap(err, "constructing request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "making request")
	}
	defer res.Body.Close()

	var body chatResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "decoding response")
	}

	if res.StatusCode >= 400 {
		msg := res.Status
		if body.Error != nil && body.Error.Message != "" {
			msg = body.Error.Message
		}
		return "", errors.Errorf("completion service responded with %s", msg)
	}
	if len(body.Choices) == 0 {
		return "", errors.New("completion service returned no choices")
	}

	return body.Choices[0].Message.Content, nil
}
