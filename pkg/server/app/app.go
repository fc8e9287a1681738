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
	"github.com/leaflog/leaflog/pkg/clock"
	"github.com/leaflog/leaflog/pkg/server/storage"
	"github.com/leaflog/leaflog/pkg/server/suggest"
	"github.com/leaflog/leaflog/pkg/server/token"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyTokenIssuer is an error for a missing token signing secret
	ErrEmptyTokenIssuer = errors.New("No token secret was provided")
)

// App is an application context
type App struct {
	DB                    *gorm.DB
	Clock                 clock.Clock
	Tokens                token.Issuer
	Files                 *storage.FileStore
	Suggest               *suggest.Client
	AdminRegistrationCode string
	DisableRegistration   bool
	WebURL                string
	Port                  string
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if !a.Tokens.Configured() {
		return ErrEmptyTokenIssuer
	}

	return nil
}
