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

package cmd

import (
	"fmt"
	"io"

	"github.com/leaflog/leaflog/pkg/clock"
	"github.com/leaflog/leaflog/pkg/prompt"
	"github.com/leaflog/leaflog/pkg/server/app"
	"github.com/leaflog/leaflog/pkg/server/config"
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/storage"
	"github.com/leaflog/leaflog/pkg/server/suggest"
	"github.com/leaflog/leaflog/pkg/server/token"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func initDB(conn string) *gorm.DB {
	db := database.Open(conn)
	database.InitSchema(db)

	return db
}

func initApp(cfg config.Config) (app.App, error) {
	db := initDB(cfg.DBConn())

	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return app.App{}, errors.Wrap(err, "initializing file store")
	}

	return app.App{
		DB:                    db,
		Clock:                 clock.New(),
		Tokens:                token.NewIssuer(cfg.TokenSecret),
		Files:                 files,
		Suggest:               suggest.NewClient(cfg.SuggestAPIURL, cfg.SuggestAPIKey),
		AdminRegistrationCode: cfg.AdminRegistrationCode,
		DisableRegistration:   cfg.DisableRegistration,
		WebURL:                cfg.WebURL,
		Port:                  cfg.Port,
	}, nil
}

// openUserAdminApp opens a minimal app for local user administration.
// The token issuer and file store are not needed offline.
func openUserAdminApp(dbPath string) (*app.App, func()) {
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}

	db := initDB(dbPath)

	a := app.App{
		DB:    db,
		Clock: clock.New(),
	}

	cleanup := func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	return &a, cleanup
}

// confirm prompts for user input to confirm a choice
func confirm(r io.Reader, question string, optimistic bool) (bool, error) {
	message := prompt.FormatQuestion(question, optimistic)
	fmt.Print(message + " ")

	confirmed, err := prompt.ReadYesNo(r, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "reading stdin")
	}

	return confirmed, nil
}
