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
	"os"
	"path/filepath"
	"strings"

	"github.com/leaflog/leaflog/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Book{},
		&Author{},
		&Genre{},
		&UserBook{},
		&Review{},
		&Session{},
	); err != nil {
		panic(err)
	}
}

// Open initializes the database connection. A connection string with a
// postgres scheme opens a Postgres connection. Anything else is treated
// as a path to a SQLite database file.
func Open(conn string) *gorm.DB {
	if strings.HasPrefix(conn, "postgres://") || strings.HasPrefix(conn, "postgresql://") {
		db, err := gorm.Open(postgres.Open(conn), &gorm.Config{})
		if err != nil {
			panic(errors.Wrap(err, "opening postgres connection"))
		}

		return db
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(conn)
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(errors.Wrapf(err, "creating database directory at %s", dir))
	}

	db, err := gorm.Open(sqlite.Open(conn), &gorm.Config{})
	if err != nil {
		panic(errors.Wrap(err, "opening database conection"))
	}

	return db
}

// IsSQLite checks if the given connection is backed by SQLite
func IsSQLite(db *gorm.DB) bool {
	return db.Dialector.Name() == "sqlite"
}

// StartMaintenance schedules periodic database maintenance. On SQLite it
// checkpoints the WAL to prevent the log file from growing unbounded, and
// vacuums daily to reclaim space. The returned cron can be stopped by the
// caller.
func StartMaintenance(db *gorm.DB) *cron.Cron {
	c := cron.New()

	if IsSQLite(db) {
		c.AddFunc("@every 5m", func() {
			if err := db.Exec("PRAGMA wal_checkpoint(TRUNCATE);").Error; err != nil {
				log.ErrorWrap(err, "checkpointing WAL")
			}
		})
		c.AddFunc("@daily", func() {
			if err := db.Exec("VACUUM;").Error; err != nil {
				log.ErrorWrap(err, "vacuuming database")
			}
		})
	}

	c.Start()

	return c
}
