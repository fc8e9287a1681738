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
	"net/http"

	"github.com/joho/godotenv"
	"github.com/leaflog/leaflog/pkg/server/buildinfo"
	"github.com/leaflog/leaflog/pkg/server/config"
	"github.com/leaflog/leaflog/pkg/server/controllers"
	"github.com/leaflog/leaflog/pkg/server/database"
	"github.com/leaflog/leaflog/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type startFlags struct {
	port                  string
	webURL                string
	dbPath                string
	databaseURL           string
	tokenSecret           string
	adminRegistrationCode string
	uploadDir             string
	suggestAPIURL         string
	suggestAPIKey         string
	disableRegistration   bool
	logLevel              string
	configFile            string
	envFile               string
}

func newStartCmd() *cobra.Command {
	var flags startFlags

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.port, "port", "", "server port (env: PORT, default: 3001)")
	f.StringVar(&flags.webURL, "webUrl", "", "full URL to the server without a trailing slash (env: WebURL)")
	f.StringVar(&flags.dbPath, "dbPath", "", "path to the SQLite database file (env: DBPath)")
	f.StringVar(&flags.databaseURL, "databaseUrl", "", "postgres connection string, used instead of dbPath (env: DATABASE_URL)")
	f.StringVar(&flags.tokenSecret, "tokenSecret", "", "secret for signing credential tokens (env: TOKEN_SECRET)")
	f.StringVar(&flags.adminRegistrationCode, "adminRegistrationCode", "", "code required for admin registration (env: ADMIN_REGISTRATION_CODE)")
	f.StringVar(&flags.uploadDir, "uploadDir", "", "directory for uploaded cover images (env: UPLOAD_DIR)")
	f.StringVar(&flags.suggestAPIURL, "suggestApiUrl", "", "base URL of the book suggestion API (env: SUGGEST_API_URL)")
	f.StringVar(&flags.suggestAPIKey, "suggestApiKey", "", "API key for the book suggestion API (env: SUGGEST_API_KEY)")
	f.BoolVar(&flags.disableRegistration, "disableRegistration", false, "disable user registration (env: DisableRegistration)")
	f.StringVar(&flags.logLevel, "logLevel", "", "log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")
	f.StringVar(&flags.configFile, "configFile", "", "path to a YAML configuration file (env: CONFIG_FILE)")
	f.StringVar(&flags.envFile, "envFile", ".env", "path to an env file to load")

	return cmd
}

func runStart(flags startFlags) error {
	if err := godotenv.Load(flags.envFile); err == nil {
		log.WithFields(log.Fields{
			"path": flags.envFile,
		}).Debug("loaded env file")
	}

	cfg, err := config.New(config.Params{
		Port:                  flags.port,
		WebURL:                flags.webURL,
		DBPath:                flags.dbPath,
		DatabaseURL:           flags.databaseURL,
		TokenSecret:           flags.tokenSecret,
		AdminRegistrationCode: flags.adminRegistrationCode,
		UploadDir:             flags.uploadDir,
		SuggestAPIURL:         flags.suggestAPIURL,
		SuggestAPIKey:         flags.suggestAPIKey,
		DisableRegistration:   flags.disableRegistration,
		LogLevel:              flags.logLevel,
		ConfigFile:            flags.configFile,
	})
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	log.SetLevel(cfg.LogLevel)

	a, err := initApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		sqlDB, err := a.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	maintenance := database.StartMaintenance(a.DB)
	defer maintenance.Stop()

	ctl := controllers.New(&a)
	rc := controllers.RouteConfig{
		APIRoutes:   controllers.NewAPIRoutes(&a, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&a, rc)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
	}).Info("Leaflog server starting")

	return http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r)
}
