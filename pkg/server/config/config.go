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

// Package config builds the server configuration from flags, the
// environment, an optional YAML file, and defaults, in that order of
// precedence.
package config

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/leaflog/leaflog/pkg/dirs"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// DefaultDataDir is the default directory name for Leaflog data
	DefaultDataDir = "leaflog"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, DefaultDataDir, DefaultDBFilename)
	// DefaultUploadDir is the default directory for uploaded cover images
	DefaultUploadDir = filepath.Join(dirs.DataHome, DefaultDataDir, "uploads")
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrTokenSecretMissing is an error for a configuration without a token signing secret
	ErrTokenSecretMissing = errors.New("Token secret is empty")
)

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// Config is an application configuration
type Config struct {
	AppEnv                string
	WebURL                string
	DisableRegistration   bool
	Port                  string
	DBPath                string
	DatabaseURL           string
	TokenSecret           string
	AdminRegistrationCode string
	UploadDir             string
	SuggestAPIURL         string
	SuggestAPIKey         string
	LogLevel              string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv                string
	Port                  string
	WebURL                string
	DBPath                string
	DatabaseURL           string
	TokenSecret           string
	AdminRegistrationCode string
	UploadDir             string
	SuggestAPIURL         string
	SuggestAPIKey         string
	DisableRegistration   bool
	LogLevel              string
	// ConfigFile is an optional path to a YAML file providing defaults
	// for any value not set by a flag or the environment
	ConfigFile string
}

// fileConfig is the YAML representation of a configuration file
type fileConfig struct {
	AppEnv                string `yaml:"appEnv"`
	Port                  string `yaml:"port"`
	WebURL                string `yaml:"webUrl"`
	DBPath                string `yaml:"dbPath"`
	DatabaseURL           string `yaml:"databaseUrl"`
	TokenSecret           string `yaml:"tokenSecret"`
	AdminRegistrationCode string `yaml:"adminRegistrationCode"`
	UploadDir             string `yaml:"uploadDir"`
	SuggestAPIURL         string `yaml:"suggestApiUrl"`
	SuggestAPIKey         string `yaml:"suggestApiKey"`
	DisableRegistration   bool   `yaml:"disableRegistration"`
	LogLevel              string `yaml:"logLevel"`
}

func readFile(path string) (fileConfig, error) {
	var fc fileConfig

	if path == "" {
		return fc, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fc, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, errors.Wrap(err, "parsing config file")
	}

	return fc, nil
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables, the
// config file, and defaults.
func New(p Params) (Config, error) {
	fc, err := readFile(getOrEnv(p.ConfigFile, "CONFIG_FILE", ""))
	if err != nil {
		return Config{}, err
	}

	c := Config{
		AppEnv:                getOrEnv(p.AppEnv, "APP_ENV", coalesce(fc.AppEnv, AppEnvProduction)),
		Port:                  getOrEnv(p.Port, "PORT", coalesce(fc.Port, "3001")),
		WebURL:                getOrEnv(p.WebURL, "WebURL", coalesce(fc.WebURL, "http://localhost:3001")),
		DatabaseURL:           getOrEnv(p.DatabaseURL, "DATABASE_URL", fc.DatabaseURL),
		TokenSecret:           getOrEnv(p.TokenSecret, "TOKEN_SECRET", fc.TokenSecret),
		AdminRegistrationCode: getOrEnv(p.AdminRegistrationCode, "ADMIN_REGISTRATION_CODE", fc.AdminRegistrationCode),
		UploadDir:             getOrEnv(p.UploadDir, "UPLOAD_DIR", coalesce(fc.UploadDir, DefaultUploadDir)),
		SuggestAPIURL:         getOrEnv(p.SuggestAPIURL, "SUGGEST_API_URL", fc.SuggestAPIURL),
		SuggestAPIKey:         getOrEnv(p.SuggestAPIKey, "SUGGEST_API_KEY", fc.SuggestAPIKey),
		DisableRegistration:   p.DisableRegistration || readBoolEnv("DisableRegistration") || fc.DisableRegistration,
		LogLevel:              getOrEnv(p.LogLevel, "LOG_LEVEL", coalesce(fc.LogLevel, "info")),
	}

	// A postgres connection string takes the place of the sqlite path
	if c.DatabaseURL == "" {
		c.DBPath = getOrEnv(p.DBPath, "DBPath", coalesce(fc.DBPath, DefaultDBPath))
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// DBConn returns the database connection string
func (c Config) DBConn() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}

	return c.DBPath
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}
	if c.DBPath == "" && c.DatabaseURL == "" {
		return ErrDBMissingPath
	}
	if c.TokenSecret == "" {
		return ErrTokenSecretMissing
	}

	return nil
}
