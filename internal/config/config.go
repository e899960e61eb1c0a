// config.go
//
// Job application tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of jobdash.
// jobdash is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// jobdash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with jobdash.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port       string
	PublicURL  string
	CORSOrigin string

	// Database configuration
	DBType            string // mysql, mariadb, postgres, sqlite, sqlite3, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBSlowQueryMs     int

	// Session configuration
	AuthProvider  string // authorizer, database
	AuthzURL      string
	AuthzClientID string
	SessionCookie string
	SignInURL     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		PublicURL:         getEnv("PUBLIC_URL", ""),
		CORSOrigin:        getEnv("CORS_ORIGIN", ""),
		DBType:            getEnv("DB_TYPE", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", ""),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBSlowQueryMs:     getEnvAsInt("DB_SLOW_QUERY_MS", 200),
		AuthProvider:      getEnv("AUTH_PROVIDER", "authorizer"),
		AuthzURL:          getEnv("AUTHZ_URL", ""),
		AuthzClientID:     getEnv("AUTHZ_CLIENT_ID", ""),
		SessionCookie:     getEnv("SESSION_COOKIE", "cookie_session"),
		SignInURL:         getEnv("SIGN_IN_URL", ""),
	}

	if cfg.DBPort == "" {
		cfg.DBPort = defaultPort(cfg.DBType)
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	switch cfg.AuthProvider {
	case "authorizer":
		if cfg.AuthzURL == "" {
			return nil, fmt.Errorf("AUTHZ_URL is required")
		}
		if cfg.AuthzClientID == "" {
			return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required")
		}
	case "database":
	default:
		return nil, fmt.Errorf("unsupported AUTH_PROVIDER: %s", cfg.AuthProvider)
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a .env file without overriding the existing environment
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func defaultPort(dbType string) string {
	switch dbType {
	case "mysql", "mariadb":
		return "3306"
	case "postgres", "postgresql":
		return "5432"
	case "sqlserver", "mssql":
		return "1433"
	}
	return ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
