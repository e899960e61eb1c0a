// main.go
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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/jobdash/internal/config"
	"github.com/localnerve/jobdash/internal/database"
	"github.com/localnerve/jobdash/internal/seed"
	"github.com/localnerve/jobdash/internal/testsupport"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var withSeed bool
	flag.BoolVar(&withSeed, "seed", false, "seed demo data for a test account")
	flag.Parse()

	usage := `
Run the jobdash database (and optionally Authorizer) test containers with the
environment variables from the .env file, then print the environment that
points the server at them.

Usage:

testcontainers [-h] [-seed] [-f ENV_FILE_PATH]

Environment:
  DB_TYPE        postgres, mariadb or mysql (default postgres)
  DB_IMAGE       database image (default postgres:16-alpine)
  AUTHZ_IMAGE    Authorizer image, starts Authorizer when set

example
  testcontainers -seed -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := config.LoadEnvFile(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	tc, err := testsupport.StartContainers(ctx, testsupport.ContainerOptions{
		DBType:           getEnv("DB_TYPE", "postgres"),
		DBImage:          getEnv("DB_IMAGE", "postgres:16-alpine"),
		Database:         getEnv("DB_DATABASE", "jobdash"),
		User:             getEnv("DB_USER", "jobdash"),
		Password:         getEnv("DB_PASSWORD", testsupport.GeneratePassword()),
		RootPassword:     getEnv("DB_ROOT_PASSWORD", testsupport.GeneratePassword()),
		AuthzImage:       os.Getenv("AUTHZ_IMAGE"),
		AuthzClientID:    getEnv("AUTHZ_CLIENT_ID", "jobdash-client"),
		AuthzAdminSecret: getEnv("AUTHZ_ADMIN_SECRET", testsupport.GeneratePassword()),
		AuthzPort:        getEnv("AUTHZ_PORT", "9010"),
		Debug:            os.Getenv("DEBUG") != "",
	})
	if err != nil {
		log.Fatalf("Failed to create test containers: %v\n", err)
	}
	defer func() {
		log.Println("Terminating test containers...")
		if err := tc.Terminate(context.Background()); err != nil {
			log.Printf("Failed to terminate test containers: %v", err)
		}
	}()

	cfg := tc.Config()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Printf("Failed to run migrations: %v", err)
		return
	}

	if withSeed {
		userID := "demo-user"
		email := "demo@example.com"
		if cfg.AuthzURL != "" {
			account, err := testsupport.AcquireAccount(cfg.AuthzURL, cfg.AuthzClientID, email, testsupport.GeneratePassword(), []string{"user"})
			if err != nil {
				log.Printf("Failed to acquire an Authorizer account: %v", err)
				return
			}
			userID = account.UserID
			fmt.Printf("ACCESS_TOKEN=%s\n", account.AccessToken)
		}
		result, err := seed.Run(ctx, db, userID, email)
		if err != nil {
			log.Printf("Failed to seed: %v", err)
			return
		}
		log.Printf("Seeded %d applications for %s", result.Applications, userID)
	}

	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\nAUTH_PROVIDER=%s\n",
		cfg.DBType, cfg.DBHost, cfg.DBPort, cfg.DBDatabase, cfg.DBUser, cfg.DBPassword, cfg.AuthProvider)
	if cfg.AuthzURL != "" {
		fmt.Printf("AUTHZ_URL=%s\nAUTHZ_CLIENT_ID=%s\n", cfg.AuthzURL, cfg.AuthzClientID)
	}

	<-ctx.Done()
	log.Printf("Received signal, shutting down")
}
