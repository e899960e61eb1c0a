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

	"github.com/localnerve/jobdash/internal/config"
	"github.com/localnerve/jobdash/internal/database"
	"github.com/localnerve/jobdash/internal/seed"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var userID string
	flag.StringVar(&userID, "user", "", "id of the user that owns the demo data")
	var email string
	flag.StringVar(&email, "email", "", "email for the user when it has to be created")
	flag.Parse()

	usage := `
Write demo applications, history, referrals and action items for one user.

Usage:

seed [-h] [-f ENV_FILE_PATH] -user USER_ID [-email EMAIL]

example
  seed -f .env -user 3f1c2a9e -email me@example.com
`
	if showHelp || userID == "" {
		fmt.Println(usage)
		return
	}
	if email == "" {
		email = userID + "@example.com"
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := config.LoadEnvFile(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	result, err := seed.Run(context.Background(), db, userID, email)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seeded %d applications, %d history rows, %d referrals, %d action items for %s",
		result.Applications, result.History, result.Referrals, result.ActionItems, userID)
}
