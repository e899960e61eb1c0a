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

//go:generate swag init -d ../.. -g cmd/server/main.go -o ../../docs/api --outputTypes go --parseInternal

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/jobdash/internal/config"
	"github.com/localnerve/jobdash/internal/database"
	"github.com/localnerve/jobdash/internal/handlers"
	"github.com/localnerve/jobdash/internal/middleware"
	"github.com/localnerve/jobdash/internal/services"
	"gorm.io/gorm"

	_ "github.com/localnerve/jobdash/docs/api" // Swagger docs
)

// @title jobdash API
// @version 1.0.0
// @description Job application tracker with referrals, action items and a dashboard
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/jobdash
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	if path := os.Getenv("ENV_FILE"); path != "" {
		if err := config.LoadEnvFile(path); err != nil {
			log.Fatalf("Failed to load env file: %v", err)
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	provider, err := services.NewSessionProvider(cfg, db)
	if err != nil {
		log.Fatalf("Failed to create session provider: %v", err)
	}

	app := newApp(cfg, db, provider)

	log.Printf("Sessions resolved by the %s provider", cfg.AuthProvider)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// newApp builds the Fiber app with the global middleware, metrics, docs and API routes
func newApp(cfg *config.Config, db *gorm.DB, provider services.SessionProvider) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	if cfg.CORSOrigin != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigin,
			AllowCredentials: cfg.CORSOrigin != "*",
		}))
	}
	app.Use(etag.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("jobdash")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthUser(provider, middleware.AuthOptions{
		Cookie:    cfg.SessionCookie,
		SignInURL: cfg.SignInURL,
	})
	handlers.Register(app.Group("/api"), cfg, db, auth)

	app.Use(handlers.NotFound)

	return app
}
