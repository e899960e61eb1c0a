// routes.go
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

package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jobdash/internal/config"
	"github.com/localnerve/jobdash/internal/types"
	"github.com/localnerve/jobdash/internal/utils"
	"gorm.io/gorm"
)

// Register mounts the API routes on api. Everything but health sits behind auth.
func Register(api fiber.Router, cfg *config.Config, db *gorm.DB, auth fiber.Handler) {
	health := &HealthHandler{Config: cfg, DB: db}
	applications := &ApplicationHandler{DB: db}
	referrals := &ReferralHandler{DB: db}
	dashboard := &DashboardHandler{DB: db}
	settings := &SettingsHandler{DB: db}

	api.Get("/health", health.HealthCheck)

	api.Get("/applications", auth, applications.ListApplications)
	api.Post("/applications", auth, applications.CreateApplication)
	api.Get("/applications/:id", auth, applications.GetApplication)
	api.Patch("/applications/:id", auth, applications.UpdateApplication)
	api.Delete("/applications/:id", auth, applications.DeleteApplication)
	api.Get("/applications/:id/history", auth, applications.ListApplicationHistory)
	api.Get("/applications/:id/referrals", auth, referrals.ListReferrals)

	api.Post("/referrals", auth, referrals.CreateReferral)
	api.Delete("/referrals/:id", auth, referrals.DeleteReferral)

	api.Get("/dashboard", auth, dashboard.GetDashboard)

	api.Get("/settings", auth, settings.GetSettings)
	api.Put("/settings", auth, settings.SaveSettings)
}

// NotFound is the fallback for unmatched routes
func NotFound(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "[404] Resource Not Found", fiber.StatusNotFound, "")
}

// ErrorHandler renders errors returned from middleware and handlers in the error envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	var cerr *types.CustomError
	var ferr *fiber.Error
	var verr *types.ValidationError

	switch {
	case errors.As(err, &cerr):
		return utils.ErrorResponse(c, cerr.Message, cerr.Code, cerr.Type)
	case errors.As(err, &verr):
		return utils.ValidationErrorResponse(c, verr)
	case errors.As(err, &ferr):
		return utils.ErrorResponse(c, ferr.Message, ferr.Code, "")
	}

	log.Printf("Unhandled error on %s: %v", c.OriginalURL(), err)
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "unknown")
}
