// dashboard.go
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
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jobdash/internal/services"
	"github.com/localnerve/jobdash/internal/types"
	"gorm.io/gorm"
)

// DashboardHandler serves the dashboard view model
type DashboardHandler struct {
	DB *gorm.DB
}

// GetDashboard handles GET /api/dashboard
// @Summary Dashboard
// @Description Metrics, chart series and lists for the signed-in user. Sizes come from the user's settings unless overridden.
// @Tags Dashboard
// @Produce json
// @Param days query int false "Days in the applications over time series (1-365)"
// @Success 200 {object} services.Dashboard
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	settings, err := services.GetSettings(c.UserContext(), h.DB, uid)
	if err != nil {
		return handleError(c, err, "getDashboard", "")
	}
	opts := settings.DashboardOptions()

	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return handleError(c, types.NewValidationError("days", "Must be a whole number"), "getDashboard", "")
		}
		opts.Days = days
	}

	dashboard, err := services.GetDashboard(c.UserContext(), h.DB, uid, opts)
	if err != nil {
		return handleError(c, err, "getDashboard", "")
	}

	return c.Status(fiber.StatusOK).JSON(dashboard)
}
