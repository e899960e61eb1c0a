// settings.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jobdash/internal/services"
	"github.com/localnerve/jobdash/internal/utils"
	"gorm.io/gorm"
)

// SettingsHandler handles user settings routes
type SettingsHandler struct {
	DB *gorm.DB
}

// GetSettings handles GET /api/settings
// @Summary Get settings
// @Description The signed-in user's settings merged over the defaults
// @Tags Settings
// @Produce json
// @Success 200 {object} services.Settings
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	settings, err := services.GetSettings(c.UserContext(), h.DB, uid)
	if err != nil {
		return handleError(c, err, "getSettings", "")
	}

	return utils.SuccessResponse(c, settings, fiber.StatusOK)
}

// SaveSettings handles PUT /api/settings
// @Summary Save settings
// @Description Merge the given values into the stored settings
// @Tags Settings
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body services.SettingsInput true "Settings"
// @Success 200 {object} services.Settings
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /settings [put]
func (h *SettingsHandler) SaveSettings(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var input services.SettingsInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	settings, err := services.SaveSettings(c.UserContext(), h.DB, uid, input)
	if err != nil {
		return handleError(c, err, "saveSettings", "")
	}

	return utils.SuccessResponse(c, settings, fiber.StatusOK)
}
