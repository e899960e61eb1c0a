// applications.go
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

// ApplicationHandler handles job application routes
type ApplicationHandler struct {
	DB *gorm.DB
}

// ListApplications handles GET /api/applications
// @Summary List applications
// @Description List the signed-in user's applications, newest first
// @Tags Applications
// @Produce json
// @Param status query string false "Exact status filter"
// @Param search query string false "Case-insensitive company name search"
// @Success 200 {array} models.Application
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /applications [get]
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	apps, err := services.ListApplications(c.UserContext(), h.DB, uid, services.ApplicationFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	})
	if err != nil {
		return handleError(c, err, "listApplications", "")
	}

	return c.Status(fiber.StatusOK).JSON(apps)
}

// GetApplication handles GET /api/applications/:id
// @Summary Get an application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} models.Application
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	app, err := services.GetApplication(c.UserContext(), h.DB, uid, c.Params("id"))
	if err != nil {
		return handleError(c, err, "getApplication", "Application not found")
	}

	return c.Status(fiber.StatusOK).JSON(app)
}

// CreateApplication handles POST /api/applications
// @Summary Create an application
// @Description Create an application. Status defaults to TO_APPLY.
// @Tags Applications
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body services.CreateApplicationInput true "Application"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /applications [post]
func (h *ApplicationHandler) CreateApplication(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var input services.CreateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	app, err := services.CreateApplication(c.UserContext(), h.DB, uid, input)
	if err != nil {
		return handleError(c, err, "createApplication", "")
	}

	return utils.MutationSuccessResponse(c, fiber.StatusCreated, app.ID, 1)
}

// UpdateApplication handles PATCH /api/applications/:id
// @Summary Update an application
// @Description Partial update. Omitted fields are unchanged, empty optional fields are cleared. A status change is recorded in the history.
// @Tags Applications
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id path string true "Application ID"
// @Param body body services.UpdateApplicationInput true "Fields to change"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /applications/{id} [patch]
func (h *ApplicationHandler) UpdateApplication(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var input services.UpdateApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	app, err := services.UpdateApplication(c.UserContext(), h.DB, uid, c.Params("id"), input)
	if err != nil {
		return handleError(c, err, "updateApplication", "Application not found")
	}

	return utils.MutationSuccessResponse(c, fiber.StatusOK, app.ID, 1)
}

// DeleteApplication handles DELETE /api/applications/:id
// @Summary Delete an application
// @Description Delete an application with its history, referrals and action items
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /applications/{id} [delete]
func (h *ApplicationHandler) DeleteApplication(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	id := c.Params("id")
	affected, err := services.DeleteApplication(c.UserContext(), h.DB, uid, id)
	if err != nil {
		return handleError(c, err, "deleteApplication", "Application not found")
	}

	return utils.MutationSuccessResponse(c, fiber.StatusOK, id, affected)
}

// ListApplicationHistory handles GET /api/applications/:id/history
// @Summary Application status history
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {array} models.ApplicationHistory
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /applications/{id}/history [get]
func (h *ApplicationHandler) ListApplicationHistory(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	history, err := services.ListApplicationHistory(c.UserContext(), h.DB, uid, c.Params("id"))
	if err != nil {
		return handleError(c, err, "listApplicationHistory", "Application not found")
	}

	return c.Status(fiber.StatusOK).JSON(history)
}
