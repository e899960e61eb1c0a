// referrals.go
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

// ReferralHandler handles referral routes
type ReferralHandler struct {
	DB *gorm.DB
}

// ListReferrals handles GET /api/applications/:id/referrals
// @Summary List referrals for an application
// @Tags Referrals
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {array} models.Referral
// @Security CookieAuth
// @Router /applications/{id}/referrals [get]
func (h *ReferralHandler) ListReferrals(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	referrals, err := services.ListReferrals(c.UserContext(), h.DB, uid, c.Params("id"))
	if err != nil {
		return handleError(c, err, "listReferrals", "")
	}

	return c.Status(fiber.StatusOK).JSON(referrals)
}

// CreateReferral handles POST /api/referrals
// @Summary Record a referral
// @Description Record a referral. An application still in TO_APPLY moves to REFERRAL_REQUESTED.
// @Tags Referrals
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body services.CreateReferralInput true "Referral"
// @Success 201 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /referrals [post]
func (h *ReferralHandler) CreateReferral(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	var input services.CreateReferralInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	referral, err := services.CreateReferral(c.UserContext(), h.DB, uid, input)
	if err != nil {
		return handleError(c, err, "createReferral", "Application not found")
	}

	return utils.MutationSuccessResponse(c, fiber.StatusCreated, referral.ID, 1)
}

// DeleteReferral handles DELETE /api/referrals/:id
// @Summary Delete a referral
// @Tags Referrals
// @Produce json
// @Param id path string true "Referral ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /referrals/{id} [delete]
func (h *ReferralHandler) DeleteReferral(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return err
	}

	id := c.Params("id")
	affected, err := services.DeleteReferral(c.UserContext(), h.DB, uid, id)
	if err != nil {
		return handleError(c, err, "deleteReferral", "Referral not found")
	}

	return utils.MutationSuccessResponse(c, fiber.StatusOK, id, affected)
}
