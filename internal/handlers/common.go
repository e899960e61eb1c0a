// common.go
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
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jobdash/internal/middleware"
	"github.com/localnerve/jobdash/internal/types"
	"github.com/localnerve/jobdash/internal/utils"
)

// userID returns the signed-in user's id. Routes are mounted behind middleware.AuthUser.
func userID(c *fiber.Ctx) (string, error) {
	p, ok := middleware.Principal(c)
	if !ok || p.UserID == "" {
		return "", &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "No signed-in user",
			Type:    "data.authorization.user",
		}
	}
	return p.UserID, nil
}

// badBody responds to a body that could not be decoded as JSON or form data
func badBody(c *fiber.Ctx, err error) error {
	return utils.ErrorResponse(c, fmt.Sprintf("Invalid request body: %v", err), fiber.StatusBadRequest, "data.validation.body")
}

// handleError maps service errors to the error envelope
func handleError(c *fiber.Ctx, err error, operation string, notFound string) error {
	var verr *types.ValidationError
	var cerr *types.CustomError

	switch {
	case errors.As(err, &verr):
		return utils.ValidationErrorResponse(c, verr)
	case errors.Is(err, types.ErrNotFound):
		return utils.NotFoundResponse(c, notFound)
	case errors.Is(err, types.ErrUnauthorized):
		return utils.ErrorResponse(c, "Unauthorized", fiber.StatusUnauthorized, "data.authorization.user")
	case errors.As(err, &cerr):
		return utils.ErrorResponse(c, cerr.Message, cerr.Code, cerr.Type)
	}

	log.Printf("%s failed: %v", operation, err)
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, operation)
}
