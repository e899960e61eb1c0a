// response.go
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

package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/jobdash/internal/types"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error response
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(ErrorResponseStruct{
		Status:    status,
		Message:   message,
		Ok:        false,
		Timestamp: timestamp(),
		URL:       c.OriginalURL(),
		Type:      errorType,
	})
}

// ValidationErrorResponse sends a 400 with the failing fields
func ValidationErrorResponse(c *fiber.Ctx, verr *types.ValidationError) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponseStruct{
		Status:    fiber.StatusBadRequest,
		Message:   "Invalid input",
		Ok:        false,
		Timestamp: timestamp(),
		URL:       c.OriginalURL(),
		Type:      "data.validation.input",
		Fields:    verr.Fields,
	})
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, "data.notfound")
}

// MutationSuccessResponse sends a success response for mutations (POST/PATCH/PUT/DELETE)
func MutationSuccessResponse(c *fiber.Ctx, status int, id string, affectedRows int64) error {
	return c.Status(status).JSON(SuccessResponseStruct{
		Message:      "Success",
		Ok:           true,
		ID:           id,
		Timestamp:    timestamp(),
		AffectedRows: affectedRows,
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int               `json:"status"`
	Message   string            `json:"message"`
	Ok        bool              `json:"ok"`
	Timestamp string            `json:"timestamp"`
	URL       string            `json:"url"`
	Type      string            `json:"type,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message      string `json:"message"`
	Ok           bool   `json:"ok"`
	ID           string `json:"id,omitempty"`
	Timestamp    string `json:"timestamp"`
	AffectedRows int64  `json:"affectedRows"`
}
