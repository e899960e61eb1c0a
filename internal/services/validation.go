// validation.go
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

package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/localnerve/jobdash/internal/models"
	"github.com/localnerve/jobdash/internal/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// requiredMessages are the messages reported when a required field is missing or empty
var requiredMessages = map[string]string{
	"companyName":   "Company name is required",
	"role":          "Role is required",
	"name":          "Referrer name is required",
	"applicationId": "Application ID is required",
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})

		if err := validate.RegisterValidation("application_status", func(fl validator.FieldLevel) bool {
			return models.ApplicationStatus(fl.Field().String()).Valid()
		}); err != nil {
			panic(err)
		}
	})
	return validate
}

// validateStruct runs the struct tags and converts failures to a types.ValidationError
func validateStruct(input interface{}) error {
	err := validatorInstance().Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("validation could not run: %w", err)
	}

	verr := &types.ValidationError{Fields: make(map[string]string, len(fieldErrors))}
	for _, fe := range fieldErrors {
		name := fe.Field()
		if _, exists := verr.Fields[name]; !exists {
			verr.Fields[name] = fieldMessage(fe)
		}
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[fe.Field()]; ok {
			return msg
		}
		return "Required"
	case "min":
		if msg, ok := requiredMessages[fe.Field()]; ok && fe.Kind() == reflect.String {
			return msg
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "url", "http_url":
		return "Invalid URL"
	case "application_status":
		return "Invalid status"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	}
	return fmt.Sprintf("Invalid value (%s)", fe.Tag())
}

// trimmed returns s without surrounding whitespace, or nil when nothing is left
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// trimmedOrClear trims s and reports whether an empty value asks to clear the column
func trimmedOrClear(s *string) (*string, bool) {
	if s == nil {
		return nil, false
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil, true
	}
	return &v, false
}
