// validation_test.go
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
	"strings"
	"testing"

	"github.com/localnerve/jobdash/internal/types"
)

func TestValidateStructReportsJSONNames(t *testing.T) {
	err := validateStruct(&CreateReferralInput{Name: strings.Repeat("x", 300)})
	verr, ok := err.(*types.ValidationError)
	if !ok {
		t.Fatalf("Expected *types.ValidationError, got %T", err)
	}
	if verr.Fields["applicationId"] != "Application ID is required" {
		t.Errorf("Unexpected applicationId message %q", verr.Fields["applicationId"])
	}
	if verr.Fields["name"] != "Must be at most 255 characters" {
		t.Errorf("Unexpected name message %q", verr.Fields["name"])
	}
}

func TestTrimmedOrClear(t *testing.T) {
	if v, clear := trimmedOrClear(nil); v != nil || clear {
		t.Error("nil should mean unchanged")
	}
	if v, clear := trimmedOrClear(strPtr("  ")); v != nil || !clear {
		t.Error("blank should clear")
	}
	if v, clear := trimmedOrClear(strPtr(" x ")); v == nil || *v != "x" || clear {
		t.Error("value should be trimmed")
	}
}
