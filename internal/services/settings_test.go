// settings_test.go
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
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/localnerve/jobdash/internal/models"
	"github.com/localnerve/jobdash/internal/testsupport"
	"github.com/localnerve/jobdash/internal/types"
)

func TestGetSettingsDefaults(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")

	settings, err := GetSettings(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.DashboardDays != 30 || settings.RecentLimit != 5 || settings.UpcomingLimit != 5 {
		t.Errorf("Unexpected defaults %+v", settings)
	}
	if settings.HiddenColumns == nil || len(settings.HiddenColumns) != 0 {
		t.Errorf("Expected no hidden columns, got %v", settings.HiddenColumns)
	}
}

func TestSaveSettingsAcceptsFormValues(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	var input SettingsInput
	body := `{"dashboardDays": "14", "recentLimit": 8, "hiddenColumns": "notes"}`
	if err := json.Unmarshal([]byte(body), &input); err != nil {
		t.Fatalf("Failed to decode input: %v", err)
	}

	saved, err := SaveSettings(ctx, db, "u1", input)
	if err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if saved.DashboardDays != 14 || saved.RecentLimit != 8 || saved.UpcomingLimit != 5 {
		t.Errorf("Unexpected saved settings %+v", saved)
	}

	loaded, err := GetSettings(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if loaded.DashboardDays != 14 || loaded.RecentLimit != 8 {
		t.Errorf("Expected stored values, got %+v", loaded)
	}
	if len(loaded.HiddenColumns) != 1 || loaded.HiddenColumns[0] != "notes" {
		t.Errorf("Expected hidden notes column, got %v", loaded.HiddenColumns)
	}

	// A second save updates the same row and keeps untouched values
	saved, err = SaveSettings(ctx, db, "u1", SettingsInput{UpcomingLimit: 10})
	if err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if saved.DashboardDays != 14 || saved.UpcomingLimit != 10 || len(saved.HiddenColumns) != 1 {
		t.Errorf("Expected a merged update, got %+v", saved)
	}
	if n := testsupport.Count(t, db, &models.UserSettings{}, "user_id = ?", "u1"); n != 1 {
		t.Errorf("Expected one settings row, got %d", n)
	}
}

func TestSaveSettingsValidation(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	cols := types.FlexList[string]{"companyName", "salary"}
	cases := []struct {
		name  string
		input SettingsInput
		field string
	}{
		{"days too large", SettingsInput{DashboardDays: 400}, "dashboardDays"},
		{"negative limit", SettingsInput{RecentLimit: -1}, "recentLimit"},
		{"limit too large", SettingsInput{UpcomingLimit: 101}, "upcomingLimit"},
		{"unknown column", SettingsInput{HiddenColumns: &cols}, "hiddenColumns[1]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SaveSettings(ctx, db, "u1", tc.input)
			var verr *types.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("Expected field %s in %v", tc.field, verr.Fields)
			}
		})
	}

	var bad SettingsInput
	if err := json.Unmarshal([]byte(`{"dashboardDays": "many"}`), &bad); err == nil {
		t.Error("Expected decode error for a non-numeric string")
	}
}

func TestTrackerColumnsMatchValidation(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")

	all := types.FlexList[string](append(TrackerColumns, TrackerColumns[0]))
	saved, err := SaveSettings(context.Background(), db, "u1", SettingsInput{HiddenColumns: &all})
	if err != nil {
		t.Fatalf("Every tracker column should be accepted: %v", err)
	}
	if strings.Join(saved.HiddenColumns, ",") != strings.Join(TrackerColumns, ",") {
		t.Errorf("Expected duplicates removed, got %v", saved.HiddenColumns)
	}
}

func TestGetSettingsIgnoresStoredValuesOutOfRange(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")

	doc, err := models.NewDocument(map[string]int{"dashboardDays": 9999, "recentLimit": 7})
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}
	if err := db.Create(&models.UserSettings{UserID: "u1", Settings: doc}).Error; err != nil {
		t.Fatalf("Failed to store settings: %v", err)
	}

	settings, err := GetSettings(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if settings.DashboardDays != 30 || settings.RecentLimit != 7 || settings.UpcomingLimit != 5 {
		t.Errorf("Expected defaults for invalid values, got %+v", settings)
	}
}
