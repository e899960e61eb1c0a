// applications_test.go
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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/jobdash/internal/models"
	"github.com/localnerve/jobdash/internal/testsupport"
	"github.com/localnerve/jobdash/internal/types"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func statusPtr(s models.ApplicationStatus) *models.ApplicationStatus { return &s }

func TestCreateApplicationDefaults(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	app, err := CreateApplication(ctx, db, "u1", CreateApplicationInput{
		CompanyName: "Acme",
		Role:        "SWE",
		Location:    strPtr(""),
		JobURL:      strPtr(""),
	})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}
	if app.Status != models.StatusToApply {
		t.Errorf("Expected status TO_APPLY, got %s", app.Status)
	}
	if app.UserID != "u1" {
		t.Errorf("Expected owner u1, got %s", app.UserID)
	}
	if len(app.ID) != 36 {
		t.Errorf("Expected a UUID id, got %q", app.ID)
	}

	var stored models.Application
	if err := db.First(&stored, "id = ?", app.ID).Error; err != nil {
		t.Fatalf("Failed to load application: %v", err)
	}
	if stored.Location != nil || stored.JobURL != nil {
		t.Errorf("Expected empty optional strings stored as NULL, got %v %v", stored.Location, stored.JobURL)
	}
	if n := testsupport.Count(t, db, &models.ApplicationHistory{}, "application_id = ?", app.ID); n != 0 {
		t.Errorf("Expected no history on create, got %d", n)
	}
}

func TestCreateApplicationValidation(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateApplicationInput
		field string
		msg   string
	}{
		{"missing company", CreateApplicationInput{Role: "SWE"}, "companyName", "Company name is required"},
		{"blank company", CreateApplicationInput{CompanyName: "   ", Role: "SWE"}, "companyName", "Company name is required"},
		{"missing role", CreateApplicationInput{CompanyName: "Acme"}, "role", "Role is required"},
		{"bad url", CreateApplicationInput{CompanyName: "Acme", Role: "SWE", JobURL: strPtr("not a url")}, "jobUrl", "Invalid URL"},
		{"bad status", CreateApplicationInput{CompanyName: "Acme", Role: "SWE", Status: "HIRED"}, "status", "Invalid status"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateApplication(ctx, db, "u1", tc.input)
			var verr *types.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if verr.Fields[tc.field] != tc.msg {
				t.Errorf("Expected %s message %q, got %q", tc.field, tc.msg, verr.Fields[tc.field])
			}
		})
	}

	if n := testsupport.Count(t, db, &models.Application{}, "user_id = ?", "u1"); n != 0 {
		t.Errorf("Expected nothing written on validation failure, got %d rows", n)
	}
}

func TestUpdateApplicationHistory(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	app, err := CreateApplication(ctx, db, "u1", CreateApplicationInput{CompanyName: "Acme", Role: "SWE"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	// Non-status change writes no history
	if _, err := UpdateApplication(ctx, db, "u1", app.ID, UpdateApplicationInput{Notes: strPtr("call back")}); err != nil {
		t.Fatalf("UpdateApplication failed: %v", err)
	}
	if n := testsupport.Count(t, db, &models.ApplicationHistory{}, "application_id = ?", app.ID); n != 0 {
		t.Fatalf("Expected no history, got %d", n)
	}

	// Same status writes no history
	if _, err := UpdateApplication(ctx, db, "u1", app.ID, UpdateApplicationInput{Status: statusPtr(models.StatusToApply)}); err != nil {
		t.Fatalf("UpdateApplication failed: %v", err)
	}
	if n := testsupport.Count(t, db, &models.ApplicationHistory{}, "application_id = ?", app.ID); n != 0 {
		t.Fatalf("Expected no history for an unchanged status, got %d", n)
	}

	// Real change writes exactly one row
	updated, err := UpdateApplication(ctx, db, "u1", app.ID, UpdateApplicationInput{Status: statusPtr(models.StatusApplied)})
	if err != nil {
		t.Fatalf("UpdateApplication failed: %v", err)
	}
	if updated.Status != models.StatusApplied {
		t.Errorf("Expected APPLIED, got %s", updated.Status)
	}
	if updated.Notes == nil || *updated.Notes != "call back" {
		t.Errorf("Expected notes untouched, got %v", updated.Notes)
	}

	history, err := ListApplicationHistory(ctx, db, "u1", app.ID)
	if err != nil {
		t.Fatalf("ListApplicationHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 history row, got %d", len(history))
	}
	if history[0].FromStatus != models.StatusToApply || history[0].ToStatus != models.StatusApplied {
		t.Errorf("Unexpected transition %s -> %s", history[0].FromStatus, history[0].ToStatus)
	}
}

func TestUpdateApplicationFieldSemantics(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	app, err := CreateApplication(ctx, db, "u1", CreateApplicationInput{
		CompanyName: "Acme",
		Role:        "SWE",
		Location:    strPtr("Remote"),
		Source:      strPtr("LinkedIn"),
	})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	updated, err := UpdateApplication(ctx, db, "u1", app.ID, UpdateApplicationInput{
		Location: strPtr(""),
		Role:     strPtr("Staff SWE"),
	})
	if err != nil {
		t.Fatalf("UpdateApplication failed: %v", err)
	}
	if updated.Location != nil {
		t.Errorf("Expected location cleared, got %q", *updated.Location)
	}
	if updated.Source == nil || *updated.Source != "LinkedIn" {
		t.Errorf("Expected source untouched, got %v", updated.Source)
	}
	if updated.Role != "Staff SWE" || updated.CompanyName != "Acme" {
		t.Errorf("Unexpected row after update: %+v", updated)
	}

	_, err = UpdateApplication(ctx, db, "u1", app.ID, UpdateApplicationInput{CompanyName: strPtr("")})
	var verr *types.ValidationError
	if !errors.As(err, &verr) || verr.Fields["companyName"] != "Company name is required" {
		t.Errorf("Expected companyName validation error, got %v", err)
	}

	_, err = UpdateApplication(ctx, db, "u1", app.ID, UpdateApplicationInput{JobURL: strPtr("nope")})
	if !types.IsValidation(err) {
		t.Errorf("Expected jobUrl validation error, got %v", err)
	}
}

func TestUpdateApplicationNotOwned(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	testsupport.CreateUser(t, db, "u2")
	ctx := context.Background()

	app, err := CreateApplication(ctx, db, "u1", CreateApplicationInput{CompanyName: "Acme", Role: "SWE"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	_, err = UpdateApplication(ctx, db, "u2", app.ID, UpdateApplicationInput{Status: statusPtr(models.StatusOffer)})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user's application, got %v", err)
	}
	_, err = UpdateApplication(ctx, db, "u1", "missing", UpdateApplicationInput{Notes: strPtr("x")})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing id, got %v", err)
	}

	stored, _ := GetApplication(ctx, db, "u1", app.ID)
	if stored.Status != models.StatusToApply {
		t.Errorf("Expected status unchanged, got %s", stored.Status)
	}
	if n := testsupport.Count(t, db, &models.ApplicationHistory{}, "application_id = ?", app.ID); n != 0 {
		t.Errorf("Expected no history, got %d", n)
	}
}

func TestDeleteApplicationCascades(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	app, err := CreateApplication(ctx, db, "u1", CreateApplicationInput{CompanyName: "Acme", Role: "SWE"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}
	if _, err := UpdateApplication(ctx, db, "u1", app.ID, UpdateApplicationInput{Status: statusPtr(models.StatusApplied)}); err != nil {
		t.Fatalf("UpdateApplication failed: %v", err)
	}
	if _, err := CreateReferral(ctx, db, "u1", CreateReferralInput{ApplicationID: app.ID, Name: "Jane"}); err != nil {
		t.Fatalf("CreateReferral failed: %v", err)
	}
	testsupport.CreateActionItem(t, db, app, "Follow up", models.ActionItemPending, nil)

	affected, err := DeleteApplication(ctx, db, "u1", app.ID)
	if err != nil {
		t.Fatalf("DeleteApplication failed: %v", err)
	}
	if affected != 4 {
		t.Errorf("Expected 4 affected rows, got %d", affected)
	}

	for name, model := range map[string]interface{}{
		"history":      &models.ApplicationHistory{},
		"referrals":    &models.Referral{},
		"action items": &models.ActionItem{},
	} {
		if n := testsupport.Count(t, db, model, "application_id = ?", app.ID); n != 0 {
			t.Errorf("Expected %s removed, got %d", name, n)
		}
	}
	if _, err := GetApplication(ctx, db, "u1", app.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected application gone, got %v", err)
	}
}

func TestDeleteApplicationRejectsOtherUser(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	testsupport.CreateUser(t, db, "u2")
	ctx := context.Background()

	app, err := CreateApplication(ctx, db, "u1", CreateApplicationInput{CompanyName: "Acme", Role: "SWE"})
	if err != nil {
		t.Fatalf("CreateApplication failed: %v", err)
	}

	if _, err := DeleteApplication(ctx, db, "u2", app.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for cross-user delete, got %v", err)
	}
	if _, err := GetApplication(ctx, db, "u1", app.ID); err != nil {
		t.Errorf("Expected application to survive cross-user delete: %v", err)
	}
}

func TestListApplications(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	testsupport.CreateUser(t, db, "u2")
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	testsupport.CreateApplication(t, db, "u1", "Google", models.StatusApplied, base)
	testsupport.CreateApplication(t, db, "u1", "Goldman", models.StatusToApply, base.Add(time.Minute))
	testsupport.CreateApplication(t, db, "u1", "Stripe", models.StatusApplied, base.Add(2*time.Minute))
	testsupport.CreateApplication(t, db, "u2", "Google", models.StatusApplied, base)

	all, err := ListApplications(ctx, db, "u1", ApplicationFilter{})
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 applications, got %d", len(all))
	}
	if all[0].CompanyName != "Stripe" || all[2].CompanyName != "Google" {
		t.Errorf("Expected newest first, got %s..%s", all[0].CompanyName, all[2].CompanyName)
	}

	applied, err := ListApplications(ctx, db, "u1", ApplicationFilter{Status: "APPLIED"})
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(applied) != 2 {
		t.Errorf("Expected 2 applied, got %d", len(applied))
	}

	search, err := ListApplications(ctx, db, "u1", ApplicationFilter{Search: "GO"})
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(search) != 2 {
		t.Errorf("Expected 2 matches for GO, got %d", len(search))
	}

	testsupport.CreateApplication(t, db, "u1", "100% Corp", models.StatusApplied, base.Add(3*time.Minute))
	testsupport.CreateApplication(t, db, "u1", "Yahoo!", models.StatusApplied, base.Add(4*time.Minute))
	testsupport.CreateApplication(t, db, "u1", "Acme [EU]", models.StatusApplied, base.Add(5*time.Minute))
	for _, tc := range []struct {
		search string
		want   []string
	}{
		{"%", []string{"100% Corp"}},
		{"_", []string{}},
		{"a_m", []string{}},
		{"o!", []string{"Yahoo!"}},
		{"0% c", []string{"100% Corp"}},
		{"[eu]", []string{"Acme [EU]"}},
	} {
		got, err := ListApplications(ctx, db, "u1", ApplicationFilter{Search: tc.search})
		if err != nil {
			t.Fatalf("ListApplications(%q) failed: %v", tc.search, err)
		}
		names := []string{}
		for _, app := range got {
			names = append(names, app.CompanyName)
		}
		if strings.Join(names, ",") != strings.Join(tc.want, ",") {
			t.Errorf("Search %q: expected %v, got %v", tc.search, tc.want, names)
		}
	}

	if _, err := ListApplications(ctx, db, "u1", ApplicationFilter{Status: "HIRED"}); !types.IsValidation(err) {
		t.Errorf("Expected validation error for unknown status filter, got %v", err)
	}

	empty, err := ListApplications(ctx, db, "nobody", ApplicationFilter{})
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected an empty non-nil list, got %v", empty)
	}
}

func TestListApplicationHistoryNotOwned(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	app := testsupport.CreateApplication(t, db, "u1", "Acme", models.StatusToApply, time.Now().UTC())
	if _, err := ListApplicationHistory(ctx, db, "u2", app.ID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestListApplicationHistorySameInstant(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	ctx := context.Background()

	app := testsupport.CreateApplication(t, db, "u1", "Acme", models.StatusToApply, time.Now().UTC())

	frozen := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	stuck := db.Session(&gorm.Session{NowFunc: func() time.Time { return frozen }})

	if _, err := CreateReferral(ctx, stuck, "u1", CreateReferralInput{ApplicationID: app.ID, Name: "Dana"}); err != nil {
		t.Fatalf("CreateReferral failed: %v", err)
	}
	for _, status := range []models.ApplicationStatus{models.StatusApplied, models.StatusOnlineAssessment, models.StatusRejected} {
		if _, err := UpdateApplication(ctx, stuck, "u1", app.ID, UpdateApplicationInput{Status: statusPtr(status)}); err != nil {
			t.Fatalf("UpdateApplication(%s) failed: %v", status, err)
		}
	}

	history, err := ListApplicationHistory(ctx, db, "u1", app.ID)
	if err != nil {
		t.Fatalf("ListApplicationHistory failed: %v", err)
	}
	want := []models.ApplicationStatus{
		models.StatusReferralRequested,
		models.StatusApplied,
		models.StatusOnlineAssessment,
		models.StatusRejected,
	}
	if len(history) != len(want) {
		t.Fatalf("Expected %d transitions, got %d", len(want), len(history))
	}
	for i, h := range history {
		if h.Seq != i+1 {
			t.Errorf("Transition %d: expected seq %d, got %d", i, i+1, h.Seq)
		}
		if h.ToStatus != want[i] {
			t.Errorf("Transition %d: expected %s, got %s", i, want[i], h.ToStatus)
		}
		if i > 0 && h.FromStatus != history[i-1].ToStatus {
			t.Errorf("Transition %d does not follow %s", i, history[i-1].ToStatus)
		}
	}
}
