// handlers_test.go
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
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/localnerve/jobdash/internal/config"
	"github.com/localnerve/jobdash/internal/middleware"
	"github.com/localnerve/jobdash/internal/models"
	"github.com/localnerve/jobdash/internal/services"
	"github.com/localnerve/jobdash/internal/testsupport"
	"github.com/localnerve/jobdash/internal/utils"
	"gorm.io/gorm"
)

// testUser signs requests in as the user named in X-Test-User
func testUser(c *fiber.Ctx) error {
	id := c.Get("X-Test-User")
	if id == "" {
		return c.Next()
	}
	middleware.SetPrincipal(c, &services.Principal{UserID: id})
	return c.Next()
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	testsupport.CreateUser(t, db, "u2")

	cfg := &config.Config{DBType: "sqlite", DBDatabase: "memory", AuthProvider: "database"}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(etag.New())
	Register(app.Group("/api"), cfg, db, testUser)
	app.Use(NotFound)
	return app, db
}

func doRequest(t *testing.T, app *fiber.App, method, target, user, contentType, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute %s %s: %v", method, target, err)
	}
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "GET", "/api/health", "", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)

	var result services.HealthCheckResult
	testsupport.ParseJSON(t, resp, &result)
	if result.Status != "healthy" || result.Database != "ok" || result.Authorizer != "disabled" {
		t.Errorf("Unexpected health result: %+v", result)
	}
}

func TestRoutesRequireUser(t *testing.T) {
	app, _ := setupApp(t)

	for _, route := range []string{"/api/applications", "/api/dashboard", "/api/settings"} {
		resp := doRequest(t, app, "GET", route, "", "", "")
		testsupport.AssertStatus(t, resp, fiber.StatusUnauthorized)
		body := testsupport.ParseError(t, resp)
		if body.Type != "data.authorization.user" {
			t.Errorf("%s: expected type data.authorization.user, got %s", route, body.Type)
		}
	}
}

func TestCreateApplicationJSON(t *testing.T) {
	app, db := setupApp(t)

	resp := doRequest(t, app, "POST", "/api/applications", "u1", fiber.MIMEApplicationJSON,
		`{"companyName":"  Acme  ","role":"SWE","jobUrl":"https://acme.example/jobs/1"}`)
	testsupport.AssertStatus(t, resp, fiber.StatusCreated)

	var body utils.SuccessResponseStruct
	testsupport.ParseJSON(t, resp, &body)
	if !body.Ok || body.AffectedRows != 1 || body.ID == "" {
		t.Fatalf("Unexpected mutation envelope: %+v", body)
	}

	var stored models.Application
	if err := db.Where("id = ?", body.ID).First(&stored).Error; err != nil {
		t.Fatalf("Created application not found: %v", err)
	}
	if stored.CompanyName != "Acme" || stored.UserID != "u1" || stored.Status != models.StatusToApply {
		t.Errorf("Unexpected stored application: %+v", stored)
	}
}

func TestCreateApplicationForm(t *testing.T) {
	app, db := setupApp(t)

	resp := doRequest(t, app, "POST", "/api/applications", "u1", fiber.MIMEApplicationForm,
		"companyName=Globex&role=Backend&status=APPLIED")
	testsupport.AssertStatus(t, resp, fiber.StatusCreated)

	if n := testsupport.Count(t, db, &models.Application{}, "company_name = ? AND status = ?", "Globex", models.StatusApplied); n != 1 {
		t.Errorf("Expected 1 form-created application, got %d", n)
	}
}

func TestCreateApplicationValidation(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "POST", "/api/applications", "u1", fiber.MIMEApplicationJSON,
		`{"companyName":"","role":"SWE","jobUrl":"not a url","status":"HIRED"}`)
	testsupport.AssertStatus(t, resp, fiber.StatusBadRequest)

	body := testsupport.ParseError(t, resp)
	if body.Type != "data.validation.input" {
		t.Errorf("Expected type data.validation.input, got %s", body.Type)
	}
	expected := map[string]string{
		"companyName": "Company name is required",
		"jobUrl":      "Invalid URL",
		"status":      "Invalid status",
	}
	for field, msg := range expected {
		if body.Fields[field] != msg {
			t.Errorf("Expected %s error %q, got %q", field, msg, body.Fields[field])
		}
	}
}

func TestCreateApplicationMalformedBody(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "POST", "/api/applications", "u1", fiber.MIMEApplicationJSON, `{"companyName":`)
	testsupport.AssertStatus(t, resp, fiber.StatusBadRequest)

	body := testsupport.ParseError(t, resp)
	if body.Type != "data.validation.body" {
		t.Errorf("Expected type data.validation.body, got %s", body.Type)
	}
}

func TestApplicationOwnership(t *testing.T) {
	app, db := setupApp(t)
	owned := testsupport.CreateApplication(t, db, "u1", "Acme", models.StatusApplied, time.Now().UTC())
	target := "/api/applications/" + owned.ID

	resp := doRequest(t, app, "GET", target, "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)

	var got models.Application
	testsupport.ParseJSON(t, resp, &got)
	if got.ID != owned.ID {
		t.Errorf("Expected application %s, got %s", owned.ID, got.ID)
	}

	for _, method := range []string{"GET", "DELETE"} {
		resp := doRequest(t, app, method, target, "u2", "", "")
		testsupport.AssertStatus(t, resp, fiber.StatusNotFound)
		body := testsupport.ParseError(t, resp)
		if body.Type != "data.notfound" {
			t.Errorf("%s: expected type data.notfound, got %s", method, body.Type)
		}
	}

	resp = doRequest(t, app, "PATCH", target, "u2", fiber.MIMEApplicationJSON, `{"status":"OFFER"}`)
	testsupport.AssertStatus(t, resp, fiber.StatusNotFound)

	if n := testsupport.Count(t, db, &models.Application{}, "id = ? AND status = ?", owned.ID, models.StatusApplied); n != 1 {
		t.Errorf("Expected application untouched by another user")
	}
}

func TestUpdateApplicationRecordsHistory(t *testing.T) {
	app, db := setupApp(t)
	owned := testsupport.CreateApplication(t, db, "u1", "Acme", models.StatusApplied, time.Now().UTC())
	target := "/api/applications/" + owned.ID

	resp := doRequest(t, app, "PATCH", target, "u1", fiber.MIMEApplicationJSON, `{"status":"ONLINE_ASSESSMENT","notes":""}`)
	testsupport.AssertStatus(t, resp, fiber.StatusOK)

	resp = doRequest(t, app, "GET", target+"/history", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)

	var history []models.ApplicationHistory
	testsupport.ParseJSON(t, resp, &history)
	if len(history) != 1 {
		t.Fatalf("Expected 1 history row, got %d", len(history))
	}
	if history[0].FromStatus != models.StatusApplied || history[0].ToStatus != models.StatusOnlineAssessment {
		t.Errorf("Unexpected history row: %+v", history[0])
	}
}

func TestDeleteApplication(t *testing.T) {
	app, db := setupApp(t)
	owned := testsupport.CreateApplication(t, db, "u1", "Acme", models.StatusApplied, time.Now().UTC())

	resp := doRequest(t, app, "DELETE", "/api/applications/"+owned.ID, "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)

	var body utils.SuccessResponseStruct
	testsupport.ParseJSON(t, resp, &body)
	if body.ID != owned.ID || body.AffectedRows != 1 {
		t.Errorf("Unexpected mutation envelope: %+v", body)
	}

	resp = doRequest(t, app, "DELETE", "/api/applications/"+owned.ID, "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusNotFound)
}

func TestListApplicationsFilters(t *testing.T) {
	app, db := setupApp(t)
	now := time.Now().UTC()
	testsupport.CreateApplication(t, db, "u1", "Acme", models.StatusApplied, now.Add(-2*time.Hour))
	testsupport.CreateApplication(t, db, "u1", "Acme Labs", models.StatusOffer, now.Add(-time.Hour))
	testsupport.CreateApplication(t, db, "u1", "Globex", models.StatusApplied, now)
	testsupport.CreateApplication(t, db, "u2", "Acme", models.StatusApplied, now)

	var apps []models.Application
	resp := doRequest(t, app, "GET", "/api/applications?search=acme", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)
	testsupport.ParseJSON(t, resp, &apps)
	if len(apps) != 2 || apps[0].CompanyName != "Acme Labs" {
		t.Errorf("Expected newest-first Acme matches for u1, got %+v", apps)
	}

	resp = doRequest(t, app, "GET", "/api/applications?status=APPLIED", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)
	testsupport.ParseJSON(t, resp, &apps)
	if len(apps) != 2 {
		t.Errorf("Expected 2 APPLIED applications, got %d", len(apps))
	}

	resp = doRequest(t, app, "GET", "/api/applications?status=HIRED", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusBadRequest)
}

func TestListApplicationsETag(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "GET", "/api/applications", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)
	tag := resp.Header.Get(fiber.HeaderETag)
	if tag == "" {
		t.Fatal("Expected an ETag on the listing")
	}

	req := httptest.NewRequest("GET", "/api/applications", nil)
	req.Header.Set("X-Test-User", "u1")
	req.Header.Set(fiber.HeaderIfNoneMatch, tag)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testsupport.AssertStatus(t, resp, fiber.StatusNotModified)

	resp = doRequest(t, app, "POST", "/api/applications", "u1", fiber.MIMEApplicationJSON, `{"companyName":"Acme","role":"SWE"}`)
	testsupport.AssertStatus(t, resp, fiber.StatusCreated)

	req = httptest.NewRequest("GET", "/api/applications", nil)
	req.Header.Set("X-Test-User", "u1")
	req.Header.Set(fiber.HeaderIfNoneMatch, tag)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	testsupport.AssertStatus(t, resp, fiber.StatusOK)
	if resp.Header.Get(fiber.HeaderETag) == tag {
		t.Error("Expected the ETag to change after a mutation")
	}
}

func TestReferralRoutes(t *testing.T) {
	app, db := setupApp(t)
	owned := testsupport.CreateApplication(t, db, "u1", "Acme", models.StatusToApply, time.Now().UTC())

	resp := doRequest(t, app, "POST", "/api/referrals", "u1", fiber.MIMEApplicationJSON,
		fmt.Sprintf(`{"applicationId":%q,"name":"Jane Doe","source":"LinkedIn"}`, owned.ID))
	testsupport.AssertStatus(t, resp, fiber.StatusCreated)

	var created utils.SuccessResponseStruct
	testsupport.ParseJSON(t, resp, &created)

	if n := testsupport.Count(t, db, &models.Application{}, "id = ? AND status = ?", owned.ID, models.StatusReferralRequested); n != 1 {
		t.Error("Expected the application to move to REFERRAL_REQUESTED")
	}

	var referrals []models.Referral
	resp = doRequest(t, app, "GET", "/api/applications/"+owned.ID+"/referrals", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)
	testsupport.ParseJSON(t, resp, &referrals)
	if len(referrals) != 1 || referrals[0].Name != "Jane Doe" {
		t.Errorf("Unexpected referrals: %+v", referrals)
	}

	resp = doRequest(t, app, "POST", "/api/referrals", "u2", fiber.MIMEApplicationJSON,
		fmt.Sprintf(`{"applicationId":%q,"name":"Mallory"}`, owned.ID))
	testsupport.AssertStatus(t, resp, fiber.StatusNotFound)

	resp = doRequest(t, app, "POST", "/api/referrals", "u1", fiber.MIMEApplicationJSON, `{"applicationId":"","name":""}`)
	testsupport.AssertStatus(t, resp, fiber.StatusBadRequest)
	body := testsupport.ParseError(t, resp)
	if body.Fields["name"] != "Referrer name is required" || body.Fields["applicationId"] != "Application ID is required" {
		t.Errorf("Unexpected validation fields: %+v", body.Fields)
	}

	resp = doRequest(t, app, "DELETE", "/api/referrals/"+created.ID, "u2", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusNotFound)

	resp = doRequest(t, app, "DELETE", "/api/referrals/"+created.ID, "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)
}

func TestDashboardRoute(t *testing.T) {
	app, db := setupApp(t)
	now := time.Now().UTC()
	testsupport.CreateApplication(t, db, "u1", "Acme", models.StatusTechnicalInterview, now)
	testsupport.CreateApplication(t, db, "u1", "Globex", models.StatusOffer, now)

	resp := doRequest(t, app, "GET", "/api/dashboard?days=7", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)

	var dashboard services.Dashboard
	testsupport.ParseJSON(t, resp, &dashboard)
	if dashboard.Metrics.Total != 2 || dashboard.Metrics.Interviewing != 1 || dashboard.Metrics.Offers != 1 {
		t.Errorf("Unexpected metrics: %+v", dashboard.Metrics)
	}
	if len(dashboard.ApplicationsOverTime) != 7 {
		t.Errorf("Expected 7 days in the series, got %d", len(dashboard.ApplicationsOverTime))
	}

	for _, days := range []string{"0", "366", "week"} {
		resp := doRequest(t, app, "GET", "/api/dashboard?days="+days, "u1", "", "")
		testsupport.AssertStatus(t, resp, fiber.StatusBadRequest)
		body := testsupport.ParseError(t, resp)
		if body.Fields["days"] == "" {
			t.Errorf("days=%s: expected a days field error", days)
		}
	}
}

func TestDashboardUsesSettings(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "PUT", "/api/settings", "u1", fiber.MIMEApplicationJSON, `{"dashboardDays":"14"}`)
	testsupport.AssertStatus(t, resp, fiber.StatusOK)

	resp = doRequest(t, app, "GET", "/api/dashboard", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)

	var dashboard services.Dashboard
	testsupport.ParseJSON(t, resp, &dashboard)
	if len(dashboard.ApplicationsOverTime) != 14 {
		t.Errorf("Expected the saved 14 day window, got %d", len(dashboard.ApplicationsOverTime))
	}
}

func TestSettingsRoutes(t *testing.T) {
	app, _ := setupApp(t)

	var settings services.Settings
	resp := doRequest(t, app, "GET", "/api/settings", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusOK)
	testsupport.ParseJSON(t, resp, &settings)
	if settings.DashboardDays != 30 || settings.RecentLimit != 5 || settings.UpcomingLimit != 5 {
		t.Errorf("Expected default settings, got %+v", settings)
	}

	resp = doRequest(t, app, "PUT", "/api/settings", "u1", fiber.MIMEApplicationJSON, `{"recentLimit":10,"hiddenColumns":["notes","source"]}`)
	testsupport.AssertStatus(t, resp, fiber.StatusOK)
	testsupport.ParseJSON(t, resp, &settings)
	if settings.RecentLimit != 10 || settings.DashboardDays != 30 || len(settings.HiddenColumns) != 2 {
		t.Errorf("Unexpected saved settings: %+v", settings)
	}

	resp = doRequest(t, app, "PUT", "/api/settings", "u1", fiber.MIMEApplicationJSON, `{"recentLimit":1000}`)
	testsupport.AssertStatus(t, resp, fiber.StatusBadRequest)
}

func TestNotFoundFallback(t *testing.T) {
	app, _ := setupApp(t)

	resp := doRequest(t, app, "GET", "/api/nope", "u1", "", "")
	testsupport.AssertStatus(t, resp, fiber.StatusNotFound)
	body := testsupport.ParseError(t, resp)
	if body.Message != "[404] Resource Not Found" {
		t.Errorf("Unexpected message: %s", body.Message)
	}
}

func TestDatabaseSessionEndToEnd(t *testing.T) {
	db := testsupport.OpenTestDB(t)
	testsupport.CreateUser(t, db, "u1")
	testsupport.CreateSession(t, db, "u1", "good-token", time.Now().UTC().Add(time.Hour))
	testsupport.CreateSession(t, db, "u1", "old-token", time.Now().UTC().Add(-time.Hour))

	cfg := &config.Config{DBType: "sqlite", AuthProvider: "database"}
	auth := middleware.AuthUser(&services.DatabaseSessionProvider{DB: db}, middleware.AuthOptions{Cookie: "cookie_session"})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	Register(app.Group("/api"), cfg, db, auth)

	for token, status := range map[string]int{"good-token": fiber.StatusOK, "old-token": fiber.StatusUnauthorized} {
		req := httptest.NewRequest("GET", "/api/applications", nil)
		req.Header.Set("Cookie", "cookie_session="+token)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("Failed to execute request: %v", err)
		}
		testsupport.AssertStatus(t, resp, status)
	}
}
