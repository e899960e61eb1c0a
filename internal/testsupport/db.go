// db.go
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

package testsupport

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/localnerve/jobdash/internal/database"
	"github.com/localnerve/jobdash/internal/models"
	"gorm.io/gorm"
)

// OpenTestDB creates a migrated in-memory SQLite database with foreign keys enforced
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), database.GormConfig("sqlite", time.Second))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateUser inserts a user with the given id
func CreateUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	user := models.User{
		ID:            id,
		Name:          id,
		Email:         id + "@example.com",
		EmailVerified: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", id, err)
	}
	return &user
}

// CreateApplication inserts an application directly, bypassing validation
func CreateApplication(t *testing.T, db *gorm.DB, userID, company string, status models.ApplicationStatus, createdAt time.Time) *models.Application {
	t.Helper()
	app := models.Application{
		ID:          uuid.NewString(),
		UserID:      userID,
		CompanyName: company,
		Role:        "Software Engineer",
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("Failed to create application %s: %v", company, err)
	}
	return &app
}

// CreateActionItem inserts an action item for an application
func CreateActionItem(t *testing.T, db *gorm.DB, app *models.Application, title string, status models.ActionItemStatus, due *time.Time) *models.ActionItem {
	t.Helper()
	item := models.ActionItem{
		ID:            uuid.NewString(),
		UserID:        app.UserID,
		ApplicationID: app.ID,
		Title:         title,
		DueDate:       due,
		Status:        status,
		CreatedBy:     models.CreatedBySystem,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to create action item %s: %v", title, err)
	}
	return &item
}

// CreateSession inserts a session row for the database session provider
func CreateSession(t *testing.T, db *gorm.DB, userID, token string, expiresAt time.Time) *models.Session {
	t.Helper()
	session := models.Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return &session
}

// Count returns the number of rows of model matching the condition
func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
