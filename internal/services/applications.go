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

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/localnerve/jobdash/internal/models"
	"github.com/localnerve/jobdash/internal/types"
	"gorm.io/gorm"
)

// CreateApplicationInput is the body accepted when creating an application
type CreateApplicationInput struct {
	CompanyName string                   `json:"companyName" form:"companyName" validate:"required,max=255"`
	Role        string                   `json:"role" form:"role" validate:"required,max=255"`
	Location    *string                  `json:"location" form:"location" validate:"omitempty,max=255"`
	JobURL      *string                  `json:"jobUrl" form:"jobUrl" validate:"omitempty,url,max=2048"`
	Source      *string                  `json:"source" form:"source" validate:"omitempty,max=255"`
	Status      models.ApplicationStatus `json:"status" form:"status" validate:"omitempty,application_status"`
	Notes       *string                  `json:"notes" form:"notes"`
}

// UpdateApplicationInput is a partial update. A nil field is left as stored,
// an empty optional field clears the column.
type UpdateApplicationInput struct {
	CompanyName *string                   `json:"companyName" form:"companyName" validate:"omitnil,min=1,max=255"`
	Role        *string                   `json:"role" form:"role" validate:"omitnil,min=1,max=255"`
	Location    *string                   `json:"location" form:"location" validate:"omitnil,max=255"`
	JobURL      *string                   `json:"jobUrl" form:"jobUrl" validate:"omitnil,url,max=2048"`
	Source      *string                   `json:"source" form:"source" validate:"omitnil,max=255"`
	Status      *models.ApplicationStatus `json:"status" form:"status" validate:"omitnil,application_status"`
	Notes       *string                   `json:"notes" form:"notes"`
}

// ApplicationFilter narrows the tracker listing
type ApplicationFilter struct {
	Status string
	Search string
}

func (in *CreateApplicationInput) normalize() {
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Role = strings.TrimSpace(in.Role)
	in.Location = trimmed(in.Location)
	in.JobURL = trimmed(in.JobURL)
	in.Source = trimmed(in.Source)
	in.Notes = trimmed(in.Notes)
	in.Status = models.ApplicationStatus(strings.TrimSpace(string(in.Status)))
}

// normalize trims the input and returns the columns to set, with nil for cleared ones
func (in *UpdateApplicationInput) normalize() map[string]interface{} {
	updates := make(map[string]interface{})

	if in.CompanyName != nil {
		v := strings.TrimSpace(*in.CompanyName)
		in.CompanyName = &v
		updates["company_name"] = v
	}
	if in.Role != nil {
		v := strings.TrimSpace(*in.Role)
		in.Role = &v
		updates["role"] = v
	}

	optional := []struct {
		column string
		field  **string
	}{
		{"location", &in.Location},
		{"job_url", &in.JobURL},
		{"source", &in.Source},
		{"notes", &in.Notes},
	}
	for _, o := range optional {
		v, clear := trimmedOrClear(*o.field)
		*o.field = v
		if clear {
			updates[o.column] = nil
		} else if v != nil {
			updates[o.column] = *v
		}
	}

	if in.Status != nil {
		s := models.ApplicationStatus(strings.TrimSpace(string(*in.Status)))
		in.Status = &s
		updates["status"] = s
	}

	return updates
}

// CreateApplication validates input and inserts an application owned by userID
func CreateApplication(ctx context.Context, db *gorm.DB, userID string, input CreateApplicationInput) (*models.Application, error) {
	input.normalize()
	if err := validateStruct(&input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusToApply
	}

	app := models.Application{
		ID:          uuid.NewString(),
		UserID:      userID,
		CompanyName: input.CompanyName,
		Role:        input.Role,
		Location:    input.Location,
		JobURL:      input.JobURL,
		Source:      input.Source,
		Status:      status,
		Notes:       input.Notes,
	}
	if err := db.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	applicationsCreated.Inc()
	return &app, nil
}

// UpdateApplication applies a partial update to an owned application.
// A status change writes one history row in the same transaction.
func UpdateApplication(ctx context.Context, db *gorm.DB, userID, id string, input UpdateApplicationInput) (*models.Application, error) {
	updates := input.normalize()
	if err := validateStruct(&input); err != nil {
		return nil, err
	}

	var (
		updated    models.Application
		transition *models.ApplicationHistory
	)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Application
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		if input.Status != nil && *input.Status != current.Status {
			seq, err := nextHistorySeq(tx, current.ID)
			if err != nil {
				return err
			}
			transition = &models.ApplicationHistory{
				ID:            uuid.NewString(),
				ApplicationID: current.ID,
				Seq:           seq,
				FromStatus:    current.Status,
				ToStatus:      *input.Status,
			}
			if err := tx.Create(transition).Error; err != nil {
				return fmt.Errorf("failed to record status history: %w", err)
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&current).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update application: %w", err)
			}
		}

		return tx.Where("id = ?", current.ID).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}

	recordTransition(transition)
	return &updated, nil
}

// DeleteApplication removes an owned application with its history, referrals and action items
func DeleteApplication(ctx context.Context, db *gorm.DB, userID, id string) (int64, error) {
	var affected int64

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.Application
		if err := tx.Select("id").Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		children := []interface{}{
			&models.ActionItem{},
			&models.Referral{},
			&models.ApplicationHistory{},
		}
		for _, child := range children {
			res := tx.Where("application_id = ?", app.ID).Delete(child)
			if res.Error != nil {
				return fmt.Errorf("failed to delete application children: %w", res.Error)
			}
			affected += res.RowsAffected
		}

		res := tx.Where("id = ? AND user_id = ?", app.ID, userID).Delete(&models.Application{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete application: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.ErrNotFound
		}
		affected += res.RowsAffected
		return nil
	})

	return affected, err
}

// GetApplication returns one owned application
func GetApplication(ctx context.Context, db *gorm.DB, userID, id string) (*models.Application, error) {
	var app models.Application
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// likeEscaper makes LIKE wildcards in a search match literally, including the
// SQL Server character class bracket. The escape character is '!' because MySQL
// treats a backslash in a string literal as an escape.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")

// ListApplications returns the caller's applications, newest first
func ListApplications(ctx context.Context, db *gorm.DB, userID string, filter ApplicationFilter) ([]models.Application, error) {
	query := db.WithContext(ctx).Where("user_id = ?", userID)

	if status := strings.TrimSpace(filter.Status); status != "" {
		if !models.ApplicationStatus(status).Valid() {
			return nil, types.NewValidationError("status", "Invalid status")
		}
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(company_name) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(search))+"%")
	}

	apps := []models.Application{}
	if err := query.Order("created_at DESC").Order("id").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// nextHistorySeq returns the sequence number for the next transition of an application.
// The unique index on (application_id, seq) fails a concurrent writer instead of
// letting two transitions share a position.
func nextHistorySeq(tx *gorm.DB, applicationID string) (int, error) {
	var last int
	err := tx.Model(&models.ApplicationHistory{}).
		Where("application_id = ?", applicationID).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read status history: %w", err)
	}
	return last + 1, nil
}

// ListApplicationHistory returns the status history of an owned application, oldest first
func ListApplicationHistory(ctx context.Context, db *gorm.DB, userID, id string) ([]models.ApplicationHistory, error) {
	if _, err := GetApplication(ctx, db, userID, id); err != nil {
		return nil, err
	}

	history := []models.ApplicationHistory{}
	err := db.WithContext(ctx).
		Where("application_id = ?", id).
		Order("seq ASC").
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}
