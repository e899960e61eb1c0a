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

// CreateReferralInput is the body accepted when recording a referral
type CreateReferralInput struct {
	ApplicationID string  `json:"applicationId" form:"applicationId" validate:"required,max=64"`
	Name          string  `json:"name" form:"name" validate:"required,max=255"`
	Source        *string `json:"source" form:"source" validate:"omitempty,max=255"`
	Notes         *string `json:"notes" form:"notes"`
}

func (in *CreateReferralInput) normalize() {
	in.ApplicationID = strings.TrimSpace(in.ApplicationID)
	in.Name = strings.TrimSpace(in.Name)
	in.Source = trimmed(in.Source)
	in.Notes = trimmed(in.Notes)
}

// CreateReferral records a referral on an owned application. An application
// still in TO_APPLY moves to REFERRAL_REQUESTED in the same transaction.
func CreateReferral(ctx context.Context, db *gorm.DB, userID string, input CreateReferralInput) (*models.Referral, error) {
	input.normalize()
	if err := validateStruct(&input); err != nil {
		return nil, err
	}

	var (
		referral   models.Referral
		transition *models.ApplicationHistory
	)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var app models.Application
		err := tx.Select("id", "status").
			Where("id = ? AND user_id = ?", input.ApplicationID, userID).
			First(&app).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		referral = models.Referral{
			ID:            uuid.NewString(),
			UserID:        userID,
			ApplicationID: app.ID,
			Name:          input.Name,
			Source:        input.Source,
			Notes:         input.Notes,
			RequestedAt:   tx.NowFunc(),
		}
		if err := tx.Create(&referral).Error; err != nil {
			return fmt.Errorf("failed to create referral: %w", err)
		}

		if app.Status != models.StatusToApply {
			return nil
		}

		res := tx.Model(&models.Application{}).
			Where("id = ? AND user_id = ? AND status = ?", app.ID, userID, models.StatusToApply).
			Update("status", models.StatusReferralRequested)
		if res.Error != nil {
			return fmt.Errorf("failed to update application status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		seq, err := nextHistorySeq(tx, app.ID)
		if err != nil {
			return err
		}
		note := "Referral requested from " + input.Name
		transition = &models.ApplicationHistory{
			ID:            uuid.NewString(),
			ApplicationID: app.ID,
			Seq:           seq,
			FromStatus:    models.StatusToApply,
			ToStatus:      models.StatusReferralRequested,
			Notes:         &note,
		}
		if err := tx.Create(transition).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	referralsCreated.Inc()
	recordTransition(transition)
	return &referral, nil
}

// DeleteReferral removes an owned referral
func DeleteReferral(ctx context.Context, db *gorm.DB, userID, id string) (int64, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Referral{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete referral: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, types.ErrNotFound
	}
	return res.RowsAffected, nil
}

// ListReferrals returns the caller's referrals for one application, newest first
func ListReferrals(ctx context.Context, db *gorm.DB, userID, applicationID string) ([]models.Referral, error) {
	referrals := []models.Referral{}
	err := db.WithContext(ctx).
		Where("application_id = ? AND user_id = ?", applicationID, userID).
		Order("requested_at DESC").
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}
