// settings.go
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

	"github.com/localnerve/jobdash/internal/models"
	"github.com/localnerve/jobdash/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackerColumns are the tracker table columns a user may hide
var TrackerColumns = []string{"companyName", "role", "status", "createdAt", "location", "jobUrl", "source", "notes"}

// Settings are a user's dashboard and tracker preferences
type Settings struct {
	DashboardDays int                    `json:"dashboardDays"`
	RecentLimit   int                    `json:"recentLimit"`
	UpcomingLimit int                    `json:"upcomingLimit"`
	HiddenColumns types.FlexList[string] `json:"hiddenColumns"`
}

// SettingsInput is a partial settings update. Zero numbers keep the stored value.
type SettingsInput struct {
	DashboardDays types.FlexInt           `json:"dashboardDays" form:"dashboardDays" validate:"min=0,max=365"`
	RecentLimit   types.FlexInt           `json:"recentLimit" form:"recentLimit" validate:"min=0,max=100"`
	UpcomingLimit types.FlexInt           `json:"upcomingLimit" form:"upcomingLimit" validate:"min=0,max=100"`
	HiddenColumns *types.FlexList[string] `json:"hiddenColumns" form:"hiddenColumns" validate:"omitnil,dive,oneof=companyName role status createdAt location jobUrl source notes"`
}

// DefaultSettings are used for anything a user has not saved
func DefaultSettings() Settings {
	return Settings{
		DashboardDays: 30,
		RecentLimit:   5,
		UpcomingLimit: 5,
		HiddenColumns: types.FlexList[string]{},
	}
}

// DashboardOptions converts the settings into dashboard query sizes
func (s Settings) DashboardOptions() DashboardOptions {
	return DashboardOptions{
		Days:          s.DashboardDays,
		RecentLimit:   s.RecentLimit,
		UpcomingLimit: s.UpcomingLimit,
	}
}

// merge overlays stored over s, ignoring values outside the accepted ranges
func (s *Settings) merge(stored Settings) {
	if stored.DashboardDays >= 1 && stored.DashboardDays <= maxDashboardDays {
		s.DashboardDays = stored.DashboardDays
	}
	if stored.RecentLimit >= 1 && stored.RecentLimit <= maxDashboardLimit {
		s.RecentLimit = stored.RecentLimit
	}
	if stored.UpcomingLimit >= 1 && stored.UpcomingLimit <= maxDashboardLimit {
		s.UpcomingLimit = stored.UpcomingLimit
	}
	if stored.HiddenColumns != nil {
		s.HiddenColumns = stored.HiddenColumns
	}
}

// GetSettings returns the caller's stored settings merged over the defaults
func GetSettings(ctx context.Context, db *gorm.DB, userID string) (*Settings, error) {
	settings := DefaultSettings()

	var row models.UserSettings
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &settings, nil
		}
		return nil, err
	}

	if !row.Settings.Empty() {
		var stored Settings
		if err := row.Settings.Decode(&stored); err != nil {
			return nil, fmt.Errorf("stored settings are invalid: %w", err)
		}
		settings.merge(stored)
	}

	return &settings, nil
}

// SaveSettings validates a partial update, applies it over the current settings and upserts the result
func SaveSettings(ctx context.Context, db *gorm.DB, userID string, input SettingsInput) (*Settings, error) {
	if err := validateStruct(&input); err != nil {
		return nil, err
	}

	settings, err := GetSettings(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	if input.DashboardDays != 0 {
		settings.DashboardDays = input.DashboardDays.Int()
	}
	if input.RecentLimit != 0 {
		settings.RecentLimit = input.RecentLimit.Int()
	}
	if input.UpcomingLimit != 0 {
		settings.UpcomingLimit = input.UpcomingLimit.Int()
	}
	if input.HiddenColumns != nil {
		settings.HiddenColumns = dedupe(*input.HiddenColumns)
	}

	doc, err := models.NewDocument(settings)
	if err != nil {
		return nil, err
	}

	row := models.UserSettings{UserID: userID, Settings: doc}
	err = db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"settings", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	return settings, nil
}

func dedupe(list types.FlexList[string]) types.FlexList[string] {
	seen := make(map[string]struct{}, len(list))
	out := make(types.FlexList[string], 0, len(list))
	for _, v := range list {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
