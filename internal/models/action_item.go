// action_item.go
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

package models

import (
	"time"
)

// ActionItemStatus is the lifecycle state of an action item
type ActionItemStatus string

const (
	ActionItemPending   ActionItemStatus = "PENDING"
	ActionItemCompleted ActionItemStatus = "COMPLETED"
	ActionItemArchived  ActionItemStatus = "ARCHIVED"
)

// ActionItemCreator records who created an action item
type ActionItemCreator string

const (
	CreatedByUser   ActionItemCreator = "USER"
	CreatedBySystem ActionItemCreator = "SYSTEM"
)

// ActionItem is a follow-up task tied to an application and optionally a referral
type ActionItem struct {
	ID            string            `gorm:"primaryKey;size:64" json:"id"`
	UserID        string            `gorm:"size:64;not null;index:idx_action_items_user_status,priority:1" json:"userId"`
	ApplicationID string            `gorm:"size:64;not null;index" json:"applicationId"`
	ReferralID    *string           `gorm:"size:64" json:"referralId"`
	Title         string            `gorm:"size:255;not null" json:"title"`
	Body          *string           `gorm:"type:text" json:"body"`
	DueDate       *time.Time        `json:"dueDate"`
	Status        ActionItemStatus  `gorm:"size:16;not null;default:'PENDING';index:idx_action_items_user_status,priority:2" json:"status"`
	CreatedBy     ActionItemCreator `gorm:"size:16;not null;default:'SYSTEM'" json:"createdBy"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// TableName overrides the table name for ActionItem
func (ActionItem) TableName() string {
	return "action_items"
}
