// application.go
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

// ApplicationStatus is a stage in the application pipeline. Any stage may move to any other.
type ApplicationStatus string

const (
	StatusToApply            ApplicationStatus = "TO_APPLY"
	StatusReferralRequested  ApplicationStatus = "REFERRAL_REQUESTED"
	StatusApplied            ApplicationStatus = "APPLIED"
	StatusOnlineAssessment   ApplicationStatus = "ONLINE_ASSESSMENT"
	StatusTechnicalInterview ApplicationStatus = "TECHNICAL_INTERVIEW"
	StatusSystemDesign       ApplicationStatus = "SYSTEM_DESIGN"
	StatusManagerial         ApplicationStatus = "MANAGERIAL"
	StatusOffer              ApplicationStatus = "OFFER"
	StatusRejected           ApplicationStatus = "REJECTED"
	StatusGhosted            ApplicationStatus = "GHOSTED"
	StatusWithdrawn          ApplicationStatus = "WITHDRAWN"
)

// ApplicationStatuses lists every status in pipeline order
var ApplicationStatuses = []ApplicationStatus{
	StatusToApply,
	StatusReferralRequested,
	StatusApplied,
	StatusOnlineAssessment,
	StatusTechnicalInterview,
	StatusSystemDesign,
	StatusManagerial,
	StatusOffer,
	StatusRejected,
	StatusGhosted,
	StatusWithdrawn,
}

// InterviewStatuses are the stages counted as actively interviewing
var InterviewStatuses = []ApplicationStatus{
	StatusTechnicalInterview,
	StatusSystemDesign,
	StatusManagerial,
}

// Valid reports whether s is a known status
func (s ApplicationStatus) Valid() bool {
	return s.Rank() >= 0
}

// Rank is the position of s in the pipeline, or -1 for an unknown status
func (s ApplicationStatus) Rank() int {
	for i, v := range ApplicationStatuses {
		if v == s {
			return i
		}
	}
	return -1
}

// Application is one tracked job application
type Application struct {
	ID          string            `gorm:"primaryKey;size:64" json:"id"`
	UserID      string            `gorm:"size:64;not null;index:idx_applications_user_created,priority:1;index:idx_applications_user_updated,priority:1" json:"userId"`
	CompanyName string            `gorm:"size:255;not null" json:"companyName"`
	Role        string            `gorm:"size:255;not null" json:"role"`
	Location    *string           `gorm:"size:255" json:"location"`
	JobURL      *string           `gorm:"column:job_url;size:2048" json:"jobUrl"`
	Source      *string           `gorm:"size:255" json:"source"`
	Status      ApplicationStatus `gorm:"size:32;not null;default:'TO_APPLY';index" json:"status"`
	Notes       *string           `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time         `gorm:"index:idx_applications_user_created,priority:2" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"index:idx_applications_user_updated,priority:2" json:"updatedAt"`

	History     []ApplicationHistory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Referrals   []Referral           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ActionItems []ActionItem         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ApplicationHistory is an immutable record of one status transition.
// Seq numbers the transitions of one application from 1 and orders rows
// that share a timestamp.
type ApplicationHistory struct {
	ID            string            `gorm:"primaryKey;size:64" json:"id"`
	ApplicationID string            `gorm:"size:64;not null;uniqueIndex:idx_history_application_seq,priority:1" json:"applicationId"`
	Seq           int               `gorm:"not null;default:0;uniqueIndex:idx_history_application_seq,priority:2" json:"seq"`
	FromStatus    ApplicationStatus `gorm:"size:32;not null" json:"fromStatus"`
	ToStatus      ApplicationStatus `gorm:"size:32;not null" json:"toStatus"`
	Notes         *string           `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// TableName overrides the table name for Application
func (Application) TableName() string {
	return "applications"
}

// TableName overrides the table name for ApplicationHistory
func (ApplicationHistory) TableName() string {
	return "application_history"
}
