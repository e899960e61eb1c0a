// seed.go
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

package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/jobdash/internal/models"
	"gorm.io/gorm"
)

type demoApplication struct {
	company  string
	role     string
	location string
	jobURL   string
	source   string
	status   models.ApplicationStatus
	notes    string
	// path lists the statuses passed through before status, starting at TO_APPLY
	path []models.ApplicationStatus
}

var demoApplications = []demoApplication{
	{"Google", "Software Engineer L4", "Mountain View, CA", "https://careers.google.com/jobs/12345", "LinkedIn",
		models.StatusToApply, "Need to prepare resume for this role", nil},
	{"Meta", "Frontend Engineer E5", "Menlo Park, CA", "https://www.metacareers.com/jobs/67890", "Company Website",
		models.StatusReferralRequested, "Reached out to John for referral",
		[]models.ApplicationStatus{models.StatusToApply}},
	{"Amazon", "SDE II", "Seattle, WA", "https://amazon.jobs/en/jobs/123456", "Indeed",
		models.StatusApplied, "Applied through the portal",
		[]models.ApplicationStatus{models.StatusToApply}},
	{"Microsoft", "Software Engineer II", "Redmond, WA", "https://careers.microsoft.com/us/en/job/789012", "Referral",
		models.StatusOnlineAssessment, "OA scheduled for next week, DSA focus",
		[]models.ApplicationStatus{models.StatusToApply, models.StatusApplied}},
	{"Apple", "iOS Engineer", "Cupertino, CA", "https://jobs.apple.com/en-us/details/345678", "LinkedIn",
		models.StatusTechnicalInterview, "Technical round with 2 engineers",
		[]models.ApplicationStatus{models.StatusToApply, models.StatusApplied, models.StatusOnlineAssessment}},
	{"Netflix", "Senior Software Engineer", "Los Gatos, CA", "https://jobs.netflix.com/jobs/901234", "Company Website",
		models.StatusSystemDesign, "Design a recommendation system",
		[]models.ApplicationStatus{models.StatusToApply, models.StatusApplied, models.StatusTechnicalInterview}},
	{"Stripe", "Backend Engineer", "San Francisco, CA", "https://stripe.com/jobs/567890", "AngelList",
		models.StatusManagerial, "Final round with hiring manager",
		[]models.ApplicationStatus{models.StatusToApply, models.StatusApplied, models.StatusTechnicalInterview, models.StatusSystemDesign}},
	{"Airbnb", "Full Stack Engineer", "San Francisco, CA", "https://careers.airbnb.com/positions/234567", "Referral",
		models.StatusOffer, "Offer received, respond within two weeks",
		[]models.ApplicationStatus{models.StatusToApply, models.StatusReferralRequested, models.StatusApplied, models.StatusTechnicalInterview, models.StatusManagerial}},
	{"Uber", "Software Engineer", "San Francisco, CA", "https://www.uber.com/careers/890123", "LinkedIn",
		models.StatusRejected, "Rejected after technical round",
		[]models.ApplicationStatus{models.StatusToApply, models.StatusApplied, models.StatusTechnicalInterview}},
	{"Lyft", "Backend Engineer", "San Francisco, CA", "https://www.lyft.com/careers/456789", "Indeed",
		models.StatusGhosted, "No response after 3 weeks",
		[]models.ApplicationStatus{models.StatusToApply, models.StatusApplied}},
	{"DoorDash", "Software Engineer", "San Francisco, CA", "https://careers.doordash.com/012345", "Company Website",
		models.StatusWithdrawn, "Withdrew after accepting another offer",
		[]models.ApplicationStatus{models.StatusToApply, models.StatusApplied}},
}

type demoReferral struct {
	company string
	name    string
	source  string
	notes   string
}

var demoReferrals = []demoReferral{
	{"Meta", "John Smith", "LinkedIn", "Former colleague, now a staff engineer"},
	{"Microsoft", "Priya Patel", "University alumni network", "Submitted the referral form"},
	{"Airbnb", "Maria Garcia", "Meetup", "Met at a React meetup"},
}

type demoActionItem struct {
	company   string
	referral  string
	title     string
	body      string
	dueInDays *int
	status    models.ActionItemStatus
	createdBy models.ActionItemCreator
}

func days(n int) *int { return &n }

var demoActionItems = []demoActionItem{
	{"Google", "", "Tailor resume", "Highlight distributed systems work", days(2), models.ActionItemPending, models.CreatedByUser},
	{"Meta", "John Smith", "Follow up with John", "Check whether the referral went through", days(3), models.ActionItemPending, models.CreatedBySystem},
	{"Microsoft", "", "Complete online assessment", "", days(5), models.ActionItemPending, models.CreatedBySystem},
	{"Apple", "", "Review Swift concurrency", "", nil, models.ActionItemPending, models.CreatedByUser},
	{"Netflix", "", "Practice system design", "", days(-1), models.ActionItemCompleted, models.CreatedByUser},
	{"Airbnb", "Maria Garcia", "Thank Maria", "Send a thank you note", days(-3), models.ActionItemCompleted, models.CreatedBySystem},
	{"Uber", "", "Ask for feedback", "", nil, models.ActionItemArchived, models.CreatedByUser},
	{"Lyft", "", "Send follow-up email", "", days(-10), models.ActionItemArchived, models.CreatedBySystem},
}

// Result counts the rows written by Run
type Result struct {
	Applications int
	History      int
	Referrals    int
	ActionItems  int
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Run writes demo data for userID in one transaction. The user row is created when missing.
func Run(ctx context.Context, db *gorm.DB, userID, email string) (*Result, error) {
	result := &Result{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := models.User{ID: userID, Name: userID, Email: email}
		if err := tx.Where(models.User{ID: userID}).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("failed to ensure user: %w", err)
		}

		now := tx.NowFunc()
		appIDs := make(map[string]string, len(demoApplications))

		for i, d := range demoApplications {
			created := now.Add(-time.Duration(len(demoApplications)-i) * 24 * time.Hour)
			app := models.Application{
				ID:          uuid.NewString(),
				UserID:      userID,
				CompanyName: d.company,
				Role:        d.role,
				Location:    ptr(d.location),
				JobURL:      ptr(d.jobURL),
				Source:      ptr(d.source),
				Status:      d.status,
				Notes:       ptr(d.notes),
				CreatedAt:   created,
				UpdatedAt:   created.Add(time.Duration(len(d.path)) * time.Hour),
			}
			if err := tx.Create(&app).Error; err != nil {
				return fmt.Errorf("failed to insert application %s: %w", d.company, err)
			}
			appIDs[d.company] = app.ID
			result.Applications++

			steps := append(append([]models.ApplicationStatus{}, d.path...), d.status)
			for j := 1; j < len(steps); j++ {
				h := models.ApplicationHistory{
					ID:            uuid.NewString(),
					ApplicationID: app.ID,
					Seq:           j,
					FromStatus:    steps[j-1],
					ToStatus:      steps[j],
					CreatedAt:     created.Add(time.Duration(j) * time.Hour),
				}
				if err := tx.Create(&h).Error; err != nil {
					return fmt.Errorf("failed to insert history for %s: %w", d.company, err)
				}
				result.History++
			}
		}

		referralIDs := make(map[string]string, len(demoReferrals))
		for _, d := range demoReferrals {
			r := models.Referral{
				ID:            uuid.NewString(),
				UserID:        userID,
				ApplicationID: appIDs[d.company],
				Name:          d.name,
				Source:        ptr(d.source),
				Notes:         ptr(d.notes),
				RequestedAt:   now.Add(-48 * time.Hour),
			}
			if err := tx.Create(&r).Error; err != nil {
				return fmt.Errorf("failed to insert referral %s: %w", d.name, err)
			}
			referralIDs[d.name] = r.ID
			result.Referrals++
		}

		for _, d := range demoActionItems {
			item := models.ActionItem{
				ID:            uuid.NewString(),
				UserID:        userID,
				ApplicationID: appIDs[d.company],
				Title:         d.title,
				Body:          ptr(d.body),
				Status:        d.status,
				CreatedBy:     d.createdBy,
			}
			if d.referral != "" {
				id := referralIDs[d.referral]
				item.ReferralID = &id
			}
			if d.dueInDays != nil {
				due := now.AddDate(0, 0, *d.dueInDays)
				item.DueDate = &due
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to insert action item %s: %w", d.title, err)
			}
			result.ActionItems++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
