// dashboard.go
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
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/localnerve/jobdash/internal/models"
	"github.com/localnerve/jobdash/internal/types"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/hints"
)

const (
	maxDashboardDays  = 365
	maxDashboardLimit = 100
	dayFormat         = "2006-01-02"
)

// DashboardMetrics are the headline counters of the dashboard
type DashboardMetrics struct {
	Total        int64 `json:"total"`
	Interviewing int64 `json:"interviewing"`
	Offers       int64 `json:"offers"`
	Rejections   int64 `json:"rejections"`
	ResponseRate int   `json:"responseRate"`
	PendingTasks int64 `json:"pendingTasks"`
}

// DailyCount is one point of the applications-over-time series
type DailyCount struct {
	Date         string `json:"date"`
	Applications int64  `json:"applications"`
}

// StatusCount is one slice of the status distribution
type StatusCount struct {
	Status models.ApplicationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

// RecentApplication is the summary row shown in the recent list
type RecentApplication struct {
	ID          string                   `json:"id"`
	CompanyName string                   `json:"companyName"`
	Role        string                   `json:"role"`
	Status      models.ApplicationStatus `json:"status"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// UpcomingActionItem is a pending action item with its application's company and role
type UpcomingActionItem struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	DueDate       *time.Time `json:"dueDate"`
	ApplicationID string     `json:"applicationId"`
	CompanyName   string     `json:"companyName"`
	Role          string     `json:"role"`
	CreatedAt     time.Time  `json:"-"`
}

// DashboardOptions sizes the dashboard series and lists
type DashboardOptions struct {
	Days          int
	RecentLimit   int
	UpcomingLimit int
}

// Dashboard is the complete dashboard view model
type Dashboard struct {
	Metrics              DashboardMetrics     `json:"metrics"`
	ApplicationsOverTime []DailyCount         `json:"applicationsOverTime"`
	StatusDistribution   []StatusCount        `json:"statusDistribution"`
	RecentApplications   []RecentApplication  `json:"recentApplications"`
	UpcomingActionItems  []UpcomingActionItem `json:"upcomingActionItems"`
}

func checkRange(field string, value, max int) error {
	if value < 1 || value > max {
		return types.NewValidationError(field, "Must be between 1 and "+strconv.Itoa(max))
	}
	return nil
}

// statusCounts groups the caller's applications by status
func statusCounts(db *gorm.DB, userID, comment string) ([]StatusCount, error) {
	var counts []StatusCount
	err := db.Clauses(hints.Comment("select", comment)).
		Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&counts).Error
	return counts, err
}

// GetDashboardMetrics computes the headline counters for the caller
func GetDashboardMetrics(ctx context.Context, db *gorm.DB, userID string) (*DashboardMetrics, error) {
	db = db.WithContext(ctx)

	counts, err := statusCounts(db, userID, "dashboard:metrics")
	if err != nil {
		return nil, err
	}

	byStatus := make(map[models.ApplicationStatus]int64, len(counts))
	metrics := &DashboardMetrics{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
		metrics.Total += c.Count
	}

	for _, s := range models.InterviewStatuses {
		metrics.Interviewing += byStatus[s]
	}
	metrics.Offers = byStatus[models.StatusOffer]
	metrics.Rejections = byStatus[models.StatusRejected]

	if metrics.Total > 0 {
		responded := metrics.Total - byStatus[models.StatusToApply] - byStatus[models.StatusGhosted]
		metrics.ResponseRate = int(math.Round(float64(responded) / float64(metrics.Total) * 100))
	}

	err = db.Clauses(hints.Comment("select", "dashboard:pending")).
		Model(&models.ActionItem{}).
		Where("user_id = ? AND status = ?", userID, models.ActionItemPending).
		Count(&metrics.PendingTasks).Error
	if err != nil {
		return nil, err
	}

	return metrics, nil
}

// GetApplicationsOverTime returns one zero-filled UTC day bucket per day, ending today
func GetApplicationsOverTime(ctx context.Context, db *gorm.DB, userID string, days int) ([]DailyCount, error) {
	if err := checkRange("days", days, maxDashboardDays); err != nil {
		return nil, err
	}

	now := db.NowFunc().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(days - 1))

	series := make([]DailyCount, days)
	index := make(map[string]int, days)
	for i := range series {
		date := start.AddDate(0, 0, i).Format(dayFormat)
		series[i] = DailyCount{Date: date}
		index[date] = i
	}

	var created []time.Time
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "dashboard:over-time")).
		Model(&models.Application{}).
		Where("user_id = ? AND created_at >= ?", userID, start).
		Pluck("created_at", &created).Error
	if err != nil {
		return nil, err
	}

	for _, t := range created {
		if i, ok := index[t.UTC().Format(dayFormat)]; ok {
			series[i].Applications++
		}
	}

	return series, nil
}

// GetStatusDistribution returns counts for the statuses present, in pipeline order
func GetStatusDistribution(ctx context.Context, db *gorm.DB, userID string) ([]StatusCount, error) {
	counts, err := statusCounts(db.WithContext(ctx), userID, "dashboard:distribution")
	if err != nil {
		return nil, err
	}

	sort.SliceStable(counts, func(i, j int) bool {
		ri, rj := counts[i].Status.Rank(), counts[j].Status.Rank()
		if ri < 0 {
			ri = len(models.ApplicationStatuses)
		}
		if rj < 0 {
			rj = len(models.ApplicationStatuses)
		}
		return ri < rj
	})

	if counts == nil {
		counts = []StatusCount{}
	}
	return counts, nil
}

// GetRecentApplications returns the most recently updated applications
func GetRecentApplications(ctx context.Context, db *gorm.DB, userID string, limit int) ([]RecentApplication, error) {
	if err := checkRange("limit", limit, maxDashboardLimit); err != nil {
		return nil, err
	}

	recent := []RecentApplication{}
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "dashboard:recent")).
		Model(&models.Application{}).
		Select("id, company_name, role, status, created_at, updated_at").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("created_at DESC").
		Limit(limit).
		Scan(&recent).Error
	if err != nil {
		return nil, err
	}
	return recent, nil
}

// GetUpcomingActionItems returns pending action items by due date, undated items last
func GetUpcomingActionItems(ctx context.Context, db *gorm.DB, userID string, limit int) ([]UpcomingActionItem, error) {
	if err := checkRange("limit", limit, maxDashboardLimit); err != nil {
		return nil, err
	}

	items := []UpcomingActionItem{}
	err := db.WithContext(ctx).
		Clauses(hints.Comment("select", "dashboard:upcoming")).
		Table("action_items").
		Select("action_items.id, action_items.title, action_items.due_date, action_items.application_id, action_items.created_at, applications.company_name, applications.role").
		Joins("JOIN applications ON applications.id = action_items.application_id AND applications.user_id = action_items.user_id").
		Where("action_items.user_id = ? AND action_items.status = ?", userID, models.ActionItemPending).
		Order("CASE WHEN action_items.due_date IS NULL THEN 1 ELSE 0 END").
		Order("action_items.due_date ASC").
		Order("action_items.created_at ASC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetDashboard runs the dashboard queries concurrently. The first failure cancels the rest.
func GetDashboard(ctx context.Context, db *gorm.DB, userID string, opts DashboardOptions) (*Dashboard, error) {
	if err := checkRange("days", opts.Days, maxDashboardDays); err != nil {
		return nil, err
	}
	if err := checkRange("recentLimit", opts.RecentLimit, maxDashboardLimit); err != nil {
		return nil, err
	}
	if err := checkRange("upcomingLimit", opts.UpcomingLimit, maxDashboardLimit); err != nil {
		return nil, err
	}

	dashboard := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		metrics, err := GetDashboardMetrics(gctx, db, userID)
		if err == nil {
			dashboard.Metrics = *metrics
		}
		return err
	})
	g.Go(func() (err error) {
		dashboard.ApplicationsOverTime, err = GetApplicationsOverTime(gctx, db, userID, opts.Days)
		return err
	})
	g.Go(func() (err error) {
		dashboard.StatusDistribution, err = GetStatusDistribution(gctx, db, userID)
		return err
	})
	g.Go(func() (err error) {
		dashboard.RecentApplications, err = GetRecentApplications(gctx, db, userID, opts.RecentLimit)
		return err
	})
	g.Go(func() (err error) {
		dashboard.UpcomingActionItems, err = GetUpcomingActionItems(gctx, db, userID, opts.UpcomingLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard, nil
}
