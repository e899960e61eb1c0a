// metrics.go
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
	"github.com/localnerve/jobdash/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	applicationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobdash_applications_created_total",
		Help: "Job applications created.",
	})

	statusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jobdash_status_transitions_total",
		Help: "Application status changes recorded in the history.",
	}, []string{"from", "to"})

	referralsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jobdash_referrals_created_total",
		Help: "Referrals recorded.",
	})
)

func recordTransition(h *models.ApplicationHistory) {
	if h == nil {
		return
	}
	statusTransitions.WithLabelValues(string(h.FromStatus), string(h.ToStatus)).Inc()
}
