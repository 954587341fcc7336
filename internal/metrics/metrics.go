// metrics.go
//
// A neighborhood social network data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of barrio.
// barrio is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// barrio is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with barrio.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Notification outcomes
const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

var (
	// Notifications counts push deliveries by notification kind and outcome
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barrio_notifications_total",
		Help: "Push notifications by kind and outcome.",
	}, []string{"kind", "outcome"})

	// CounterDrift counts denormalized counter corrections, from clamped decrements and reconciliation
	CounterDrift = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barrio_counter_drift_total",
		Help: "Denormalized counter drift detected, by counter.",
	}, []string{"counter"})
)

// Drift records n drifted rows for counter
func Drift(counter string, n int64) {
	if n > 0 {
		CounterDrift.WithLabelValues(counter).Add(float64(n))
	}
}

// Notified records n notifications of kind with the given outcome
func Notified(kind, outcome string, n int) {
	if n > 0 {
		Notifications.WithLabelValues(kind, outcome).Add(float64(n))
	}
}
