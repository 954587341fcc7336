// reconcile.go
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

package services

import (
	"log"

	"github.com/localnerve/barrio/internal/metrics"
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ReconcileReport counts the rows whose counter disagreed with its edge or like set
type ReconcileReport struct {
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
	LikesCount     int64 `json:"likesCount"`
}

// Total is the number of corrected counters
func (r *ReconcileReport) Total() int64 {
	return r.FollowersCount + r.FollowingCount + r.LikesCount
}

type trackedCounter struct {
	model  interface{}
	table  string
	column string
	count  string
}

var reconciledCounters = []trackedCounter{
	{
		model:  &models.User{},
		table:  "users",
		column: "followers_count",
		count:  "SELECT COUNT(*) FROM follows WHERE follows.followed_id = users.id",
	},
	{
		model:  &models.User{},
		table:  "users",
		column: "following_count",
		count:  "SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id",
	},
	{
		model:  &models.Post{},
		table:  "posts",
		column: "likes_count",
		count:  "SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id",
	},
}

// Reconcile recomputes every denormalized counter from the follow and like tables, in one
// transaction, and reports how many rows drifted
func Reconcile(db *gorm.DB) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, counter := range reconciledCounters {
			drift := "(" + counter.count + ")"

			var drifted int64
			if err := tx.Clauses(hints.CommentBefore("select", "reconcile")).
				Model(counter.model).
				Where(counter.table+"."+counter.column+" <> "+drift).
				Count(&drifted).Error; err != nil {
				return err
			}
			if drifted == 0 {
				continue
			}

			if err := tx.Model(counter.model).
				Where(counter.table+"."+counter.column+" <> "+drift).
				UpdateColumn(counter.column, gorm.Expr(drift)).Error; err != nil {
				return err
			}

			switch counter.column {
			case "followers_count":
				report.FollowersCount = drifted
			case "following_count":
				report.FollowingCount = drifted
			case "likes_count":
				report.LikesCount = drifted
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("reconcile: %v", err)
		return nil, types.Internal("failed to reconcile counters", err)
	}

	metrics.Drift("followers_count", report.FollowersCount)
	metrics.Drift("following_count", report.FollowingCount)
	metrics.Drift("likes_count", report.LikesCount)

	if report.Total() > 0 {
		log.Printf("reconcile: corrected %d followers, %d following, %d likes counter(s)",
			report.FollowersCount, report.FollowingCount, report.LikesCount)
	}

	return report, nil
}
