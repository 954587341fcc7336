// graph.go
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
	"iter"
	"log"
	"sync/atomic"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
)

// SummarySeq is a lazy, single use sequence of user summaries
type SummarySeq = iter.Seq2[models.UserSummary, error]

// ErrSequenceConsumed is yielded when a follower sequence is ranged over a second time
var ErrSequenceConsumed = types.Validation("sequence already consumed")

// Follow creates the edge follower -> followed and bumps both counters in one transaction.
// The unique index on the pair decides concurrent follows: the loser gets ErrAlreadyFollowing.
func Follow(db *gorm.DB, followerID, followedID string) (*models.Follow, error) {
	if err := requireID(followerID, "follower id"); err != nil {
		return nil, err
	}
	if err := requireID(followedID, "user id"); err != nil {
		return nil, err
	}
	if followerID == followedID {
		return nil, types.ErrSelfFollow
	}

	edge := &models.Follow{FollowerID: followerID, FollowedID: followedID}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := requireUsers(tx, followerID, followedID); err != nil {
			return err
		}

		if err := tx.Create(edge).Error; err != nil {
			if isDuplicateKey(err) {
				return types.ErrAlreadyFollowing
			}
			return types.Internal("failed to follow user", err)
		}

		if err := incrementCounter(tx, &models.User{}, "following_count", followerID); err != nil {
			return types.Internal("failed to update following count", err)
		}
		if err := incrementCounter(tx, &models.User{}, "followers_count", followedID); err != nil {
			return types.Internal("failed to update followers count", err)
		}
		return nil
	})
	if err != nil {
		if types.KindOf(err) == types.KindInternal {
			log.Printf("follow %s -> %s: %v", followerID, followedID, err)
		}
		return nil, err
	}

	return edge, nil
}

// Unfollow deletes the edge follower -> followed and decrements both counters in one transaction
func Unfollow(db *gorm.DB, followerID, followedID string) error {
	if err := requireID(followerID, "follower id"); err != nil {
		return err
	}
	if err := requireID(followedID, "user id"); err != nil {
		return err
	}
	if followerID == followedID {
		return types.ErrSelfFollow
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
			Delete(&models.Follow{})
		if res.Error != nil {
			return types.Internal("failed to unfollow user", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.ErrNotFollowing
		}

		if err := decrementCounter(tx, &models.User{}, "following_count", followerID); err != nil {
			return types.Internal("failed to update following count", err)
		}
		if err := decrementCounter(tx, &models.User{}, "followers_count", followedID); err != nil {
			return types.Internal("failed to update followers count", err)
		}
		return nil
	})
	if err != nil && types.KindOf(err) == types.KindInternal {
		log.Printf("unfollow %s -> %s: %v", followerID, followedID, err)
	}
	return err
}

// IsFollowing reports whether the edge follower -> followed exists
func IsFollowing(db *gorm.DB, followerID, followedID string) (bool, error) {
	var count int64
	err := db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	if err != nil {
		return false, types.Internal("failed to look up follow", err)
	}
	return count > 0, nil
}

// ListFollowers returns the users following userID, most recent first
func ListFollowers(db *gorm.DB, userID string) (SummarySeq, error) {
	return listEdges(db, userID, "follows.follower_id", "follows.followed_id")
}

// ListFollowing returns the users userID follows, most recent first
func ListFollowing(db *gorm.DB, userID string) (SummarySeq, error) {
	return listEdges(db, userID, "follows.followed_id", "follows.follower_id")
}

// listEdges validates userID and builds the summary sequence. joinColumn is the edge end
// that names the listed users, matchColumn the end that must equal userID.
func listEdges(db *gorm.DB, userID, joinColumn, matchColumn string) (SummarySeq, error) {
	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}
	if err := requireUsers(db, userID); err != nil {
		return nil, err
	}

	query := db.Model(&models.User{}).
		Select("users.id, users.username, users.first_name, users.last_name, users.profile_picture").
		Joins("JOIN follows ON "+joinColumn+" = users.id").
		Where(matchColumn+" = ?", userID).
		Order("follows.created_at DESC")

	return summarySeq(query), nil
}

// summarySeq streams user summaries from query. The sequence is single use; ranging over it
// again yields ErrSequenceConsumed. Rows stay open while the consumer runs, so the consumer
// must not issue queries on a single connection pool.
func summarySeq(query *gorm.DB) SummarySeq {
	var used atomic.Bool

	return func(yield func(models.UserSummary, error) bool) {
		if used.Swap(true) {
			yield(models.UserSummary{}, ErrSequenceConsumed)
			return
		}

		scanner := query.Session(&gorm.Session{NewDB: true})
		rows, err := query.Rows()
		if err != nil {
			yield(models.UserSummary{}, types.Internal("failed to list users", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var summary models.UserSummary
			if err := scanner.ScanRows(rows, &summary); err != nil {
				yield(models.UserSummary{}, types.Internal("failed to read user", err))
				return
			}
			if !yield(summary, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.UserSummary{}, types.Internal("failed to list users", err))
		}
	}
}

// CollectSummaries drains a summary sequence into a slice
func CollectSummaries(seq SummarySeq) ([]models.UserSummary, error) {
	summaries := []models.UserSummary{}
	for summary, err := range seq {
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
