// engagement.go
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

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
)

// LikeCount is the like total of a post from its counter and from the like rows
type LikeCount struct {
	PostID     string `json:"postId"`
	LikesCount int64  `json:"likesCount"`
	Aggregate  int64  `json:"aggregate"`
}

// Like records userID's like of postID and bumps the post's likesCount in one transaction.
// The unique (user, post) index decides concurrent likes: the loser gets ErrAlreadyLiked.
func Like(db *gorm.DB, userID, postID string) (*models.Like, error) {
	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}
	if err := requireID(postID, "post id"); err != nil {
		return nil, err
	}

	like := &models.Like{UserID: userID, PostID: postID, Like: true}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return types.Internal("failed to look up post", err)
		}
		if count == 0 {
			return types.ErrPostNotFound
		}

		if err := tx.Create(like).Error; err != nil {
			if isDuplicateKey(err) {
				return types.ErrAlreadyLiked
			}
			return types.Internal("failed to like post", err)
		}

		if err := incrementCounter(tx, &models.Post{}, "likes_count", postID); err != nil {
			return types.Internal("failed to update likes count", err)
		}
		return nil
	})
	if err != nil {
		if types.KindOf(err) == types.KindInternal {
			log.Printf("like %s by %s: %v", postID, userID, err)
		}
		return nil, err
	}

	return like, nil
}

// Unlike removes userID's like of postID, looked up by the pair, and decrements likesCount
func Unlike(db *gorm.DB, userID, postID string) error {
	if err := requireID(userID, "user id"); err != nil {
		return err
	}
	if err := requireID(postID, "post id"); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return types.Internal("failed to unlike post", res.Error)
		}
		if res.RowsAffected == 0 {
			return types.ErrNotLiked
		}

		if err := decrementCounter(tx, &models.Post{}, "likes_count", postID); err != nil {
			return types.Internal("failed to update likes count", err)
		}
		return nil
	})
	if err != nil && types.KindOf(err) == types.KindInternal {
		log.Printf("unlike %s by %s: %v", postID, userID, err)
	}
	return err
}

// CountByPost returns the post's like total from both the denormalized counter and an
// aggregate over the like rows. Outside a reconciliation window the two agree.
func CountByPost(db *gorm.DB, postID string) (*LikeCount, error) {
	if err := requireID(postID, "post id"); err != nil {
		return nil, err
	}

	var post models.Post
	if err := db.Select("id", "likes_count").Where("id = ?", postID).First(&post).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrPostNotFound
		}
		return nil, types.Internal("failed to look up post", err)
	}

	var aggregate int64
	if err := db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&aggregate).Error; err != nil {
		return nil, types.Internal("failed to count likes", err)
	}

	return &LikeCount{
		PostID:     postID,
		LikesCount: post.LikesCount,
		Aggregate:  aggregate,
	}, nil
}

// ListLikesByPost returns the likes of a post with their users, most recent first
func ListLikesByPost(db *gorm.DB, postID string) ([]models.Like, error) {
	if err := requireID(postID, "post id"); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, types.Internal("failed to look up post", err)
	}
	if count == 0 {
		return nil, types.ErrPostNotFound
	}

	likes := []models.Like{}
	err := db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username", "first_name", "last_name", "profile_picture")
	}).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	if err != nil {
		return nil, types.Internal("failed to list likes", err)
	}
	return likes, nil
}

// HasLiked reports whether userID likes postID
func HasLiked(db *gorm.DB, userID, postID string) (bool, error) {
	var count int64
	err := db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, types.Internal("failed to look up like", err)
	}
	return count > 0, nil
}
