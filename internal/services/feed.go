// feed.go
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
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// FeedOptions pages the feed. Zero Limit means no limit.
type FeedOptions struct {
	Limit    int
	Offset   int
	PostType models.PostType
}

// FeedFor returns the posts visible to userID: every post whose location shares the user's
// city OR the user's province, newest first.
func FeedFor(db *gorm.DB, userID string, opts FeedOptions) ([]models.Post, error) {
	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}
	if opts.PostType != "" && !opts.PostType.Valid() {
		return nil, types.InvalidArgument("invalid post type")
	}

	var user models.User
	if err := db.Preload("Location").Where("id = ?", userID).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, types.Internal("failed to look up user", err)
	}

	if user.LocationID == nil || *user.LocationID == "" {
		return nil, types.ErrNoLocation
	}
	// A dangling reference is as unusable as a half filled one
	if user.Location == nil || !user.Location.Complete() {
		return nil, types.ErrIncompleteLocation
	}

	query := db.Clauses(hints.CommentBefore("select", "feed")).
		Preload("Author", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "username", "first_name", "last_name", "profile_picture")
		}).
		Preload("Location").
		Joins("JOIN locations ON locations.id = posts.location_id").
		Where("(locations.city_id = ? OR locations.province_id = ?)", user.Location.CityID, user.Location.ProvinceID)

	if opts.PostType != "" {
		query = query.Where("posts.post_type = ?", opts.PostType)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}

	posts := []models.Post{}
	if err := query.Order("posts.created_at DESC").Order("posts.id").Find(&posts).Error; err != nil {
		return nil, types.Internal("failed to load feed", err)
	}
	return posts, nil
}
