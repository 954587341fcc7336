// posts.go
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
	"strings"
	"time"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostInput is the creation form of a post. The location is created with the post.
type PostInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	PostType    models.PostType `json:"postType"`
	PostDate    *time.Time      `json:"postDate"`
	Location    *LocationInput  `json:"location"`
}

// PostUpdate carries the post fields to change; nil fields are left as they are
type PostUpdate struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
	PostType    *models.PostType `json:"postType"`
	PostDate    *time.Time       `json:"postDate"`
	Location    *LocationInput   `json:"location"`
}

func selectSummary(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "username", "first_name", "last_name", "profile_picture")
}

// CreatePost creates a post and its own location in one transaction
func CreatePost(db *gorm.DB, authorID string, in PostInput) (*models.Post, error) {
	if err := requireID(authorID, "user id"); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.Description) == "" {
		return nil, types.Validation("name and description are required")
	}
	if !in.PostType.Valid() {
		return nil, types.Validation("postType must be one of incident, commerce, water_outage, recommendation")
	}
	if in.Location == nil {
		return nil, types.Validation("location is required")
	}

	post := &models.Post{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		PostType:    in.PostType,
		PostDate:    now(),
		UserID:      authorID,
	}
	if in.PostDate != nil {
		post.PostDate = *in.PostDate
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := requireUsers(tx, authorID); err != nil {
			return err
		}

		loc, err := createLocation(tx, *in.Location)
		if err != nil {
			return err
		}
		post.LocationID = loc.ID
		post.Location = loc

		if err := tx.Omit("Location", "Author").Create(post).Error; err != nil {
			return types.Internal("failed to create post", err)
		}
		return nil
	})
	if err != nil {
		if types.KindOf(err) == types.KindInternal {
			log.Printf("create post by %s: %v", authorID, err)
		}
		return nil, err
	}

	return post, nil
}

// GetPost loads a post with its author summary and location
func GetPost(db *gorm.DB, id string) (*models.Post, error) {
	if err := requireID(id, "post id"); err != nil {
		return nil, err
	}

	var post models.Post
	if err := db.Preload("Author", selectSummary).
		Preload("Location").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrPostNotFound
		}
		return nil, types.Internal("failed to look up post", err)
	}
	return &post, nil
}

// ListPostsByUser returns the posts of a user, newest first
func ListPostsByUser(db *gorm.DB, userID string, page Page) ([]models.Post, error) {
	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}
	if err := requireUsers(db, userID); err != nil {
		return nil, err
	}

	posts := []models.Post{}
	if err := page.apply(db.Preload("Location").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id")).
		Find(&posts).Error; err != nil {
		return nil, types.Internal("failed to list posts", err)
	}
	return posts, nil
}

// lockOwnedPost loads a post for update and checks that callerID wrote it
func lockOwnedPost(tx *gorm.DB, callerID, postID string) (*models.Post, error) {
	var post models.Post
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", postID).
		First(&post).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrPostNotFound
		}
		return nil, types.Internal("failed to look up post", err)
	}
	if post.UserID != callerID {
		return nil, types.ErrNotOwner
	}
	return &post, nil
}

// UpdatePost changes a post written by callerID
func UpdatePost(db *gorm.DB, callerID, postID string, in PostUpdate) (*models.Post, error) {
	if err := requireID(postID, "post id"); err != nil {
		return nil, err
	}
	if in.PostType != nil && !in.PostType.Valid() {
		return nil, types.Validation("postType must be one of incident, commerce, water_outage, recommendation")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		post, err := lockOwnedPost(tx, callerID, postID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return types.Validation("name cannot be empty")
			}
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.ImageURL != nil {
			updates["image_url"] = *in.ImageURL
		}
		if in.PostType != nil {
			updates["post_type"] = *in.PostType
		}
		if in.PostDate != nil {
			updates["post_date"] = *in.PostDate
		}

		if in.Location != nil {
			if err := in.Location.validate(); err != nil {
				return err
			}
			if err := requireCategories(tx, in.Location.CityID, in.Location.ProvinceID); err != nil {
				return err
			}
			loc := models.Location{}
			in.Location.apply(&loc)
			if err := tx.Model(&models.Location{}).
				Where("id = ?", post.LocationID).
				Updates(map[string]interface{}{
					"main_street":      loc.MainStreet,
					"secondary_street": loc.SecondaryStreet,
					"city_id":          loc.CityID,
					"province_id":      loc.ProvinceID,
				}).Error; err != nil {
				return types.Internal("failed to update post location", err)
			}
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(post).Updates(updates).Error; err != nil {
			return types.Internal("failed to update post", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetPost(db, postID)
}

// DeletePost removes a post written by callerID with its likes, location and notifications
func DeletePost(db *gorm.DB, callerID, postID string) error {
	if err := requireID(postID, "post id"); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := lockOwnedPost(tx, callerID, postID); err != nil {
			return err
		}
		if err := deletePosts(tx, []string{postID}); err != nil {
			return types.Internal("failed to delete post", err)
		}
		return nil
	})
	if err != nil && types.KindOf(err) == types.KindInternal {
		log.Printf("delete post %s: %v", postID, err)
	}
	return err
}

// deletePosts removes posts and everything that hangs off them
func deletePosts(tx *gorm.DB, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}

	var locationIDs []string
	if err := tx.Model(&models.Post{}).Where("id IN ?", postIDs).Pluck("location_id", &locationIDs).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
		return err
	}
	if len(locationIDs) > 0 {
		if err := tx.Where("id IN ?", locationIDs).Delete(&models.Location{}).Error; err != nil {
			return err
		}
	}
	return nil
}
