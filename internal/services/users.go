// users.go
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
	"time"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
)

// UserUpdate carries the profile fields to change; nil fields are left as they are
type UserUpdate struct {
	Username       *string        `json:"username"`
	FirstName      *string        `json:"firstName"`
	LastName       *string        `json:"lastName"`
	ProfilePicture *string        `json:"profilePicture"`
	Gender         *string        `json:"gender"`
	BirthDate      *time.Time     `json:"birthDate"`
	FCMToken       *string        `json:"fcmToken"`
	Location       *LocationInput `json:"location"`
}

// Page bounds a list query. Zero Limit means the default.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

func (p Page) apply(query *gorm.DB) *gorm.DB {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	limit = min(limit, maxPageSize)
	return query.Limit(limit).Offset(max(p.Offset, 0))
}

// GetUser loads a user with its location
func GetUser(db *gorm.DB, id string) (*models.User, error) {
	if err := requireID(id, "user id"); err != nil {
		return nil, err
	}

	var user models.User
	if err := db.Preload("Location").Where("id = ?", id).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, types.Internal("failed to look up user", err)
	}
	return &user, nil
}

// ListUsers returns a page of users ordered by username
func ListUsers(db *gorm.DB, page Page) ([]models.User, error) {
	users := []models.User{}
	if err := page.apply(db.Order("username")).Find(&users).Error; err != nil {
		return nil, types.Internal("failed to list users", err)
	}
	return users, nil
}

// UpdateUser applies a profile update. A new location replaces the old one, which is deleted
// since locations are never shared.
func UpdateUser(db *gorm.DB, userID string, in UserUpdate) (*models.User, error) {
	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if isNotFound(err) {
				return types.ErrUserNotFound
			}
			return types.Internal("failed to look up user", err)
		}

		updates := map[string]interface{}{}
		if in.Username != nil {
			if *in.Username == "" {
				return types.Validation("username cannot be empty")
			}
			updates["username"] = *in.Username
		}
		if in.FirstName != nil {
			updates["first_name"] = *in.FirstName
		}
		if in.LastName != nil {
			updates["last_name"] = *in.LastName
		}
		if in.ProfilePicture != nil {
			updates["profile_picture"] = *in.ProfilePicture
		}
		if in.Gender != nil {
			updates["gender"] = *in.Gender
		}
		if in.BirthDate != nil {
			updates["birth_date"] = *in.BirthDate
		}
		if in.FCMToken != nil {
			updates["fcm_token"] = *in.FCMToken
		}

		if in.Location != nil {
			loc, err := createLocation(tx, *in.Location)
			if err != nil {
				return err
			}
			updates["location_id"] = loc.ID
			if user.LocationID != nil {
				if err := tx.Where("id = ?", *user.LocationID).Delete(&models.Location{}).Error; err != nil {
					return types.Internal("failed to replace location", err)
				}
			}
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			if isDuplicateKey(err) {
				return types.ErrUsernameTaken
			}
			return types.Internal("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetUser(db, userID)
}

// DeleteAccount removes a user and everything it owns in one transaction. Counters of the
// users and posts it touched are decremented, never below zero.
func DeleteAccount(db *gorm.DB, userID string) error {
	if err := requireID(userID, "user id"); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if isNotFound(err) {
				return types.ErrUserNotFound
			}
			return types.Internal("failed to look up user", err)
		}

		steps := []struct {
			name string
			run  func() error
		}{
			{"follow edges", func() error { return deleteFollowEdges(tx, userID) }},
			{"likes", func() error { return deleteLikesBy(tx, userID) }},
			{"posts", func() error {
				var postIDs []string
				if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
					return err
				}
				return deletePosts(tx, postIDs)
			}},
			{"products", func() error { return tx.Where("user_id = ?", userID).Delete(&models.Product{}).Error }},
			{"communities", func() error { return tx.Where("user_id = ?", userID).Delete(&models.Community{}).Error }},
			{"notifications", func() error {
				return tx.Where("user_id = ? OR actor_id = ?", userID, userID).Delete(&models.Notification{}).Error
			}},
			{"credential", func() error {
				var cred models.Credential
				err := tx.Where("user_id = ?", userID).First(&cred).Error
				if isNotFound(err) {
					return nil
				}
				if err != nil {
					return err
				}
				if err := tx.Where("email = ?", cred.Email).Delete(&models.VerificationCode{}).Error; err != nil {
					return err
				}
				return tx.Delete(&cred).Error
			}},
			{"user", func() error { return tx.Delete(&user).Error }},
			{"location", func() error {
				if user.LocationID == nil {
					return nil
				}
				return tx.Where("id = ?", *user.LocationID).Delete(&models.Location{}).Error
			}},
		}

		for _, step := range steps {
			if err := step.run(); err != nil {
				return types.Internal("failed to delete account "+step.name, err)
			}
		}
		return nil
	})
	if err != nil && types.KindOf(err) == types.KindInternal {
		log.Printf("delete account %s: %v", userID, err)
	}
	return err
}

// deleteFollowEdges removes every edge touching userID and adjusts the counters at the
// other end of each edge
func deleteFollowEdges(tx *gorm.DB, userID string) error {
	followed := tx.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID)
	if err := tx.Model(&models.User{}).
		Where("id IN (?) AND followers_count > 0", followed).
		UpdateColumn("followers_count", gorm.Expr("followers_count - ?", 1)).Error; err != nil {
		return err
	}

	followers := tx.Model(&models.Follow{}).Select("follower_id").Where("followed_id = ?", userID)
	if err := tx.Model(&models.User{}).
		Where("id IN (?) AND following_count > 0", followers).
		UpdateColumn("following_count", gorm.Expr("following_count - ?", 1)).Error; err != nil {
		return err
	}

	return tx.Where("follower_id = ? OR followed_id = ?", userID, userID).Delete(&models.Follow{}).Error
}

// deleteLikesBy removes userID's likes and decrements the liked posts
func deleteLikesBy(tx *gorm.DB, userID string) error {
	liked := tx.Model(&models.Like{}).Select("post_id").Where("user_id = ?", userID)
	if err := tx.Model(&models.Post{}).
		Where("id IN (?) AND likes_count > 0", liked).
		UpdateColumn("likes_count", gorm.Expr("likes_count - ?", 1)).Error; err != nil {
		return err
	}
	return tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error
}
