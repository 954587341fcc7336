// notifications.go
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
)

// NotificationFilter narrows a notification listing
type NotificationFilter struct {
	UnreadOnly bool `json:"unreadOnly"`
	Page
}

// ListNotifications returns the recipient's notifications, newest first
func ListNotifications(db *gorm.DB, userID string, filter NotificationFilter) ([]models.Notification, error) {
	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}

	query := db.Where("user_id = ?", userID)
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	notifications := []models.Notification{}
	if err := filter.Page.apply(query.Order("created_at DESC").Order("id")).
		Find(&notifications).Error; err != nil {
		return nil, types.Internal("failed to list notifications", err)
	}
	return notifications, nil
}

// MarkNotificationsRead marks the given unread notifications of userID read, or all of them
// when ids is empty, and returns how many changed. Ids of other recipients are ignored.
func MarkNotificationsRead(db *gorm.DB, userID string, ids []string) (int64, error) {
	if err := requireID(userID, "user id"); err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := requireID(id, "notification id"); err != nil {
			return 0, err
		}
	}

	query := db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}

	res := query.Update("is_read", true)
	if res.Error != nil {
		return 0, types.Internal("failed to mark notifications read", res.Error)
	}
	return res.RowsAffected, nil
}
