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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/types"
	"github.com/localnerve/barrio/internal/utils"
	"gorm.io/gorm"
)

// NotificationHandler handles the in-app notification routes
type NotificationHandler struct {
	DB *gorm.DB
}

// MarkReadRequest names the notifications to mark; a single id or a list. Empty marks all.
type MarkReadRequest struct {
	IDs types.FlexList[string] `json:"ids"`
}

// MarkReadResult reports how many notifications changed
type MarkReadResult struct {
	Updated int64 `json:"updated"`
}

// ListNotifications handles POST /api/notifications
// @Summary List the caller's notifications
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body services.NotificationFilter false "Unread filter and paging"
// @Success 200 {object} utils.Envelope
// @Security BearerAuth
// @Router /notifications [post]
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "listNotifications")
	}

	var filter services.NotificationFilter
	if err := parseBody(c, &filter); err != nil {
		return utils.ErrorResponse(c, err, "listNotifications")
	}
	pageFromQuery(c, &filter.Page)

	notifications, err := services.ListNotifications(h.DB.WithContext(c.UserContext()), userID, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, "listNotifications")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Notifications found", notifications)
}

// MarkRead handles POST /api/notifications/read
// @Summary Mark notifications read
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body MarkReadRequest false "Notification ids"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Security BearerAuth
// @Router /notifications/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "markRead")
	}

	var in MarkReadRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "markRead")
	}

	updated, err := services.MarkNotificationsRead(h.DB.WithContext(c.UserContext()), userID, in.IDs.Slice())
	if err != nil {
		return utils.ErrorResponse(c, err, "markRead")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Notifications updated", MarkReadResult{Updated: updated})
}
