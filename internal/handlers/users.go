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

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles user profile routes
type UserHandler struct {
	DB *gorm.DB
}

// IDRequest names an entity by id in the body
type IDRequest struct {
	ID string `json:"id"`
}

// ListUsers handles POST /api/users/all
// @Summary List users
// @Tags Users
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} utils.Envelope
// @Security BearerAuth
// @Router /users/all [post]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	var page services.Page
	if err := parseBody(c, &page); err != nil {
		return utils.ErrorResponse(c, err, "listUsers")
	}
	pageFromQuery(c, &page)

	users, err := services.ListUsers(h.DB.WithContext(c.UserContext()), page)
	if err != nil {
		return utils.ErrorResponse(c, err, "listUsers")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Users found", users)
}

// GetUserByID handles POST /api/users/getById
// @Summary Get a user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body IDRequest true "User id"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /users/getById [post]
func (h *UserHandler) GetUserByID(c *fiber.Ctx) error {
	var in IDRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "getUserById")
	}

	user, err := services.GetUser(h.DB.WithContext(c.UserContext()), in.ID)
	if err != nil {
		return utils.ErrorResponse(c, err, "getUserById")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "User found", user)
}

// UpdateUser handles POST /api/users/update
// @Summary Update the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.UserUpdate true "Profile fields"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Security BearerAuth
// @Router /users/update [post]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateUser")
	}

	var in services.UserUpdate
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "updateUser")
	}

	user, err := services.UpdateUser(h.DB.WithContext(c.UserContext()), userID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateUser")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "User updated", user)
}

// DeleteUser handles POST /api/users/delete
// @Summary Delete the caller's account
// @Description Removes the account and everything it owns
// @Tags Users
// @Produce json
// @Success 200 {object} utils.Envelope
// @Security BearerAuth
// @Router /users/delete [post]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "deleteUser")
	}

	if err := services.DeleteAccount(h.DB.WithContext(c.UserContext()), userID); err != nil {
		return utils.ErrorResponse(c, err, "deleteUser")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "User deleted", nil)
}
