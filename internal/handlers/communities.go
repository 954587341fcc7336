// communities.go
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

// CommunityHandler handles community routes
type CommunityHandler struct {
	DB *gorm.DB
}

// CreateCommunity handles POST /api/communities/create
// @Summary Create a community
// @Tags Communities
// @Accept json
// @Produce json
// @Param body body services.CommunityInput true "Community"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Security BearerAuth
// @Router /communities/create [post]
func (h *CommunityHandler) CreateCommunity(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "createCommunity")
	}

	var in services.CommunityInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "createCommunity")
	}

	community, err := services.CreateCommunity(h.DB.WithContext(c.UserContext()), userID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, "createCommunity")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Community created", community)
}

// ListCommunities handles POST /api/communities
// @Summary List communities
// @Tags Communities
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} utils.Envelope
// @Security BearerAuth
// @Router /communities [post]
func (h *CommunityHandler) ListCommunities(c *fiber.Ctx) error {
	var page services.Page
	if err := parseBody(c, &page); err != nil {
		return utils.ErrorResponse(c, err, "listCommunities")
	}
	pageFromQuery(c, &page)

	communities, err := services.ListCommunities(h.DB.WithContext(c.UserContext()), "", page)
	if err != nil {
		return utils.ErrorResponse(c, err, "listCommunities")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Communities found", communities)
}

// MyCommunities handles POST /api/communities/mine
// @Summary List the caller's communities
// @Tags Communities
// @Produce json
// @Success 200 {object} utils.Envelope
// @Security BearerAuth
// @Router /communities/mine [post]
func (h *CommunityHandler) MyCommunities(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "myCommunities")
	}

	var page services.Page
	pageFromQuery(c, &page)

	communities, err := services.ListCommunities(h.DB.WithContext(c.UserContext()), userID, page)
	if err != nil {
		return utils.ErrorResponse(c, err, "myCommunities")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Communities found", communities)
}

// GetCommunity handles POST /api/community/:id
// @Summary Get a community
// @Tags Communities
// @Produce json
// @Param id path string true "Community id"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /community/{id} [post]
func (h *CommunityHandler) GetCommunity(c *fiber.Ctx) error {
	community, err := services.GetCommunity(h.DB.WithContext(c.UserContext()), c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, "getCommunity")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Community found", community)
}

// UpdateCommunity handles PUT /api/communities/:id
// @Summary Update a community
// @Tags Communities
// @Accept json
// @Produce json
// @Param id path string true "Community id"
// @Param body body services.CommunityInput true "Community"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /communities/{id} [put]
func (h *CommunityHandler) UpdateCommunity(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateCommunity")
	}

	var in services.CommunityInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "updateCommunity")
	}

	community, err := services.UpdateCommunity(h.DB.WithContext(c.UserContext()), userID, c.Params("id"), in)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateCommunity")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Community updated", community)
}

// DeleteCommunity handles DELETE /api/communities/:id
// @Summary Delete a community
// @Tags Communities
// @Produce json
// @Param id path string true "Community id"
// @Success 200 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /communities/{id} [delete]
func (h *CommunityHandler) DeleteCommunity(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "deleteCommunity")
	}

	if err := services.DeleteCommunity(h.DB.WithContext(c.UserContext()), userID, c.Params("id")); err != nil {
		return utils.ErrorResponse(c, err, "deleteCommunity")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Community deleted", nil)
}
