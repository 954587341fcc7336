// locations.go
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

// LocationHandler handles location routes
type LocationHandler struct {
	DB *gorm.DB
}

// LocationUpdateRequest names the location and its new fields
type LocationUpdateRequest struct {
	ID string `json:"id"`
	services.LocationInput
}

// GetByID handles POST /api/locations/getById
// @Summary Get a location
// @Tags Locations
// @Accept json
// @Produce json
// @Param body body IDRequest true "Location id"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /locations/getById [post]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	var in IDRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "getLocation")
	}

	loc, err := services.GetLocation(h.DB.WithContext(c.UserContext()), in.ID)
	if err != nil {
		return utils.ErrorResponse(c, err, "getLocation")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Location found", loc)
}

// Update handles POST /api/locations/update
// @Summary Update a location
// @Description Only the owner of the profile or post holding the location may change it
// @Tags Locations
// @Accept json
// @Produce json
// @Param body body LocationUpdateRequest true "Location"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /locations/update [post]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateLocation")
	}

	var in LocationUpdateRequest
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "updateLocation")
	}

	loc, err := services.UpdateLocation(h.DB.WithContext(c.UserContext()), userID, in.ID, in.LocationInput)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateLocation")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Location updated", loc)
}
