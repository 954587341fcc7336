// admin.go
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
	"github.com/localnerve/barrio/internal/config"
	"github.com/localnerve/barrio/internal/services"
	"github.com/localnerve/barrio/internal/utils"
	"gorm.io/gorm"
)

// AdminHandler handles maintenance routes
type AdminHandler struct {
	DB *gorm.DB
}

// Reconcile handles POST /api/admin/reconcile
// @Summary Recompute denormalized counters
// @Description Recomputes followers, following and likes counters from the follow and like tables
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.Envelope
// @Failure 401 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Security BearerAuth
// @Router /admin/reconcile [post]
func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	report, err := services.Reconcile(h.DB.WithContext(c.UserContext()))
	if err != nil {
		return utils.ErrorResponse(c, err, "reconcile")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Counters reconciled", report)
}

// HealthHandler reports service health
type HealthHandler struct {
	DB     *gorm.DB
	Config *config.Config
}

// Health handles GET /api/health
// @Summary Service health
// @Tags Health
// @Produce json
// @Success 200 {object} utils.Envelope
// @Failure 503 {object} utils.Envelope
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Config, h.DB.WithContext(c.UserContext()))
	if result.Status == "unhealthy" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(utils.Envelope{
			Code:   utils.CodeError,
			Result: result,
			Info:   result.ErrorMessage,
		})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Service "+result.Status, result)
}
