// categories.go
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

// CategoryHandler handles the category tree routes
type CategoryHandler struct {
	DB *gorm.DB
}

// ListCategories handles GET /api/categories?parent=...&roots=true
// @Summary List categories
// @Tags Categories
// @Produce json
// @Param parent query string false "Parent category id"
// @Param roots query bool false "Only categories without a parent"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := services.ListCategories(h.DB.WithContext(c.UserContext()), c.Query("parent"), c.QueryBool("roots"))
	if err != nil {
		return utils.ErrorResponse(c, err, "listCategories")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Categories found", categories)
}

// GetCategory handles GET /api/categories/:id
// @Summary Get a category with its children
// @Tags Categories
// @Produce json
// @Param id path string true "Category id"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	category, err := services.GetCategory(h.DB.WithContext(c.UserContext()), c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, "getCategory")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Category found", category)
}

// CreateCategory handles POST /api/categories/create
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param body body services.CategoryInput true "Category"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Security BearerAuth
// @Router /categories/create [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "createCategory")
	}

	category, err := services.CreateCategory(h.DB.WithContext(c.UserContext()), in)
	if err != nil {
		return utils.ErrorResponse(c, err, "createCategory")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Category created", category)
}

// UpdateCategory handles PUT /api/categories/:id
// @Summary Rename or reparent a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path string true "Category id"
// @Param body body services.CategoryUpdate true "Category fields"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	var in services.CategoryUpdate
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "updateCategory")
	}

	category, err := services.UpdateCategory(h.DB.WithContext(c.UserContext()), c.Params("id"), in)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateCategory")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Category updated", category)
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary Delete a category
// @Description Rejected while the category has children or is referenced
// @Tags Categories
// @Produce json
// @Param id path string true "Category id"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	if err := services.DeleteCategory(h.DB.WithContext(c.UserContext()), c.Params("id")); err != nil {
		return utils.ErrorResponse(c, err, "deleteCategory")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Category deleted", nil)
}
