// products.go
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

// ProductHandler handles marketplace routes
type ProductHandler struct {
	DB *gorm.DB
}

// CreateProduct handles POST /api/productscreate
// @Summary Create a product
// @Tags Products
// @Accept json
// @Produce json
// @Param body body services.ProductInput true "Product"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Security BearerAuth
// @Router /productscreate [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "createProduct")
	}

	var in services.ProductInput
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "createProduct")
	}

	product, err := services.CreateProduct(h.DB.WithContext(c.UserContext()), userID, in)
	if err != nil {
		return utils.ErrorResponse(c, err, "createProduct")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Product created", product)
}

// ListProducts handles POST /api/products
// @Summary List products
// @Tags Products
// @Accept json
// @Produce json
// @Param body body services.ProductFilter false "Category filter and paging"
// @Success 200 {object} utils.Envelope
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	var filter services.ProductFilter
	if err := parseBody(c, &filter); err != nil {
		return utils.ErrorResponse(c, err, "listProducts")
	}
	pageFromQuery(c, &filter.Page)
	if category := c.Query("category"); category != "" {
		filter.CategoryID = category
	}

	products, err := services.ListProducts(h.DB.WithContext(c.UserContext()), filter)
	if err != nil {
		return utils.ErrorResponse(c, err, "listProducts")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Products found", products)
}

// GetProduct handles POST /api/product/:id
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /product/{id} [post]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := services.GetProduct(h.DB.WithContext(c.UserContext()), c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, err, "getProduct")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Product found", product)
}

// UpdateProduct handles PUT /api/updateproducts/:id
// @Summary Update a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product id"
// @Param body body services.ProductUpdate true "Product fields"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /updateproducts/{id} [put]
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateProduct")
	}

	var in services.ProductUpdate
	if err := parseBody(c, &in); err != nil {
		return utils.ErrorResponse(c, err, "updateProduct")
	}

	product, err := services.UpdateProduct(h.DB.WithContext(c.UserContext()), userID, c.Params("id"), in)
	if err != nil {
		return utils.ErrorResponse(c, err, "updateProduct")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Product updated", product)
}

// DeleteProduct handles DELETE /api/deleteproducts/:id
// @Summary Delete a product
// @Tags Products
// @Produce json
// @Param id path string true "Product id"
// @Success 200 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Security BearerAuth
// @Router /deleteproducts/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, "deleteProduct")
	}

	if err := services.DeleteProduct(h.DB.WithContext(c.UserContext()), userID, c.Params("id")); err != nil {
		return utils.ErrorResponse(c, err, "deleteProduct")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Product deleted", nil)
}

// ProductsByUser handles POST /api/products/user/:id
// @Summary List a user's products
// @Tags Products
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} utils.Envelope
// @Security BearerAuth
// @Router /products/user/{id} [post]
func (h *ProductHandler) ProductsByUser(c *fiber.Ctx) error {
	var page services.Page
	pageFromQuery(c, &page)

	products, err := services.ListProductsByUser(h.DB.WithContext(c.UserContext()), c.Params("id"), page)
	if err != nil {
		return utils.ErrorResponse(c, err, "productsByUser")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Products found", products)
}
