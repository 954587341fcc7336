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

package services

import (
	"strings"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
)

// ProductInput is the creation form of a product
type ProductInput struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Price        types.FlexDecimal `json:"price"`
	ProductImage string            `json:"productImage"`
	CategoryID   *string           `json:"categoryId"`
}

// ProductUpdate carries the product fields to change; nil fields are left as they are
type ProductUpdate struct {
	Name         *string            `json:"name"`
	Description  *string            `json:"description"`
	Price        *types.FlexDecimal `json:"price"`
	ProductImage *string            `json:"productImage"`
	CategoryID   *string            `json:"categoryId"`
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	CategoryID string `json:"categoryId"`
	Page
}

func checkProductCategory(tx *gorm.DB, categoryID *string) error {
	if categoryID == nil || *categoryID == "" {
		return nil
	}
	if err := requireID(*categoryID, "category id"); err != nil {
		return err
	}
	return requireCategories(tx, *categoryID)
}

// CreateProduct lists a product for sale by ownerID
func CreateProduct(db *gorm.DB, ownerID string, in ProductInput) (*models.Product, error) {
	if err := requireID(ownerID, "user id"); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.Description) == "" {
		return nil, types.Validation("name and description are required")
	}
	if in.Price == "" {
		return nil, types.Validation("price is required")
	}
	if err := checkProductCategory(db, in.CategoryID); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price.String(),
		ProductImage: in.ProductImage,
		UserID:       ownerID,
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		product.CategoryID = in.CategoryID
	}

	if err := db.Create(product).Error; err != nil {
		return nil, types.Internal("failed to create product", err)
	}
	return product, nil
}

// GetProduct loads a product
func GetProduct(db *gorm.DB, id string) (*models.Product, error) {
	if err := requireID(id, "product id"); err != nil {
		return nil, err
	}

	var product models.Product
	if err := db.Where("id = ?", id).First(&product).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrProductNotFound
		}
		return nil, types.Internal("failed to look up product", err)
	}
	return &product, nil
}

// ListProducts returns a page of products, newest first
func ListProducts(db *gorm.DB, filter ProductFilter) ([]models.Product, error) {
	query := db.Order("created_at DESC").Order("id")
	if filter.CategoryID != "" {
		if err := requireID(filter.CategoryID, "category id"); err != nil {
			return nil, err
		}
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	products := []models.Product{}
	if err := filter.Page.apply(query).Find(&products).Error; err != nil {
		return nil, types.Internal("failed to list products", err)
	}
	return products, nil
}

// ListProductsByUser returns the products of a user, newest first
func ListProductsByUser(db *gorm.DB, userID string, page Page) ([]models.Product, error) {
	if err := requireID(userID, "user id"); err != nil {
		return nil, err
	}

	products := []models.Product{}
	if err := page.apply(db.Where("user_id = ?", userID).Order("created_at DESC").Order("id")).
		Find(&products).Error; err != nil {
		return nil, types.Internal("failed to list products", err)
	}
	return products, nil
}

func ownedProduct(tx *gorm.DB, callerID, productID string) (*models.Product, error) {
	var product models.Product
	if err := tx.Where("id = ?", productID).First(&product).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrProductNotFound
		}
		return nil, types.Internal("failed to look up product", err)
	}
	if product.UserID != callerID {
		return nil, types.ErrNotOwner
	}
	return &product, nil
}

// UpdateProduct changes a product owned by callerID
func UpdateProduct(db *gorm.DB, callerID, productID string, in ProductUpdate) (*models.Product, error) {
	if err := requireID(productID, "product id"); err != nil {
		return nil, err
	}

	var product *models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if product, err = ownedProduct(tx, callerID, productID); err != nil {
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
		if in.Price != nil && *in.Price != "" {
			updates["price"] = in.Price.String()
		}
		if in.ProductImage != nil {
			updates["product_image"] = *in.ProductImage
		}
		if in.CategoryID != nil {
			if *in.CategoryID == "" {
				updates["category_id"] = nil
			} else {
				if err := checkProductCategory(tx, in.CategoryID); err != nil {
					return err
				}
				updates["category_id"] = *in.CategoryID
			}
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(product).Updates(updates).Error; err != nil {
			return types.Internal("failed to update product", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetProduct(db, productID)
}

// DeleteProduct removes a product owned by callerID
func DeleteProduct(db *gorm.DB, callerID, productID string) error {
	if err := requireID(productID, "product id"); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		product, err := ownedProduct(tx, callerID, productID)
		if err != nil {
			return err
		}
		if err := tx.Delete(product).Error; err != nil {
			return types.Internal("failed to delete product", err)
		}
		return nil
	})
}
