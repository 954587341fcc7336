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

package services

import (
	"strings"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxCategoryDepth bounds the ancestor walk of the cycle check
const maxCategoryDepth = 64

// CategoryInput is the creation form of a category
type CategoryInput struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

// CategoryUpdate renames or reparents a category. ClearParent makes it a root.
type CategoryUpdate struct {
	Name        *string `json:"name"`
	ParentID    *string `json:"parentId"`
	ClearParent bool    `json:"clearParent"`
}

// CreateCategory creates a category under an optional parent
func CreateCategory(db *gorm.DB, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, types.Validation("name is required")
	}

	category := &models.Category{Name: name}

	if in.ParentID != nil && *in.ParentID != "" {
		if err := requireID(*in.ParentID, "parent id"); err != nil {
			return nil, err
		}
		if err := requireCategories(db, *in.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = in.ParentID
	}

	if err := db.Create(category).Error; err != nil {
		return nil, types.Internal("failed to create category", err)
	}
	return category, nil
}

// GetCategory loads a category with its direct children
func GetCategory(db *gorm.DB, id string) (*models.Category, error) {
	if err := requireID(id, "category id"); err != nil {
		return nil, err
	}

	var category models.Category
	if err := db.Preload("Children", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("name")
	}).Where("id = ?", id).First(&category).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrCategoryNotFound
		}
		return nil, types.Internal("failed to look up category", err)
	}
	return &category, nil
}

// ListCategories lists categories by name. With parentID it lists that parent's children,
// with rootsOnly the categories that have no parent.
func ListCategories(db *gorm.DB, parentID string, rootsOnly bool) ([]models.Category, error) {
	query := db.Order("name")

	switch {
	case parentID != "":
		if err := requireID(parentID, "parent id"); err != nil {
			return nil, err
		}
		query = query.Where("parent_id = ?", parentID)
	case rootsOnly:
		query = query.Where("parent_id IS NULL")
	}

	categories := []models.Category{}
	if err := query.Find(&categories).Error; err != nil {
		return nil, types.Internal("failed to list categories", err)
	}
	return categories, nil
}

// UpdateCategory renames or reparents a category. A parent that is the category itself or
// one of its descendants is rejected.
func UpdateCategory(db *gorm.DB, id string, in CategoryUpdate) (*models.Category, error) {
	if err := requireID(id, "category id"); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&category).Error; err != nil {
			if isNotFound(err) {
				return types.ErrCategoryNotFound
			}
			return types.Internal("failed to look up category", err)
		}

		updates := map[string]interface{}{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return types.Validation("name cannot be empty")
			}
			updates["name"] = name
		}

		switch {
		case in.ClearParent:
			updates["parent_id"] = nil
		case in.ParentID != nil && *in.ParentID != "":
			parentID := *in.ParentID
			if err := requireID(parentID, "parent id"); err != nil {
				return err
			}
			if err := checkAncestry(tx, id, parentID); err != nil {
				return err
			}
			updates["parent_id"] = parentID
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&category).Updates(updates).Error; err != nil {
			return types.Internal("failed to update category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetCategory(db, id)
}

// checkAncestry walks up from parentID and fails if it reaches id. Every ancestor is
// locked, so a concurrent reparent along the same chain waits for this transaction.
func checkAncestry(tx *gorm.DB, id, parentID string) error {
	current := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if current == id {
			return types.ErrCategoryCycle
		}

		var node models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "parent_id").
			Where("id = ?", current).
			First(&node).Error; err != nil {
			if isNotFound(err) {
				return types.ErrCategoryNotFound
			}
			return types.Internal("failed to look up category", err)
		}
		if node.ParentID == nil || *node.ParentID == "" {
			return nil
		}
		current = *node.ParentID
	}
	// An ancestor chain this long already holds a cycle or is corrupt
	return types.ErrCategoryCycle
}

// DeleteCategory removes a category that has no children and is not referenced
func DeleteCategory(db *gorm.DB, id string) error {
	if err := requireID(id, "category id"); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&category).Error; err != nil {
			if isNotFound(err) {
				return types.ErrCategoryNotFound
			}
			return types.Internal("failed to look up category", err)
		}

		var children, locations, products int64
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return types.Internal("failed to count child categories", err)
		}
		if children > 0 {
			return types.ErrCategoryHasChildren
		}

		if err := tx.Model(&models.Location{}).
			Where("city_id = ? OR province_id = ?", id, id).
			Count(&locations).Error; err != nil {
			return types.Internal("failed to count category references", err)
		}
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return types.Internal("failed to count category references", err)
		}
		if locations+products > 0 {
			return types.ErrCategoryInUse
		}

		if err := tx.Delete(&category).Error; err != nil {
			return types.Internal("failed to delete category", err)
		}
		return nil
	})
}
