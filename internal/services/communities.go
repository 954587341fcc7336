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

package services

import (
	"strings"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
)

// CommunityInput is the creation and update form of a community
type CommunityInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in *CommunityInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || strings.TrimSpace(in.Description) == "" {
		return types.Validation("name and description are required")
	}
	return nil
}

// CreateCommunity creates a community owned by creatorID
func CreateCommunity(db *gorm.DB, creatorID string, in CommunityInput) (*models.Community, error) {
	if err := requireID(creatorID, "user id"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	community := &models.Community{
		Name:        in.Name,
		Description: in.Description,
		UserID:      creatorID,
	}
	if err := db.Create(community).Error; err != nil {
		return nil, types.Internal("failed to create community", err)
	}
	return community, nil
}

// GetCommunity loads a community with its creator summary
func GetCommunity(db *gorm.DB, id string) (*models.Community, error) {
	if err := requireID(id, "community id"); err != nil {
		return nil, err
	}

	var community models.Community
	if err := db.Preload("Creator", selectSummary).Where("id = ?", id).First(&community).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrCommunityNotFound
		}
		return nil, types.Internal("failed to look up community", err)
	}
	return &community, nil
}

// ListCommunities returns a page of communities, newest first. A non-empty creatorID
// restricts the list to that creator.
func ListCommunities(db *gorm.DB, creatorID string, page Page) ([]models.Community, error) {
	query := db.Preload("Creator", selectSummary).Order("created_at DESC").Order("id")
	if creatorID != "" {
		query = query.Where("user_id = ?", creatorID)
	}

	communities := []models.Community{}
	if err := page.apply(query).Find(&communities).Error; err != nil {
		return nil, types.Internal("failed to list communities", err)
	}
	return communities, nil
}

func ownedCommunity(tx *gorm.DB, callerID, id string) (*models.Community, error) {
	var community models.Community
	if err := tx.Where("id = ?", id).First(&community).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrCommunityNotFound
		}
		return nil, types.Internal("failed to look up community", err)
	}
	if community.UserID != callerID {
		return nil, types.ErrNotOwner
	}
	return &community, nil
}

// UpdateCommunity replaces the name and description of a community created by callerID
func UpdateCommunity(db *gorm.DB, callerID, id string, in CommunityInput) (*models.Community, error) {
	if err := requireID(id, "community id"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		community, err := ownedCommunity(tx, callerID, id)
		if err != nil {
			return err
		}
		if err := tx.Model(community).Updates(map[string]interface{}{
			"name":        in.Name,
			"description": in.Description,
		}).Error; err != nil {
			return types.Internal("failed to update community", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetCommunity(db, id)
}

// DeleteCommunity removes a community created by callerID
func DeleteCommunity(db *gorm.DB, callerID, id string) error {
	if err := requireID(id, "community id"); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		community, err := ownedCommunity(tx, callerID, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(community).Error; err != nil {
			return types.Internal("failed to delete community", err)
		}
		return nil
	})
}
