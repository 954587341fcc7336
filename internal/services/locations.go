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

package services

import (
	"strings"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"gorm.io/gorm"
)

// LocationInput is the client form of a location
type LocationInput struct {
	MainStreet      string `json:"mainStreet"`
	SecondaryStreet string `json:"secondaryStreet"`
	CityID          string `json:"cityId"`
	ProvinceID      string `json:"provinceId"`
}

func (in *LocationInput) validate() error {
	in.MainStreet = strings.TrimSpace(in.MainStreet)
	in.SecondaryStreet = strings.TrimSpace(in.SecondaryStreet)

	if in.MainStreet == "" || in.SecondaryStreet == "" {
		return types.Validation("main and secondary street are required")
	}
	if in.CityID == "" || in.ProvinceID == "" {
		return types.Validation("city and province are required")
	}
	if err := requireID(in.CityID, "city id"); err != nil {
		return err
	}
	return requireID(in.ProvinceID, "province id")
}

func (in *LocationInput) apply(loc *models.Location) {
	loc.MainStreet = in.MainStreet
	loc.SecondaryStreet = in.SecondaryStreet
	loc.CityID = in.CityID
	loc.ProvinceID = in.ProvinceID
}

// requireCategories checks that every id names an existing category
func requireCategories(tx *gorm.DB, ids ...string) error {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	var count int64
	if err := tx.Model(&models.Category{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return types.Internal("failed to look up category", err)
	}
	if count != int64(len(unique)) {
		return types.ErrCategoryNotFound
	}
	return nil
}

// createLocation validates and inserts a new, unshared location
func createLocation(tx *gorm.DB, in LocationInput) (*models.Location, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := requireCategories(tx, in.CityID, in.ProvinceID); err != nil {
		return nil, err
	}

	loc := &models.Location{}
	in.apply(loc)
	if err := tx.Create(loc).Error; err != nil {
		return nil, types.Internal("failed to create location", err)
	}
	return loc, nil
}

// GetLocation loads a location with its city and province
func GetLocation(db *gorm.DB, id string) (*models.Location, error) {
	if err := requireID(id, "location id"); err != nil {
		return nil, err
	}

	var loc models.Location
	if err := db.Preload("City").Preload("Province").Where("id = ?", id).First(&loc).Error; err != nil {
		if isNotFound(err) {
			return nil, types.ErrLocationNotFound
		}
		return nil, types.Internal("failed to look up location", err)
	}
	return &loc, nil
}

// locationOwner reports whether callerID owns the location through their profile or a post
func locationOwner(tx *gorm.DB, callerID, locationID string) (bool, error) {
	var users, posts int64
	if err := tx.Model(&models.User{}).
		Where("id = ? AND location_id = ?", callerID, locationID).
		Count(&users).Error; err != nil {
		return false, err
	}
	if users > 0 {
		return true, nil
	}
	if err := tx.Model(&models.Post{}).
		Where("user_id = ? AND location_id = ?", callerID, locationID).
		Count(&posts).Error; err != nil {
		return false, err
	}
	return posts > 0, nil
}

// UpdateLocation replaces the fields of a location owned by callerID
func UpdateLocation(db *gorm.DB, callerID, locationID string, in LocationInput) (*models.Location, error) {
	if err := requireID(locationID, "location id"); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var loc models.Location
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", locationID).First(&loc).Error; err != nil {
			if isNotFound(err) {
				return types.ErrLocationNotFound
			}
			return types.Internal("failed to look up location", err)
		}

		owned, err := locationOwner(tx, callerID, locationID)
		if err != nil {
			return types.Internal("failed to look up location owner", err)
		}
		if !owned {
			return types.ErrNotOwner
		}

		if err := requireCategories(tx, in.CityID, in.ProvinceID); err != nil {
			return err
		}

		in.apply(&loc)
		if err := tx.Save(&loc).Error; err != nil {
			return types.Internal("failed to update location", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
