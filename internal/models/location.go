// location.go
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

package models

// Location is owned by exactly one user or post; it is never shared.
// CityID and ProvinceID reference categories.
type Location struct {
	Base
	MainStreet      string    `gorm:"size:255;not null" json:"mainStreet"`
	SecondaryStreet string    `gorm:"size:255;not null" json:"secondaryStreet"`
	CityID          string    `gorm:"type:char(36);index;not null" json:"cityId"`
	City            *Category `gorm:"foreignKey:CityID" json:"city,omitempty"`
	ProvinceID      string    `gorm:"type:char(36);index;not null" json:"provinceId"`
	Province        *Category `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
}

// TableName overrides the table name for Location
func (Location) TableName() string {
	return "locations"
}

// Complete reports whether both city and province are set
func (l *Location) Complete() bool {
	return l.CityID != "" && l.ProvinceID != ""
}

// Category is a node in the category tree (province > city, product categories)
type Category struct {
	Base
	Name     string     `gorm:"size:255;not null" json:"name"`
	ParentID *string    `gorm:"type:char(36);index" json:"parentId"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// TableName overrides the table name for Category
func (Category) TableName() string {
	return "categories"
}
