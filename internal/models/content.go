// content.go
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

import "time"

// PostType enumerates what a post reports
type PostType string

const (
	PostTypeIncident       PostType = "incident"
	PostTypeCommerce       PostType = "commerce"
	PostTypeWaterOutage    PostType = "water_outage"
	PostTypeRecommendation PostType = "recommendation"
)

// Valid reports whether t is one of the known post types
func (t PostType) Valid() bool {
	switch t {
	case PostTypeIncident, PostTypeCommerce, PostTypeWaterOutage, PostTypeRecommendation:
		return true
	}
	return false
}

// Post is a location tagged announcement. LikesCount is denormalized from likes.
type Post struct {
	Base
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl"`
	PostType    PostType  `gorm:"size:32;not null;index" json:"postType"`
	PostDate    time.Time `gorm:"not null" json:"postDate"`
	UserID      string    `gorm:"type:char(36);not null;index" json:"userId"`
	Author      *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`
	LocationID  string    `gorm:"type:char(36);not null;index" json:"locationId"`
	Location    *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	LikesCount  int64     `gorm:"not null;default:0" json:"likesCount"`
}

// TableName overrides the table name for Post
func (Post) TableName() string {
	return "posts"
}

// Product is a marketplace listing. Price is kept in its decimal text form.
type Product struct {
	Base
	Name         string  `gorm:"size:255;not null" json:"name"`
	Description  string  `gorm:"type:text;not null" json:"description"`
	Price        string  `gorm:"size:32;not null" json:"price"`
	ProductImage string  `gorm:"size:512" json:"productImage"`
	UserID       string  `gorm:"type:char(36);not null;index" json:"userId"`
	CategoryID   *string `gorm:"type:char(36);index" json:"categoryId"`
}

// TableName overrides the table name for Product
func (Product) TableName() string {
	return "products"
}

// Community is a user created group
type Community struct {
	Base
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
	UserID      string `gorm:"type:char(36);not null;index" json:"userId"`
	Creator     *User  `gorm:"foreignKey:UserID" json:"creator,omitempty"`
}

// TableName overrides the table name for Community
func (Community) TableName() string {
	return "communities"
}
