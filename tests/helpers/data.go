// data.go
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

package helpers

import (
	"testing"
	"time"

	"github.com/localnerve/barrio/internal/database"
	"github.com/localnerve/barrio/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens a private in-memory SQLite database with the barrio schema.
// One connection keeps every query on the same in-memory database.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestCategory creates a category under an optional parent
func CreateTestCategory(t *testing.T, db *gorm.DB, name string, parent *models.Category) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	if parent != nil {
		category.ParentID = &parent.ID
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create category %s: %v", name, err)
	}
	return category
}

// Place is a province with one of its cities
type Place struct {
	Province *models.Category
	City     *models.Category
}

// CreateTestPlace creates a province category and a city under it
func CreateTestPlace(t *testing.T, db *gorm.DB, province, city string) Place {
	t.Helper()
	p := CreateTestCategory(t, db, province, nil)
	return Place{Province: p, City: CreateTestCategory(t, db, city, p)}
}

// CreateTestLocation creates a location in the given city and province
func CreateTestLocation(t *testing.T, db *gorm.DB, cityID, provinceID string) *models.Location {
	t.Helper()
	loc := &models.Location{
		MainStreet:      "Av. Amazonas",
		SecondaryStreet: "Colon",
		CityID:          cityID,
		ProvinceID:      provinceID,
	}
	if err := db.Create(loc).Error; err != nil {
		t.Fatalf("Failed to create location: %v", err)
	}
	return loc
}

// CreateTestUser creates a user. A non nil place gives the user a location there.
func CreateTestUser(t *testing.T, db *gorm.DB, username string, place *Place) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		FirstName: username,
	}
	if place != nil {
		loc := CreateTestLocation(t, db, place.City.ID, place.Province.ID)
		user.LocationID = &loc.ID
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// SetTestToken registers a push token for a user
func SetTestToken(t *testing.T, db *gorm.DB, userID, token string) {
	t.Helper()
	if err := db.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("fcm_token", token).Error; err != nil {
		t.Fatalf("Failed to set push token: %v", err)
	}
}

// CreateTestPost creates a post with its own location at place. Successive posts get
// increasing creation times so feed order is deterministic.
func CreateTestPost(t *testing.T, db *gorm.DB, author *models.User, name string, postType models.PostType, place Place) *models.Post {
	t.Helper()
	loc := CreateTestLocation(t, db, place.City.ID, place.Province.ID)

	var count int64
	db.Model(&models.Post{}).Count(&count)
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(count) * time.Minute)

	post := &models.Post{
		Name:        name,
		Description: name + " description",
		PostType:    postType,
		PostDate:    created,
		UserID:      author.ID,
		LocationID:  loc.ID,
	}
	post.CreatedAt = created
	if err := db.Omit("Author", "Location").Create(post).Error; err != nil {
		t.Fatalf("Failed to create post %s: %v", name, err)
	}
	return post
}

// ReloadUser reads a user back from the database
func ReloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		t.Fatalf("Failed to reload user %s: %v", id, err)
	}
	return &user
}

// ReloadPost reads a post back from the database
func ReloadPost(t *testing.T, db *gorm.DB, id string) *models.Post {
	t.Helper()
	var post models.Post
	if err := db.Where("id = ?", id).First(&post).Error; err != nil {
		t.Fatalf("Failed to reload post %s: %v", id, err)
	}
	return &post
}

// CountRows counts the rows of model matching an optional condition
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return count
}
