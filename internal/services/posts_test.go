package services

import (
	"errors"
	"testing"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"github.com/localnerve/barrio/tests/helpers"
)

func locationAt(place helpers.Place) *LocationInput {
	return &LocationInput{
		MainStreet:      "Av. 10 de Agosto",
		SecondaryStreet: "Río Coca",
		CityID:          place.City.ID,
		ProvinceID:      place.Province.ID,
	}
}

func TestCreatePost(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	author := helpers.CreateTestUser(t, db, "author", &place)

	post, err := CreatePost(db, author.ID, PostInput{
		Name:        "Fuga de agua",
		Description: "Tubería rota en la esquina",
		PostType:    models.PostTypeWaterOutage,
		Location:    locationAt(place),
	})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if post.LocationID == "" || post.LikesCount != 0 {
		t.Errorf("Unexpected post %+v", post)
	}

	got, err := GetPost(db, post.ID)
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if got.Author == nil || got.Author.Username != "author" || got.Location == nil {
		t.Errorf("Expected author and location to be loaded, got %+v", got)
	}

	posts, err := ListPostsByUser(db, author.ID, Page{})
	if err != nil || len(posts) != 1 {
		t.Errorf("Expected 1 post by author, got %d (%v)", len(posts), err)
	}
}

func TestCreatePostRejects(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	author := helpers.CreateTestUser(t, db, "author", &place)
	missing := helpers.Place{
		City:     &models.Category{Base: models.Base{ID: "00000000-0000-0000-0000-000000000000"}},
		Province: place.Province,
	}

	tests := []struct {
		name string
		in   PostInput
		want types.Kind
	}{
		{"no name", PostInput{Description: "d", PostType: models.PostTypeIncident, Location: locationAt(place)}, types.KindValidation},
		{"bad type", PostInput{Name: "n", Description: "d", PostType: "gossip", Location: locationAt(place)}, types.KindValidation},
		{"no location", PostInput{Name: "n", Description: "d", PostType: models.PostTypeIncident}, types.KindValidation},
		{"unknown city", PostInput{Name: "n", Description: "d", PostType: models.PostTypeIncident, Location: locationAt(missing)}, types.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CreatePost(db, author.ID, tt.in); types.KindOf(err) != tt.want {
				t.Errorf("Expected kind %s, got %v", tt.want, err)
			}
		})
	}

	// Nothing half created
	if n := helpers.CountRows(t, db, &models.Location{}, ""); n != 1 {
		t.Errorf("Expected only the author's location, got %d", n)
	}
}

func TestUpdatePostOwnership(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	author := helpers.CreateTestUser(t, db, "author", &place)
	other := helpers.CreateTestUser(t, db, "other", nil)
	post := helpers.CreateTestPost(t, db, author, "feria", models.PostTypeCommerce, place)

	name := "feria del sábado"
	if _, err := UpdatePost(db, other.ID, post.ID, PostUpdate{Name: &name}); !errors.Is(err, types.ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}

	updated, err := UpdatePost(db, author.ID, post.ID, PostUpdate{Name: &name, Location: locationAt(place)})
	if err != nil {
		t.Fatalf("UpdatePost failed: %v", err)
	}
	if updated.Name != name || updated.LocationID != post.LocationID {
		t.Errorf("Expected the name to change in place, got %+v", updated)
	}
	if updated.Location.MainStreet != "Av. 10 de Agosto" {
		t.Errorf("Expected the location to be updated, got %+v", updated.Location)
	}
}

func TestDeletePostCascades(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	author := helpers.CreateTestUser(t, db, "author", &place)
	liker := helpers.CreateTestUser(t, db, "liker", nil)
	post := helpers.CreateTestPost(t, db, author, "bache", models.PostTypeIncident, place)

	if _, err := Like(db, liker.ID, post.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	db.Create(&models.Notification{UserID: author.ID, ActorID: liker.ID, PostID: &post.ID,
		Type: models.NotificationNewLike, Message: "liked"})

	if err := DeletePost(db, liker.ID, post.ID); !errors.Is(err, types.ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}
	if err := DeletePost(db, author.ID, post.ID); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}

	checks := []struct {
		model interface{}
		query string
		arg   string
	}{
		{&models.Post{}, "id = ?", post.ID},
		{&models.Like{}, "post_id = ?", post.ID},
		{&models.Notification{}, "post_id = ?", post.ID},
		{&models.Location{}, "id = ?", post.LocationID},
	}
	for _, c := range checks {
		if n := helpers.CountRows(t, db, c.model, c.query, c.arg); n != 0 {
			t.Errorf("Expected %T rows to be deleted, %d left", c.model, n)
		}
	}
	if _, err := GetPost(db, post.ID); !errors.Is(err, types.ErrPostNotFound) {
		t.Errorf("Expected ErrPostNotFound, got %v", err)
	}
}
