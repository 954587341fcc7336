package services

import (
	"errors"
	"testing"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"github.com/localnerve/barrio/tests/helpers"
)

func TestUpdateUserReplacesLocation(t *testing.T) {
	db := helpers.OpenTestDB(t)
	quito := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	guayaquil := helpers.CreateTestPlace(t, db, "Guayas", "Guayaquil")
	user := helpers.CreateTestUser(t, db, "mover", &quito)
	oldLocation := *user.LocationID

	first := "Moví"
	updated, err := UpdateUser(db, user.ID, UserUpdate{FirstName: &first, Location: locationAt(guayaquil)})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.FirstName != first || updated.Location == nil || updated.Location.CityID != guayaquil.City.ID {
		t.Errorf("Unexpected user %+v", updated)
	}
	if n := helpers.CountRows(t, db, &models.Location{}, "id = ?", oldLocation); n != 0 {
		t.Error("Expected the old location to be deleted")
	}

	helpers.CreateTestUser(t, db, "other", nil)
	taken := "other"
	if _, err := UpdateUser(db, user.ID, UserUpdate{Username: &taken}); !errors.Is(err, types.ErrUsernameTaken) {
		t.Errorf("Expected ErrUsernameTaken, got %v", err)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	gone, err := Register(db, RegisterInput{
		Email:    "gone@example.com",
		Password: "correct-horse",
		Username: "gone",
		Location: locationAt(place),
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	followed := helpers.CreateTestUser(t, db, "followed", nil)
	follower := helpers.CreateTestUser(t, db, "follower", nil)
	other := helpers.CreateTestUser(t, db, "other", &place)

	goneUser := helpers.ReloadUser(t, db, gone.ID)
	ownPost := helpers.CreateTestPost(t, db, goneUser, "own", models.PostTypeIncident, place)
	otherPost := helpers.CreateTestPost(t, db, other, "other", models.PostTypeIncident, place)

	mustNot := func(_ interface{}, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	mustNot(Follow(db, gone.ID, followed.ID))
	mustNot(Follow(db, follower.ID, gone.ID))
	mustNot(Like(db, gone.ID, otherPost.ID))
	mustNot(Like(db, other.ID, ownPost.ID))
	mustNot(CreateProduct(db, gone.ID, ProductInput{Name: "bici", Description: "usada", Price: "80"}))
	mustNot(CreateCommunity(db, gone.ID, CommunityInput{Name: "vecinos", Description: "del barrio"}))
	mustNot(IssueCode(db, "gone@example.com", models.PurposePasswordReset, 0))

	if err := DeleteAccount(db, gone.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if n := helpers.ReloadUser(t, db, followed.ID).FollowersCount; n != 0 {
		t.Errorf("Expected followed.followersCount 0, got %d", n)
	}
	if n := helpers.ReloadUser(t, db, follower.ID).FollowingCount; n != 0 {
		t.Errorf("Expected follower.followingCount 0, got %d", n)
	}
	if n := helpers.ReloadPost(t, db, otherPost.ID).LikesCount; n != 0 {
		t.Errorf("Expected otherPost.likesCount 0, got %d", n)
	}

	leftovers := []struct {
		model interface{}
		query string
		args  []interface{}
	}{
		{&models.User{}, "id = ?", []interface{}{gone.ID}},
		{&models.Credential{}, "user_id = ?", []interface{}{gone.ID}},
		{&models.Follow{}, "follower_id = ? OR followed_id = ?", []interface{}{gone.ID, gone.ID}},
		{&models.Like{}, "user_id = ? OR post_id = ?", []interface{}{gone.ID, ownPost.ID}},
		{&models.Post{}, "user_id = ?", []interface{}{gone.ID}},
		{&models.Product{}, "user_id = ?", []interface{}{gone.ID}},
		{&models.Community{}, "user_id = ?", []interface{}{gone.ID}},
		{&models.VerificationCode{}, "email = ?", []interface{}{"gone@example.com"}},
		{&models.Location{}, "id IN ?", []interface{}{[]string{*gone.LocationID, ownPost.LocationID}}},
	}
	for _, l := range leftovers {
		if n := helpers.CountRows(t, db, l.model, l.query, l.args...); n != 0 {
			t.Errorf("Expected no %T rows left, got %d", l.model, n)
		}
	}

	if err := DeleteAccount(db, gone.ID); !errors.Is(err, types.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound on a second delete, got %v", err)
	}
}
