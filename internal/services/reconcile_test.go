package services

import (
	"testing"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/tests/helpers"
)

func TestReconcileRepairsDrift(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	a := helpers.CreateTestUser(t, db, "ana", &place)
	b := helpers.CreateTestUser(t, db, "beto", nil)
	post := helpers.CreateTestPost(t, db, a, "minga", models.PostTypeRecommendation, place)

	if _, err := Follow(db, a.ID, b.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if _, err := Like(db, b.ID, post.ID); err != nil {
		t.Fatalf("Like failed: %v", err)
	}

	// Nothing to do on consistent data
	report, err := Reconcile(db)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if report.Total() != 0 {
		t.Errorf("Expected no drift, got %+v", report)
	}

	db.Model(&models.User{}).Where("id = ?", b.ID).UpdateColumn("followers_count", 5)
	db.Model(&models.User{}).Where("id = ?", a.ID).UpdateColumn("following_count", 0)
	db.Model(&models.Post{}).Where("id = ?", post.ID).UpdateColumn("likes_count", 9)

	report, err = Reconcile(db)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if report.FollowersCount != 1 || report.FollowingCount != 1 || report.LikesCount != 1 {
		t.Errorf("Expected one drifted row per counter, got %+v", report)
	}
	if report.Total() != 3 {
		t.Errorf("Expected total 3, got %d", report.Total())
	}

	if n := helpers.ReloadUser(t, db, b.ID).FollowersCount; n != 1 {
		t.Errorf("Expected followersCount 1, got %d", n)
	}
	if n := helpers.ReloadUser(t, db, a.ID).FollowingCount; n != 1 {
		t.Errorf("Expected followingCount 1, got %d", n)
	}
	if n := helpers.ReloadPost(t, db, post.ID).LikesCount; n != 1 {
		t.Errorf("Expected likesCount 1, got %d", n)
	}
}
