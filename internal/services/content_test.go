package services

import (
	"errors"
	"testing"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"github.com/localnerve/barrio/tests/helpers"
)

func TestProducts(t *testing.T) {
	db := helpers.OpenTestDB(t)
	owner := helpers.CreateTestUser(t, db, "owner", nil)
	other := helpers.CreateTestUser(t, db, "other", nil)
	bikes := helpers.CreateTestCategory(t, db, "Bicicletas", nil)

	product, err := CreateProduct(db, owner.ID, ProductInput{
		Name:        "Bici de montaña",
		Description: "Aro 29",
		Price:       types.FlexDecimal("250.50"),
		CategoryID:  &bikes.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if product.Price != "250.50" {
		t.Errorf("Expected price 250.50, got %q", product.Price)
	}

	if _, err := CreateProduct(db, owner.ID, ProductInput{Name: "x", Description: "y"}); types.KindOf(err) != types.KindValidation {
		t.Errorf("Expected a validation error without price, got %v", err)
	}

	listed, err := ListProducts(db, ProductFilter{CategoryID: bikes.ID})
	if err != nil || len(listed) != 1 {
		t.Errorf("Expected 1 product in category, got %d (%v)", len(listed), err)
	}

	price := types.FlexDecimal("199")
	if _, err := UpdateProduct(db, other.ID, product.ID, ProductUpdate{Price: &price}); !errors.Is(err, types.ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}
	none := ""
	updated, err := UpdateProduct(db, owner.ID, product.ID, ProductUpdate{Price: &price, CategoryID: &none})
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Price != "199" || updated.CategoryID != nil {
		t.Errorf("Unexpected product %+v", updated)
	}

	if err := DeleteProduct(db, owner.ID, product.ID); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if _, err := GetProduct(db, product.ID); !errors.Is(err, types.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestCommunities(t *testing.T) {
	db := helpers.OpenTestDB(t)
	creator := helpers.CreateTestUser(t, db, "creator", nil)
	other := helpers.CreateTestUser(t, db, "other", nil)

	community, err := CreateCommunity(db, creator.ID, CommunityInput{Name: " La Floresta ", Description: "Vecinos de La Floresta"})
	if err != nil {
		t.Fatalf("CreateCommunity failed: %v", err)
	}
	if community.Name != "La Floresta" {
		t.Errorf("Expected a trimmed name, got %q", community.Name)
	}

	got, err := GetCommunity(db, community.ID)
	if err != nil {
		t.Fatalf("GetCommunity failed: %v", err)
	}
	if got.Creator == nil || got.Creator.Username != "creator" {
		t.Errorf("Expected the creator to be loaded, got %+v", got.Creator)
	}

	mine, _ := ListCommunities(db, creator.ID, Page{})
	theirs, _ := ListCommunities(db, other.ID, Page{})
	if len(mine) != 1 || len(theirs) != 0 {
		t.Errorf("Expected the creator filter to apply, got %d and %d", len(mine), len(theirs))
	}

	in := CommunityInput{Name: "Floresta", Description: "Nuevo"}
	if _, err := UpdateCommunity(db, other.ID, community.ID, in); !errors.Is(err, types.ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}
	if err := DeleteCommunity(db, creator.ID, community.ID); err != nil {
		t.Fatalf("DeleteCommunity failed: %v", err)
	}
	if _, err := GetCommunity(db, community.ID); !errors.Is(err, types.ErrCommunityNotFound) {
		t.Errorf("Expected ErrCommunityNotFound, got %v", err)
	}
}

func TestNotificationInbox(t *testing.T) {
	db := helpers.OpenTestDB(t)
	owner := helpers.CreateTestUser(t, db, "owner", nil)
	actor := helpers.CreateTestUser(t, db, "actor", nil)

	var ids []string
	for i := 0; i < 3; i++ {
		n := models.Notification{UserID: owner.ID, ActorID: actor.ID, Type: models.NotificationNewFollower, Message: "hola"}
		if err := db.Create(&n).Error; err != nil {
			t.Fatalf("Failed to create notification: %v", err)
		}
		ids = append(ids, n.ID)
	}
	foreign := models.Notification{UserID: actor.ID, ActorID: owner.ID, Type: models.NotificationNewFollower, Message: "hola"}
	db.Create(&foreign)

	marked, err := MarkNotificationsRead(db, owner.ID, []string{ids[0], foreign.ID})
	if err != nil {
		t.Fatalf("MarkNotificationsRead failed: %v", err)
	}
	if marked != 1 {
		t.Errorf("Expected only the owner's notification to be marked, got %d", marked)
	}

	unread, _ := ListNotifications(db, owner.ID, NotificationFilter{UnreadOnly: true})
	if len(unread) != 2 {
		t.Errorf("Expected 2 unread, got %d", len(unread))
	}

	marked, _ = MarkNotificationsRead(db, owner.ID, nil)
	if marked != 2 {
		t.Errorf("Expected the remaining 2 to be marked, got %d", marked)
	}
	// Already read notifications are not counted again
	if again, err := MarkNotificationsRead(db, owner.ID, []string{ids[0]}); err != nil || again != 0 {
		t.Errorf("Expected nothing to change for a read notification, got %d (%v)", again, err)
	}
	if again, _ := MarkNotificationsRead(db, owner.ID, nil); again != 0 {
		t.Errorf("Expected nothing left to mark, got %d", again)
	}
	all, _ := ListNotifications(db, owner.ID, NotificationFilter{})
	if len(all) != 3 {
		t.Errorf("Expected 3 notifications, got %d", len(all))
	}
	for _, n := range all {
		if !n.Read {
			t.Errorf("Expected %s to be read", n.ID)
		}
	}
}
