package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"github.com/localnerve/barrio/tests/helpers"
)

func TestCategoryTree(t *testing.T) {
	db := helpers.OpenTestDB(t)

	province, err := CreateCategory(db, CategoryInput{Name: " Pichincha "})
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if province.Name != "Pichincha" {
		t.Errorf("Expected a trimmed name, got %q", province.Name)
	}
	for _, name := range []string{"Quito", "Cayambe"} {
		if _, err := CreateCategory(db, CategoryInput{Name: name, ParentID: &province.ID}); err != nil {
			t.Fatalf("CreateCategory %s failed: %v", name, err)
		}
	}

	got, err := GetCategory(db, province.ID)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if len(got.Children) != 2 || got.Children[0].Name != "Cayambe" {
		t.Errorf("Expected 2 children ordered by name, got %+v", got.Children)
	}

	roots, _ := ListCategories(db, "", true)
	if len(roots) != 1 {
		t.Errorf("Expected 1 root, got %d", len(roots))
	}
	children, _ := ListCategories(db, province.ID, false)
	if len(children) != 2 {
		t.Errorf("Expected 2 children, got %d", len(children))
	}

	missing := "00000000-0000-0000-0000-000000000000"
	if _, err := CreateCategory(db, CategoryInput{Name: "Orphan", ParentID: &missing}); !errors.Is(err, types.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound for a missing parent, got %v", err)
	}
}

func TestUpdateCategoryRejectsCycle(t *testing.T) {
	db := helpers.OpenTestDB(t)
	root := helpers.CreateTestCategory(t, db, "root", nil)
	child := helpers.CreateTestCategory(t, db, "child", root)
	grandchild := helpers.CreateTestCategory(t, db, "grandchild", child)

	if _, err := UpdateCategory(db, root.ID, CategoryUpdate{ParentID: &grandchild.ID}); !errors.Is(err, types.ErrCategoryCycle) {
		t.Errorf("Expected ErrCategoryCycle, got %v", err)
	}
	if _, err := UpdateCategory(db, root.ID, CategoryUpdate{ParentID: &root.ID}); !errors.Is(err, types.ErrCategoryCycle) {
		t.Errorf("Expected ErrCategoryCycle for self parent, got %v", err)
	}

	name := "renamed"
	updated, err := UpdateCategory(db, grandchild.ID, CategoryUpdate{Name: &name, ClearParent: true})
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if updated.Name != "renamed" || updated.ParentID != nil {
		t.Errorf("Expected a renamed root, got %+v", updated)
	}
}

func TestConcurrentReparentKeepsTreeAcyclic(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestCategory(t, db, "a", nil)
	b := helpers.CreateTestCategory(t, db, "b", nil)

	moves := []struct{ id, parentID string }{
		{a.ID, b.ID},
		{b.ID, a.ID},
	}
	errs := make([]error, len(moves))
	var wg sync.WaitGroup
	for i, move := range moves {
		wg.Add(1)
		go func(i int, id, parentID string) {
			defer wg.Done()
			_, errs[i] = UpdateCategory(db, id, CategoryUpdate{ParentID: &parentID})
		}(i, move.id, move.parentID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case !errors.Is(err, types.ErrCategoryCycle):
			t.Errorf("Expected ErrCategoryCycle for the losing move, got %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("Expected exactly one move to succeed, got %d", succeeded)
	}

	var reloadedA, reloadedB models.Category
	db.First(&reloadedA, "id = ?", a.ID)
	db.First(&reloadedB, "id = ?", b.ID)
	if reloadedA.ParentID != nil && reloadedB.ParentID != nil {
		t.Errorf("Expected no cycle, a.parent=%s b.parent=%s", *reloadedA.ParentID, *reloadedB.ParentID)
	}
}

func TestDeleteCategory(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	unused := helpers.CreateTestCategory(t, db, "Galápagos", nil)
	helpers.CreateTestLocation(t, db, place.City.ID, place.Province.ID)

	if err := DeleteCategory(db, place.Province.ID); !errors.Is(err, types.ErrCategoryHasChildren) {
		t.Errorf("Expected ErrCategoryHasChildren, got %v", err)
	}
	if err := DeleteCategory(db, place.City.ID); !errors.Is(err, types.ErrCategoryInUse) {
		t.Errorf("Expected ErrCategoryInUse, got %v", err)
	}
	if err := DeleteCategory(db, unused.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if n := helpers.CountRows(t, db, &models.Category{}, "id = ?", unused.ID); n != 0 {
		t.Error("Expected the category to be deleted")
	}
	if err := DeleteCategory(db, unused.ID); !errors.Is(err, types.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}
