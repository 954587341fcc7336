// graph_test.go
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
	"errors"
	"sync"
	"testing"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/types"
	"github.com/localnerve/barrio/tests/helpers"
)

func TestFollowRoundTrip(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "ana", nil)
	b := helpers.CreateTestUser(t, db, "beto", nil)

	edge, err := Follow(db, a.ID, b.ID)
	if err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if edge.FollowerID != a.ID || edge.FollowedID != b.ID {
		t.Errorf("Unexpected edge %+v", edge)
	}

	if n := helpers.ReloadUser(t, db, a.ID).FollowingCount; n != 1 {
		t.Errorf("Expected followingCount 1, got %d", n)
	}
	if n := helpers.ReloadUser(t, db, b.ID).FollowersCount; n != 1 {
		t.Errorf("Expected followersCount 1, got %d", n)
	}

	following, err := IsFollowing(db, a.ID, b.ID)
	if err != nil || !following {
		t.Errorf("Expected a to follow b, got %v %v", following, err)
	}

	if err := Unfollow(db, a.ID, b.ID); err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if n := helpers.ReloadUser(t, db, a.ID).FollowingCount; n != 0 {
		t.Errorf("Expected followingCount 0, got %d", n)
	}
	if n := helpers.ReloadUser(t, db, b.ID).FollowersCount; n != 0 {
		t.Errorf("Expected followersCount 0, got %d", n)
	}

	following, _ = IsFollowing(db, a.ID, b.ID)
	if following {
		t.Error("Expected edge to be gone")
	}
}

func TestFollowTwice(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "ana", nil)
	b := helpers.CreateTestUser(t, db, "beto", nil)

	if _, err := Follow(db, a.ID, b.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	_, err := Follow(db, a.ID, b.ID)
	if !errors.Is(err, types.ErrAlreadyFollowing) {
		t.Fatalf("Expected ErrAlreadyFollowing, got %v", err)
	}

	// The failed follow must not have touched the counters
	if n := helpers.ReloadUser(t, db, b.ID).FollowersCount; n != 1 {
		t.Errorf("Expected followersCount 1, got %d", n)
	}
	if n := helpers.CountRows(t, db, &models.Follow{}, ""); n != 1 {
		t.Errorf("Expected one edge, got %d", n)
	}
}

func TestFollowRejects(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "ana", nil)
	missing := "00000000-0000-0000-0000-000000000000"

	tests := []struct {
		name     string
		follower string
		followed string
		want     error
	}{
		{"self", a.ID, a.ID, types.ErrSelfFollow},
		{"malformed id", a.ID, "not-a-uuid", types.ErrInvalidArgument},
		{"empty id", a.ID, "", types.ErrInvalidArgument},
		{"unknown user", a.ID, missing, types.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Follow(db, tt.follower, tt.followed)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if n := helpers.ReloadUser(t, db, a.ID).FollowingCount; n != 0 {
		t.Errorf("Expected followingCount 0, got %d", n)
	}
}

func TestUnfollowNotFollowing(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "ana", nil)
	b := helpers.CreateTestUser(t, db, "beto", nil)

	err := Unfollow(db, a.ID, b.ID)
	if !errors.Is(err, types.ErrNotFollowing) {
		t.Fatalf("Expected ErrNotFollowing, got %v", err)
	}
	if n := helpers.ReloadUser(t, db, b.ID).FollowersCount; n != 0 {
		t.Errorf("Expected followersCount 0, got %d", n)
	}
}

func TestUnfollowClampsDriftedCounter(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "ana", nil)
	b := helpers.CreateTestUser(t, db, "beto", nil)

	if _, err := Follow(db, a.ID, b.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	db.Model(&models.User{}).Where("id = ?", b.ID).UpdateColumn("followers_count", 0)

	if err := Unfollow(db, a.ID, b.ID); err != nil {
		t.Fatalf("Unfollow failed: %v", err)
	}
	if n := helpers.ReloadUser(t, db, b.ID).FollowersCount; n != 0 {
		t.Errorf("Expected followersCount to stay 0, got %d", n)
	}
}

func TestConcurrentFollowSamePair(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "ana", nil)
	b := helpers.CreateTestUser(t, db, "beto", nil)

	const racers = 10
	var wg sync.WaitGroup
	errs := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Follow(db, a.ID, b.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, types.ErrAlreadyFollowing):
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("Expected exactly one success, got %d", succeeded)
	}
	if n := helpers.CountRows(t, db, &models.Follow{}, ""); n != 1 {
		t.Errorf("Expected one edge, got %d", n)
	}
	if n := helpers.ReloadUser(t, db, b.ID).FollowersCount; n != 1 {
		t.Errorf("Expected followersCount 1, got %d", n)
	}
}

func TestListFollowersAndFollowing(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "ana", nil)
	b := helpers.CreateTestUser(t, db, "beto", nil)
	c := helpers.CreateTestUser(t, db, "carla", nil)

	for _, follower := range []string{b.ID, c.ID} {
		if _, err := Follow(db, follower, a.ID); err != nil {
			t.Fatalf("Follow failed: %v", err)
		}
	}

	seq, err := ListFollowers(db, a.ID)
	if err != nil {
		t.Fatalf("ListFollowers failed: %v", err)
	}
	followers, err := CollectSummaries(seq)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("Expected 2 followers, got %d", len(followers))
	}
	names := map[string]bool{}
	for _, f := range followers {
		names[f.Username] = true
	}
	if !names["beto"] || !names["carla"] {
		t.Errorf("Unexpected followers %+v", followers)
	}

	seq, err = ListFollowing(db, b.ID)
	if err != nil {
		t.Fatalf("ListFollowing failed: %v", err)
	}
	following, err := CollectSummaries(seq)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if len(following) != 1 || following[0].ID != a.ID {
		t.Errorf("Expected b to follow only a, got %+v", following)
	}

	seq, _ = ListFollowing(db, a.ID)
	empty, err := CollectSummaries(seq)
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected empty list, got %v %v", empty, err)
	}
}

func TestFollowerSequenceIsSingleUse(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "ana", nil)
	b := helpers.CreateTestUser(t, db, "beto", nil)
	if _, err := Follow(db, b.ID, a.ID); err != nil {
		t.Fatalf("Follow failed: %v", err)
	}

	seq, err := ListFollowers(db, a.ID)
	if err != nil {
		t.Fatalf("ListFollowers failed: %v", err)
	}
	if _, err := CollectSummaries(seq); err != nil {
		t.Fatalf("First pass failed: %v", err)
	}
	if _, err := CollectSummaries(seq); !errors.Is(err, ErrSequenceConsumed) {
		t.Errorf("Expected ErrSequenceConsumed on second pass, got %v", err)
	}
}

func TestListFollowersUnknownUser(t *testing.T) {
	db := helpers.OpenTestDB(t)

	_, err := ListFollowers(db, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, types.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
