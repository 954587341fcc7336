package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/push"
	"github.com/localnerve/barrio/tests/helpers"
)

// fakePusher records sends and fails the tokens listed in failing
type fakePusher struct {
	mu      sync.Mutex
	failing map[string]bool
	err     error
	block   bool
	sent    [][]string
}

func (f *fakePusher) Send(ctx context.Context, tokens []string, msg push.Message) ([]push.Result, error) {
	f.mu.Lock()
	f.sent = append(f.sent, append([]string(nil), tokens...))
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}

	results := make([]push.Result, len(tokens))
	for i, token := range tokens {
		results[i] = push.Result{Token: token}
		if f.failing[token] {
			results[i].Err = errors.New("device unreachable")
		}
	}
	return results, nil
}

func TestNotifyNewPostFanOut(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	author := helpers.CreateTestUser(t, db, "author", &place)

	withToken := helpers.CreateTestUser(t, db, "with-token", nil)
	badToken := helpers.CreateTestUser(t, db, "bad-token", nil)
	noToken := helpers.CreateTestUser(t, db, "no-token", nil)
	helpers.SetTestToken(t, db, withToken.ID, "tok-ok")
	helpers.SetTestToken(t, db, badToken.ID, "tok-bad")

	for _, u := range []*models.User{withToken, badToken, noToken} {
		if _, err := Follow(db, u.ID, author.ID); err != nil {
			t.Fatalf("Follow failed: %v", err)
		}
	}
	post := helpers.CreateTestPost(t, db, author, "corte de luz", models.PostTypeIncident, place)

	pusher := &fakePusher{failing: map[string]bool{"tok-bad": true}}
	d := NewDispatcher(db, pusher, time.Second)

	report := d.NotifyNewPost(context.Background(), author.ID, post.ID)

	if report.Recipients != 3 || report.Requested != 2 || report.Delivered != 1 ||
		report.Failed != 1 || report.Skipped != 1 {
		t.Errorf("Unexpected report %+v", report)
	}
	if report.Warning == "" {
		t.Error("Expected a warning for the failed token")
	}
	if n := helpers.CountRows(t, db, &models.Notification{}, "type = ?", models.NotificationNewPost); n != 3 {
		t.Errorf("Expected 3 in-app notifications, got %d", n)
	}
	if n := helpers.CountRows(t, db, &models.Notification{}, "user_id = ?", noToken.ID); n != 1 {
		t.Errorf("Expected the follower without a token to get an in-app notification")
	}
	if len(pusher.sent) != 1 || len(pusher.sent[0]) != 2 {
		t.Errorf("Expected one push call with 2 tokens, got %v", pusher.sent)
	}
}

func TestNotifyNewPostWithoutFollowers(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	author := helpers.CreateTestUser(t, db, "author", &place)
	post := helpers.CreateTestPost(t, db, author, "solo", models.PostTypeCommerce, place)

	pusher := &fakePusher{}
	report := NewDispatcher(db, pusher, time.Second).NotifyNewPost(context.Background(), author.ID, post.ID)

	if report.Recipients != 0 || report.Warning != "" {
		t.Errorf("Expected an empty report, got %+v", report)
	}
	if len(pusher.sent) != 0 {
		t.Errorf("Expected no push calls")
	}
}

func TestNotifyTransportFailure(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "follower", nil)
	b := helpers.CreateTestUser(t, db, "followed", nil)
	helpers.SetTestToken(t, db, b.ID, "tok-b")

	pusher := &fakePusher{err: errors.New("fcm down")}
	report := NewDispatcher(db, pusher, time.Second).NotifyNewFollower(context.Background(), a.ID, b.ID)

	if report.Requested != 1 || report.Failed != 1 || report.Delivered != 0 {
		t.Errorf("Unexpected report %+v", report)
	}
	if report.Warning == "" {
		t.Error("Expected a warning")
	}
	// The in-app copy survives a push outage
	if n := helpers.CountRows(t, db, &models.Notification{}, "user_id = ? AND type = ?", b.ID, models.NotificationNewFollower); n != 1 {
		t.Errorf("Expected one follower notification, got %d", n)
	}
}

func TestNotifyTimeout(t *testing.T) {
	db := helpers.OpenTestDB(t)
	a := helpers.CreateTestUser(t, db, "follower", nil)
	b := helpers.CreateTestUser(t, db, "followed", nil)
	helpers.SetTestToken(t, db, b.ID, "tok-b")

	pusher := &fakePusher{block: true}
	start := time.Now()
	report := NewDispatcher(db, pusher, 50*time.Millisecond).NotifyNewFollower(context.Background(), a.ID, b.ID)

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected the push wait to be bounded, took %v", elapsed)
	}
	if report.Failed != 1 {
		t.Errorf("Expected the timed out push to count as failed, got %+v", report)
	}
}

func TestNotifyNewLike(t *testing.T) {
	db := helpers.OpenTestDB(t)
	place := helpers.CreateTestPlace(t, db, "Pichincha", "Quito")
	author := helpers.CreateTestUser(t, db, "author", &place)
	liker := helpers.CreateTestUser(t, db, "liker", nil)
	helpers.SetTestToken(t, db, author.ID, "tok-author")
	post := helpers.CreateTestPost(t, db, author, "feria", models.PostTypeCommerce, place)

	d := NewDispatcher(db, &fakePusher{}, time.Second)

	report := d.NotifyNewLike(context.Background(), post.ID, liker.ID)
	if report.Recipients != 1 || report.Delivered != 1 {
		t.Errorf("Unexpected report %+v", report)
	}

	var n models.Notification
	if err := db.Where("user_id = ?", author.ID).First(&n).Error; err != nil {
		t.Fatalf("Expected a notification for the author: %v", err)
	}
	if n.ActorID != liker.ID || n.PostID == nil || *n.PostID != post.ID {
		t.Errorf("Unexpected notification %+v", n)
	}
	var data map[string]string
	if err := n.Data.Decode(&data); err != nil || data["postId"] != post.ID {
		t.Errorf("Expected postId in notification data, got %v %v", data, err)
	}

	// Liking your own post notifies nobody
	report = d.NotifyNewLike(context.Background(), post.ID, author.ID)
	if report.Recipients != 0 {
		t.Errorf("Expected no recipients for a self like, got %+v", report)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		user *models.User
		want string
	}{
		{nil, "Someone"},
		{&models.User{}, "Someone"},
		{&models.User{Username: "pepe"}, "pepe"},
		{&models.User{Username: "pepe", FirstName: "José"}, "José"},
		{&models.User{FirstName: "José", LastName: "Pérez"}, "José Pérez"},
	}
	for _, tt := range tests {
		if got := displayName(tt.user); got != tt.want {
			t.Errorf("displayName(%+v) = %q, want %q", tt.user, got, tt.want)
		}
	}
}
