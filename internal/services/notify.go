// notify.go
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
	"context"
	"fmt"
	"log"
	"time"

	"github.com/localnerve/barrio/internal/metrics"
	"github.com/localnerve/barrio/internal/models"
	"github.com/localnerve/barrio/internal/push"
	"gorm.io/gorm"
)

// fanOutBatch matches the largest multicast the push transport accepts
const fanOutBatch = 500

// DeliveryReport summarizes one notification fan-out. Requested counts tokens handed to the
// transport; Skipped counts recipients with no registered token.
type DeliveryReport struct {
	Kind       models.NotificationType `json:"kind"`
	Recipients int                     `json:"recipients"`
	Requested  int                     `json:"requested"`
	Delivered  int                     `json:"delivered"`
	Failed     int                     `json:"failed"`
	Skipped    int                     `json:"skipped"`
	Warning    string                  `json:"warning,omitempty"`
}

func (r *DeliveryReport) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.Warning == "" {
		r.Warning = msg
	} else {
		r.Warning += "; " + msg
	}
}

// Dispatcher persists in-app notifications and fans them out to push tokens. It never
// returns an error: every failure is logged and reported as a warning, and runs after the
// mutation that triggered it has committed.
type Dispatcher struct {
	DB      *gorm.DB
	Pusher  push.Sender
	Timeout time.Duration
}

// NewDispatcher creates a dispatcher. A nil pusher logs instead of delivering.
func NewDispatcher(db *gorm.DB, pusher push.Sender, timeout time.Duration) *Dispatcher {
	if pusher == nil {
		pusher = push.LogSender{}
	}
	return &Dispatcher{DB: db, Pusher: pusher, Timeout: timeout}
}

type notice struct {
	kind    models.NotificationType
	actorID string
	postID  *string
	title   string
	body    string
}

func (n notice) data() map[string]string {
	data := map[string]string{
		"type":    string(n.kind),
		"actorId": n.actorID,
	}
	if n.postID != nil {
		data["postId"] = *n.postID
	}
	return data
}

// NotifyNewPost notifies every follower of the author. Followers without a token still get
// the in-app notification and are counted as skipped.
func (d *Dispatcher) NotifyNewPost(ctx context.Context, authorID, postID string) *DeliveryReport {
	report := &DeliveryReport{Kind: models.NotificationNewPost}
	db := d.DB.WithContext(ctx)

	var post models.Post
	if err := db.Preload("Author").Where("id = ?", postID).First(&post).Error; err != nil {
		log.Printf("notify new post %s: %v", postID, err)
		report.warn("post could not be loaded")
		return report
	}

	n := notice{
		kind:    models.NotificationNewPost,
		actorID: authorID,
		postID:  &post.ID,
		title:   "New post",
		body:    fmt.Sprintf("%s published: %s", displayName(post.Author), post.Name),
	}

	var batch []models.User
	err := db.Model(&models.User{}).
		Select("users.id", "users.fcm_token").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", authorID).
		FindInBatches(&batch, fanOutBatch, func(tx *gorm.DB, _ int) error {
			d.deliver(ctx, report, n, batch)
			return nil
		}).Error
	if err != nil {
		log.Printf("notify new post %s: resolve followers of %s: %v", postID, authorID, err)
		report.warn("followers could not be resolved")
	}

	return report
}

// NotifyNewLike notifies the post's author. Liking your own post notifies nobody.
func (d *Dispatcher) NotifyNewLike(ctx context.Context, postID, likerID string) *DeliveryReport {
	report := &DeliveryReport{Kind: models.NotificationNewLike}
	db := d.DB.WithContext(ctx)

	var post models.Post
	if err := db.Preload("Author").Where("id = ?", postID).First(&post).Error; err != nil || post.Author == nil {
		log.Printf("notify new like %s: %v", postID, err)
		report.warn("post author could not be loaded")
		return report
	}
	if post.UserID == likerID {
		return report
	}

	var liker models.User
	if err := db.Where("id = ?", likerID).First(&liker).Error; err != nil {
		log.Printf("notify new like %s: load liker %s: %v", postID, likerID, err)
	}

	n := notice{
		kind:    models.NotificationNewLike,
		actorID: likerID,
		postID:  &post.ID,
		title:   "New like",
		body:    fmt.Sprintf("%s liked your post %s", displayName(&liker), post.Name),
	}

	d.deliver(ctx, report, n, []models.User{*post.Author})
	return report
}

// NotifyNewFollower notifies the followed user
func (d *Dispatcher) NotifyNewFollower(ctx context.Context, followerID, followedID string) *DeliveryReport {
	report := &DeliveryReport{Kind: models.NotificationNewFollower}
	db := d.DB.WithContext(ctx)

	var users []models.User
	if err := db.Where("id IN ?", []string{followerID, followedID}).Find(&users).Error; err != nil {
		log.Printf("notify new follower %s -> %s: %v", followerID, followedID, err)
		report.warn("users could not be loaded")
		return report
	}

	var follower, followed *models.User
	for i := range users {
		switch users[i].ID {
		case followerID:
			follower = &users[i]
		case followedID:
			followed = &users[i]
		}
	}
	if followed == nil {
		report.warn("followed user not found")
		return report
	}

	n := notice{
		kind:    models.NotificationNewFollower,
		actorID: followerID,
		title:   "New follower",
		body:    fmt.Sprintf("%s started following you", displayName(follower)),
	}

	d.deliver(ctx, report, n, []models.User{*followed})
	return report
}

// deliver persists one notification per recipient, then pushes to those with a token.
// The push call is bounded by the dispatcher timeout.
func (d *Dispatcher) deliver(ctx context.Context, report *DeliveryReport, n notice, recipients []models.User) {
	if len(recipients) == 0 {
		return
	}
	report.Recipients += len(recipients)

	data, err := models.NewJSON(n.data())
	if err != nil {
		log.Printf("notify %s: encode data: %v", n.kind, err)
	}

	rows := make([]models.Notification, 0, len(recipients))
	tokens := make([]string, 0, len(recipients))
	owners := make(map[string]string, len(recipients))
	for _, r := range recipients {
		rows = append(rows, models.Notification{
			UserID:  r.ID,
			ActorID: n.actorID,
			PostID:  n.postID,
			Type:    n.kind,
			Message: n.body,
			Data:    data,
		})
		if r.FCMToken == "" {
			report.Skipped++
			continue
		}
		tokens = append(tokens, r.FCMToken)
		owners[r.FCMToken] = r.ID
	}

	if err := d.DB.WithContext(ctx).CreateInBatches(&rows, fanOutBatch).Error; err != nil {
		log.Printf("notify %s: persist %d notification(s): %v", n.kind, len(rows), err)
		report.warn("in-app notifications could not be saved")
	}

	metrics.Notified(string(n.kind), metrics.OutcomeSkipped, len(recipients)-len(tokens))
	if len(tokens) == 0 {
		return
	}
	report.Requested += len(tokens)

	sendCtx := ctx
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	results, err := d.Pusher.Send(sendCtx, tokens, push.Message{
		Title: n.title,
		Body:  n.body,
		Data:  n.data(),
	})
	if err != nil {
		log.Printf("notify %s: push to %d token(s): %v", n.kind, len(tokens), err)
		report.Failed += len(tokens)
		report.warn("push delivery failed")
		metrics.Notified(string(n.kind), metrics.OutcomeFailed, len(tokens))
		return
	}

	var stale []string
	failed := 0
	for _, r := range results {
		if r.Err == nil {
			report.Delivered++
			continue
		}
		failed++
		if push.IsUnregistered(r.Err) {
			if id, ok := owners[r.Token]; ok {
				stale = append(stale, id)
			}
		}
	}
	report.Failed += failed
	if failed > 0 {
		report.warn("push failed for %d of %d token(s)", failed, len(tokens))
	}
	metrics.Notified(string(n.kind), metrics.OutcomeDelivered, len(results)-failed)
	metrics.Notified(string(n.kind), metrics.OutcomeFailed, failed)

	if len(stale) > 0 {
		err := d.DB.WithContext(ctx).Model(&models.User{}).
			Where("id IN ?", stale).
			UpdateColumn("fcm_token", "").Error
		if err != nil {
			log.Printf("notify %s: clear %d stale token(s): %v", n.kind, len(stale), err)
		}
	}
}

func displayName(u *models.User) string {
	if u == nil {
		return "Someone"
	}
	if u.FirstName != "" {
		if u.LastName != "" {
			return u.FirstName + " " + u.LastName
		}
		return u.FirstName
	}
	if u.Username != "" {
		return u.Username
	}
	return "Someone"
}
