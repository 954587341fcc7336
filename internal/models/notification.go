// notification.go
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

// NotificationType names the event a notification reports
type NotificationType string

const (
	NotificationNewPost     NotificationType = "new_post"
	NotificationNewLike     NotificationType = "new_like"
	NotificationNewFollower NotificationType = "new_follower"
)

// Notification is the persisted, in-app copy of a push notification
type Notification struct {
	Base
	UserID  string           `gorm:"type:char(36);not null;index:idx_notification_user_read" json:"userId"`
	ActorID string           `gorm:"type:char(36);not null;index" json:"actorId"`
	PostID  *string          `gorm:"type:char(36);index" json:"postId"`
	Type    NotificationType `gorm:"size:32;not null" json:"type"`
	Message string           `gorm:"size:512;not null" json:"message"`
	Data    JSON             `json:"data"`
	Read    bool             `gorm:"column:is_read;not null;default:false;index:idx_notification_user_read" json:"read"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// VerificationCode is a single use code mailed to an address.
// At most one live code exists per (email, purpose).
type VerificationCode struct {
	Base
	Email     string    `gorm:"size:255;not null;uniqueIndex:idx_verification_email_purpose" json:"email"`
	Purpose   string    `gorm:"size:32;not null;uniqueIndex:idx_verification_email_purpose" json:"purpose"`
	CodeHash  string    `gorm:"size:255;not null" json:"-"`
	Attempts  int       `gorm:"not null;default:0" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
}

// TableName overrides the table name for VerificationCode
func (VerificationCode) TableName() string {
	return "verification_codes"
}

// Expired reports whether the code is past its expiry at now
func (v *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}

// Verification purposes
const (
	PurposePasswordReset = "password_reset"
	PurposeEmailVerify   = "email_verify"
)
