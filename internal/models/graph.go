// graph.go
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

// Follow is a directed edge. The composite unique index is the serialization point for
// concurrent follows of the same pair.
type Follow struct {
	Base
	FollowerID string `gorm:"type:char(36);not null;uniqueIndex:idx_follow_pair;index:idx_follow_follower" json:"followerId"`
	FollowedID string `gorm:"type:char(36);not null;uniqueIndex:idx_follow_pair;index:idx_follow_followed" json:"followedId"`
	Follower   *User  `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed   *User  `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

// TableName overrides the table name for Follow
func (Follow) TableName() string {
	return "follows"
}

// Like is a user's reaction to a post, at most one per (user, post)
type Like struct {
	Base
	UserID string `gorm:"type:char(36);not null;uniqueIndex:idx_like_user_post" json:"userId"`
	PostID string `gorm:"type:char(36);not null;uniqueIndex:idx_like_user_post;index:idx_like_post" json:"postId"`
	Like   bool   `gorm:"column:liked;not null;default:true" json:"like"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName overrides the table name for Like
func (Like) TableName() string {
	return "likes"
}
