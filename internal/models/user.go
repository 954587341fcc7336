package models

import "time"

// User is the identity record. FollowersCount and FollowingCount are denormalized from the
// follows table and kept in step by the graph service.
type User struct {
	Base
	Username       string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FirstName      string     `gorm:"size:100" json:"firstName"`
	LastName       string     `gorm:"size:100" json:"lastName"`
	ProfilePicture string     `gorm:"size:512" json:"profilePicture"`
	Gender         string     `gorm:"size:32" json:"gender"`
	BirthDate      *time.Time `json:"birthDate"`
	FCMToken       string     `gorm:"column:fcm_token;size:512" json:"-"`
	LocationID     *string    `gorm:"type:char(36);index" json:"locationId"`
	Location       *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	FollowersCount int64      `gorm:"not null;default:0" json:"followersCount"`
	FollowingCount int64      `gorm:"not null;default:0" json:"followingCount"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// UserSummary is the projection used in follower lists and post authors
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
}

// Summary projects the user to its public summary
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

// Credential holds the login identity of a user
type Credential struct {
	Base
	UserID        string `gorm:"type:char(36);uniqueIndex;not null" json:"userId"`
	Email         string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"size:255;not null" json:"-"`
	Role          string `gorm:"size:16;not null;default:'user'" json:"role"`
	EmailVerified bool   `gorm:"not null;default:false" json:"emailVerified"`
}

// TableName overrides the table name for Credential
func (Credential) TableName() string {
	return "credentials"
}

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
