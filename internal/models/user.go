package models

import "time"

// DefaultProfilePicture is assigned to every identity until it uploads its own picture.
const DefaultProfilePicture = "/uploads/profiles/default-profile.jpg"

// User represents a registered identity of the social network.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username       string    `json:"username" gorm:"uniqueIndex;type:varchar(100);not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password       string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt digest, never serialized
	ProfilePicture string    `json:"profilePicture" gorm:"type:varchar(512)"`
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"-"`

	// Derived from the follows table by the repository.
	Followers []string `json:"followers" gorm:"-"`
	Following []string `json:"following" gorm:"-"`
}

// Follow is a single directed edge: FollowerID follows FollowingID.
// One row is both sides of the reciprocal state.
type Follow struct {
	FollowerID  string    `json:"followerId" gorm:"primaryKey;type:varchar(36)"`
	FollowingID string    `json:"followingId" gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt   time.Time `json:"createdAt"`
}
