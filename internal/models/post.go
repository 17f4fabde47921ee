package models

import "time"

// Post is an owned resource. UserID is set at creation and never reassigned.
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);index;not null"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Content   string    `json:"content" gorm:"not null"`
	Image     string    `json:"image,omitempty" gorm:"type:varchar(512)"`
	Likes     []Like    `json:"likes" gorm:"foreignKey:PostID"`
	Comments  []Comment `json:"comments" gorm:"foreignKey:PostID"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// Comment is owned by its author, independently of the post it belongs to.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PostID    string    `json:"postId" gorm:"type:varchar(36);index;not null"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);not null"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like records that UserID liked PostID. The composite key makes the like set a set.
type Like struct {
	PostID    string    `json:"-" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user" gorm:"primaryKey;type:varchar(36)"`
	CreatedAt time.Time `json:"createdAt"`
}
