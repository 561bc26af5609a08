package model

import "time"

// User is the trader identity that owns trades and analyses. Session
// handling lives outside this service; handlers only ever read the
// authenticated user from the request context.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserName  string    `gorm:"size:60;uniqueIndex" json:"user_name"`
	Email     string    `gorm:"size:120" json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName allows you to control the exact table name for users.
func (User) TableName() string {
	return "users"
}
