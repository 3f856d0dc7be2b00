package entity

import (
	"time"
)

// User is the aggregate root for the identity domain
// Passwords are stored as bcrypt hashes in Password field
//
// Email is unique and compared exactly as stored.
type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
