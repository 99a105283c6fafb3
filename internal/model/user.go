package model

import "time"

// Account status values. Blocking is a flat flag: a blocked user keeps any
// token issued before the block, but can no longer log in.
const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// User represents an account in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Surname      string    `json:"surname" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Status       string    `json:"status" gorm:"size:16;not null;default:'active'"`
	LastLogin    time.Time `json:"last_login"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Blocked reports whether the account is blocked from logging in.
func (u *User) Blocked() bool {
	return u.Status == StatusBlocked
}
