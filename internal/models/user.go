package models

import "time"

// User & auth related models
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"unique;not null;index"`
	Password  string `gorm:"not null"` // bcrypt hash
	FirstName string
	LastName  string
	Role      string `gorm:"not null;default:'user'"` // admin, user
	CreatedAt time.Time
	UpdatedAt time.Time
}
