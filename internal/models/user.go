package models

import (
	"strings"
	"time"
)

// Role identifies which group a user belongs to.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleNone    Role = "none"
)

// ParseRole normalises a raw role value. Unknown values resolve to RoleNone.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleTeacher:
		return RoleTeacher
	case RoleStudent:
		return RoleStudent
	default:
		return RoleNone
	}
}

// User is an account that can sign in to the platform.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex:idx_users_username;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex:idx_users_email;not null" json:"email"`
	FullName     string    `gorm:"size:150" json:"full_name"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:none" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsTeacher reports whether the user belongs to the teacher group.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
