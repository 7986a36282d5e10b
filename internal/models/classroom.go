package models

import (
	"time"

	"github.com/google/uuid"
)

// Classroom groups exercises under a teacher and holds a roster of students.
type Classroom struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex:idx_classrooms_name;not null" json:"name"`
	Slug        string    `gorm:"size:120;uniqueIndex:idx_classrooms_slug;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`
	Creator     User      `gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether the given user created the classroom.
func (c Classroom) IsOwnedBy(userID uint) bool {
	return userID != 0 && c.CreatorID == userID
}

// ClassroomMembership records that a user joined a classroom.
type ClassroomMembership struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClassroomID uint      `gorm:"not null;uniqueIndex:idx_classroom_memberships_pair" json:"classroom_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_classroom_memberships_pair;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClassroomExercise links an exercise to a classroom.
type ClassroomExercise struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClassroomID uint      `gorm:"not null;uniqueIndex:idx_classroom_exercises_pair" json:"classroom_id"`
	ExerciseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_classroom_exercises_pair;index" json:"exercise_id"`
	CreatedAt   time.Time `json:"created_at"`
}
