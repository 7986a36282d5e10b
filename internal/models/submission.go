package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission statuses.
const (
	SubmissionStatusAssigned  = "assigned_to_student"
	SubmissionStatusSubmitted = "submitted_by_student"
	SubmissionStatusReviewed  = "reviewed_by_teacher"
)

// Submission is a student's working copy and hand-in for one exercise.
type Submission struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID     uint       `gorm:"not null;uniqueIndex:idx_submissions_student_exercise" json:"student_id"`
	ExerciseID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_student_exercise;index" json:"exercise_id"`
	Status        string     `gorm:"size:32;not null" json:"status"`
	SubmittedCode string     `gorm:"type:text" json:"submitted_code"`
	Feedback      string     `gorm:"type:text" json:"feedback"`
	DueDate       *time.Time `json:"due_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Student       User       `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a random identifier when none was provided.
func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// IsValidSubmissionStatus reports whether status is one of the known states.
func IsValidSubmissionStatus(status string) bool {
	switch status {
	case SubmissionStatusAssigned, SubmissionStatusSubmitted, SubmissionStatusReviewed:
		return true
	default:
		return false
	}
}

// IsReviewed reports whether a teacher has closed the submission.
func (s Submission) IsReviewed() bool {
	return s.Status == SubmissionStatusReviewed
}

// IsOwnedBy reports whether the submission belongs to the given student.
func (s Submission) IsOwnedBy(userID uint) bool {
	return userID != 0 && s.StudentID == userID
}

// CanTransition reports whether a user with role may move the submission from
// its current status to next.
//
// Students toggle between assigned and submitted until a teacher reviews the
// work. Teachers may only set the reviewed state, from any state.
func (s Submission) CanTransition(role Role, next string) bool {
	switch role {
	case RoleStudent:
		if s.IsReviewed() {
			return false
		}
		return next == SubmissionStatusAssigned || next == SubmissionStatusSubmitted
	case RoleTeacher:
		return next == SubmissionStatusReviewed
	default:
		return false
	}
}
