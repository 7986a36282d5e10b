package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// SubmissionCreateRequest starts a submission. A nil code copies the
// exercise starter code.
type SubmissionCreateRequest struct {
	Code *string `json:"code" validate:"omitempty,max=100000"`
}

// SubmissionUpdateRequest is a partial patch; nil fields are left unchanged.
type SubmissionUpdateRequest struct {
	Status        *string    `json:"status" validate:"omitempty,oneof=assigned_to_student submitted_by_student reviewed_by_teacher"`
	SubmittedCode *string    `json:"submitted_code" validate:"omitempty,max=100000"`
	Feedback      *string    `json:"feedback" validate:"omitempty,max=10000"`
	DueDate       *time.Time `json:"due_date"`
}

// IsEmpty reports whether the patch changes nothing.
func (r SubmissionUpdateRequest) IsEmpty() bool {
	return r.Status == nil && r.SubmittedCode == nil && r.Feedback == nil && r.DueDate == nil
}

// StudentLite summarizes a student without exposing the full profile.
type StudentLite struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID            uuid.UUID   `json:"id"`
	ExerciseID    uuid.UUID   `json:"exercise_id"`
	StudentID     uint        `json:"student_id"`
	Status        string      `json:"status"`
	SubmittedCode string      `json:"submitted_code"`
	Feedback      string      `json:"feedback"`
	DueDate       *time.Time  `json:"due_date"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Student       StudentLite `json:"student"`
}

// SubmissionListResponse wraps the submissions of an exercise.
type SubmissionListResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:            model.ID,
		ExerciseID:    model.ExerciseID,
		StudentID:     model.StudentID,
		Status:        model.Status,
		SubmittedCode: model.SubmittedCode,
		Feedback:      model.Feedback,
		DueDate:       model.DueDate,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
		Student:       StudentLite{ID: model.StudentID},
	}

	if model.Student.ID != 0 {
		response.Student.Username = model.Student.Username
		response.Student.FullName = model.Student.FullName
	}

	return response
}
