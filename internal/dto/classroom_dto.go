package dto

import (
	"time"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// ClassroomCreateRequest holds the fields needed to open a classroom.
type ClassroomCreateRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

// ClassroomUpdateRequest is a partial patch; nil fields are left unchanged.
type ClassroomUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
}

// ClassroomResponse serializes a classroom for the requesting user.
type ClassroomResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatorID   uint      `json:"creator_id"`
	Teacher     string    `json:"teacher"`
	IsMember    bool      `json:"is_member"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClassroomListResponse wraps the classroom directory.
type ClassroomListResponse struct {
	Classrooms []ClassroomResponse `json:"classrooms"`
}

// NewClassroomResponse converts a model, flagging membership for the viewer.
func NewClassroomResponse(model models.Classroom, isMember bool) ClassroomResponse {
	return ClassroomResponse{
		ID:          model.ID,
		Name:        model.Name,
		Slug:        model.Slug,
		Description: model.Description,
		CreatorID:   model.CreatorID,
		Teacher:     model.Creator.Username,
		IsMember:    isMember,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
