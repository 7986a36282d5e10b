package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// ExerciseCreateRequest describes a new exercise inside a classroom.
type ExerciseCreateRequest struct {
	Name               string `json:"name" validate:"required,max=100"`
	Instructions       string `json:"instructions" validate:"omitempty,max=20000"`
	OutputInstructions string `json:"output_instructions" validate:"omitempty,max=20000"`
	Code               string `json:"code" validate:"omitempty,max=100000"`
}

// ExerciseUpdateRequest is a partial patch; nil fields are left unchanged.
type ExerciseUpdateRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1,max=100"`
	Instructions       *string `json:"instructions" validate:"omitempty,max=20000"`
	OutputInstructions *string `json:"output_instructions" validate:"omitempty,max=20000"`
	Code               *string `json:"code" validate:"omitempty,max=100000"`
}

// ExerciseResponse serializes an exercise.
type ExerciseResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	Instructions       string    `json:"instructions"`
	OutputInstructions string    `json:"output_instructions"`
	Code               string    `json:"code"`
	CreatorID          uint      `json:"creator_id"`
	Creator            string    `json:"creator"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ExerciseListResponse wraps the exercises of a classroom.
type ExerciseListResponse struct {
	Exercises []ExerciseResponse `json:"exercises"`
}

// NewExerciseResponse converts a model into a DTO.
func NewExerciseResponse(model models.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:                 model.ID,
		Name:               model.Name,
		Slug:               model.Slug,
		Instructions:       model.Instructions,
		OutputInstructions: model.OutputInstructions,
		Code:               model.Code,
		CreatorID:          model.CreatorID,
		Creator:            model.Creator.Username,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}
