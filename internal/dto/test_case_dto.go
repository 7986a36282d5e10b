package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// TestCaseCreateRequest describes an expected-output check.
type TestCaseCreateRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	TestType       string `json:"test_type" validate:"required,oneof=includes exact"`
	ExpectedOutput string `json:"expected_output" validate:"required,max=20000"`
	HelpText       string `json:"help_text" validate:"omitempty,max=5000"`
}

// TestCaseUpdateRequest is a partial patch; nil fields are left unchanged.
type TestCaseUpdateRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
	TestType       *string `json:"test_type" validate:"omitempty,oneof=includes exact"`
	ExpectedOutput *string `json:"expected_output" validate:"omitempty,min=1,max=20000"`
	HelpText       *string `json:"help_text" validate:"omitempty,max=5000"`
}

// TestCaseResponse serializes a test case.
type TestCaseResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	TestType       string    `json:"test_type"`
	ExpectedOutput string    `json:"expected_output"`
	HelpText       string    `json:"help_text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TestCaseListResponse wraps the tests of an exercise.
type TestCaseListResponse struct {
	Tests []TestCaseResponse `json:"tests"`
}

// NewTestCaseResponse converts a model into a DTO.
func NewTestCaseResponse(model models.TestCase) TestCaseResponse {
	return TestCaseResponse{
		ID:             model.ID,
		Name:           model.Name,
		TestType:       model.TestType,
		ExpectedOutput: model.ExpectedOutput,
		HelpText:       model.HelpText,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
