package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Output comparison modes supported by a test case.
const (
	TestTypeIncludes = "includes"
	TestTypeExact    = "exact"
)

// IsValidTestType reports whether value is a supported comparison mode.
func IsValidTestType(value string) bool {
	switch strings.TrimSpace(value) {
	case TestTypeIncludes, TestTypeExact:
		return true
	default:
		return false
	}
}

// TestCase is an expected-output check attached to an exercise. It is stored
// only; nothing on the server runs it.
type TestCase struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	TestType       string    `gorm:"size:16;not null" json:"test_type"`
	ExpectedOutput string    `gorm:"type:text;not null" json:"expected_output"`
	HelpText       string    `gorm:"type:text" json:"help_text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName keeps the historical table name.
func (TestCase) TableName() string {
	return "tests"
}

// BeforeCreate assigns a random identifier when none was provided.
func (t *TestCase) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ExerciseTest links a test case to an exercise.
type ExerciseTest struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ExerciseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_exercise_tests_pair" json:"exercise_id"`
	TestID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_exercise_tests_pair;index" json:"test_id"`
	CreatedAt  time.Time `json:"created_at"`
}
