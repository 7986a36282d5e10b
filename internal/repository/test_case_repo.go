package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// TestCaseRepository defines persistence operations for exercise test cases.
type TestCaseRepository interface {
	ListByExercise(ctx context.Context, exerciseID uuid.UUID) ([]models.TestCase, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.TestCase, error)
	CreateForExercise(ctx context.Context, exerciseID uuid.UUID, test *models.TestCase) error
	Update(ctx context.Context, test *models.TestCase) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type testCaseRepository struct {
	db *gorm.DB
}

// NewTestCaseRepository instantiates a GORM-backed repository.
func NewTestCaseRepository(db *gorm.DB) TestCaseRepository {
	return &testCaseRepository{db: db}
}

func (r *testCaseRepository) ListByExercise(ctx context.Context, exerciseID uuid.UUID) ([]models.TestCase, error) {
	var tests []models.TestCase
	err := r.db.WithContext(ctx).Model(&models.TestCase{}).
		Joins("JOIN exercise_tests ON exercise_tests.test_id = tests.id").
		Where("exercise_tests.exercise_id = ?", exerciseID).
		Order("tests.created_at ASC").
		Find(&tests).Error
	if err != nil {
		return nil, err
	}

	return tests, nil
}

func (r *testCaseRepository) GetByID(ctx context.Context, id uuid.UUID) (models.TestCase, error) {
	var test models.TestCase
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&test).Error; err != nil {
		return models.TestCase{}, err
	}

	return test, nil
}

// CreateForExercise stores the test case and its exercise link atomically.
func (r *testCaseRepository) CreateForExercise(ctx context.Context, exerciseID uuid.UUID, test *models.TestCase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(test).Error; err != nil {
			return err
		}

		link := models.ExerciseTest{ExerciseID: exerciseID, TestID: test.ID}
		return tx.Create(&link).Error
	})
}

func (r *testCaseRepository) Update(ctx context.Context, test *models.TestCase) error {
	return r.db.WithContext(ctx).Save(test).Error
}

func (r *testCaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&models.ExerciseTest{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.TestCase{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
