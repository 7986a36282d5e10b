package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	ListByExercise(ctx context.Context, exerciseID uuid.UUID) ([]models.Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error)
	GetByStudentAndExercise(ctx context.Context, studentID uint, exerciseID uuid.UUID) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).Preload("Student")
}

func (r *submissionRepository) ListByExercise(ctx context.Context, exerciseID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.baseQuery(ctx).
		Where("exercise_id = ?", exerciseID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByStudentAndExercise(ctx context.Context, studentID uint, exerciseID uuid.UUID) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("student_id = ?", studentID).
		Where("exercise_id = ?", exerciseID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Omit("Student").Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Omit("Student").Save(submission).Error
}
