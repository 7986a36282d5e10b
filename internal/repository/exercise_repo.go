package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// ExerciseRepository defines persistence operations for exercises.
type ExerciseRepository interface {
	ListByClassroom(ctx context.Context, classroomID uint) ([]models.Exercise, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Exercise, error)
	CreateInClassroom(ctx context.Context, classroomID uint, exercise *models.Exercise) error
	Update(ctx context.Context, exercise *models.Exercise) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type exerciseRepository struct {
	db *gorm.DB
}

// NewExerciseRepository instantiates a GORM-backed repository.
func NewExerciseRepository(db *gorm.DB) ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) ListByClassroom(ctx context.Context, classroomID uint) ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := r.db.WithContext(ctx).Model(&models.Exercise{}).
		Preload("Creator").
		Joins("JOIN classroom_exercises ON classroom_exercises.exercise_id = exercises.id").
		Where("classroom_exercises.classroom_id = ?", classroomID).
		Order("exercises.created_at ASC").
		Find(&exercises).Error
	if err != nil {
		return nil, err
	}

	return exercises, nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (models.Exercise, error) {
	var exercise models.Exercise
	if err := r.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&exercise).Error; err != nil {
		return models.Exercise{}, err
	}

	return exercise, nil
}

// CreateInClassroom stores the exercise and its classroom link atomically.
func (r *exerciseRepository) CreateInClassroom(ctx context.Context, classroomID uint, exercise *models.Exercise) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Creator").Create(exercise).Error; err != nil {
			return err
		}

		link := models.ClassroomExercise{ClassroomID: classroomID, ExerciseID: exercise.ID}
		return tx.Create(&link).Error
	})
}

func (r *exerciseRepository) Update(ctx context.Context, exercise *models.Exercise) error {
	return r.db.WithContext(ctx).Omit("Creator").Save(exercise).Error
}

func (r *exerciseRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Exercise{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		return deleteExercisesTx(tx, []uuid.UUID{id})
	})
}
