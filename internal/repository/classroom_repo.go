package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// ClassroomRepository defines persistence operations for classrooms and their rosters.
type ClassroomRepository interface {
	List(ctx context.Context) ([]models.Classroom, error)
	GetBySlug(ctx context.Context, slug string) (models.Classroom, error)
	NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, classroom *models.Classroom) error
	Update(ctx context.Context, classroom *models.Classroom) error
	DeleteCascade(ctx context.Context, id uint) error
	IsMember(ctx context.Context, classroomID, userID uint) (bool, error)
	MemberClassroomIDs(ctx context.Context, userID uint) ([]uint, error)
	AddMember(ctx context.Context, membership *models.ClassroomMembership) error
	RemoveMember(ctx context.Context, classroomID, userID uint) error
}

type classroomRepository struct {
	db *gorm.DB
}

// NewClassroomRepository instantiates a GORM-backed repository.
func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

func (r *classroomRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Classroom{}).Preload("Creator")
}

func (r *classroomRepository) List(ctx context.Context) ([]models.Classroom, error) {
	var classrooms []models.Classroom
	if err := r.baseQuery(ctx).Order("created_at ASC").Order("id ASC").Find(&classrooms).Error; err != nil {
		return nil, err
	}

	return classrooms, nil
}

func (r *classroomRepository) GetBySlug(ctx context.Context, slug string) (models.Classroom, error) {
	var classroom models.Classroom
	if err := r.baseQuery(ctx).Where("slug = ?", slug).First(&classroom).Error; err != nil {
		return models.Classroom{}, err
	}

	return classroom, nil
}

func (r *classroomRepository) NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Classroom{}).
		Where("name = ? OR slug = ?", name, slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *classroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	if err := r.db.WithContext(ctx).Omit("Creator").Create(classroom).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Preload("Creator").First(classroom, classroom.ID).Error
}

func (r *classroomRepository) Update(ctx context.Context, classroom *models.Classroom) error {
	return r.db.WithContext(ctx).Omit("Creator").Save(classroom).Error
}

// DeleteCascade removes the classroom, its roster and every exercise linked to
// it in a single transaction.
func (r *classroomRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exerciseIDs []uuid.UUID
		if err := tx.Model(&models.ClassroomExercise{}).
			Where("classroom_id = ?", id).
			Pluck("exercise_id", &exerciseIDs).Error; err != nil {
			return err
		}

		if err := deleteExercisesTx(tx, exerciseIDs); err != nil {
			return err
		}

		if err := tx.Where("classroom_id = ?", id).Delete(&models.ClassroomExercise{}).Error; err != nil {
			return err
		}

		if err := tx.Where("classroom_id = ?", id).Delete(&models.ClassroomMembership{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Classroom{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *classroomRepository) IsMember(ctx context.Context, classroomID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ClassroomMembership{}).
		Where("classroom_id = ? AND user_id = ?", classroomID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *classroomRepository) MemberClassroomIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.ClassroomMembership{}).
		Where("user_id = ?", userID).
		Pluck("classroom_id", &ids).Error; err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *classroomRepository) AddMember(ctx context.Context, membership *models.ClassroomMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *classroomRepository) RemoveMember(ctx context.Context, classroomID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("classroom_id = ? AND user_id = ?", classroomID, userID).
		Delete(&models.ClassroomMembership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
