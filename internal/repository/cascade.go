package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// deleteExercisesTx removes exercises together with everything that hangs off
// them: submissions, test cases and classroom links. It must run inside tx.
func deleteExercisesTx(tx *gorm.DB, exerciseIDs []uuid.UUID) error {
	if len(exerciseIDs) == 0 {
		return nil
	}

	if err := tx.Where("exercise_id IN ?", exerciseIDs).Delete(&models.Submission{}).Error; err != nil {
		return err
	}

	var testIDs []uuid.UUID
	if err := tx.Model(&models.ExerciseTest{}).
		Where("exercise_id IN ?", exerciseIDs).
		Pluck("test_id", &testIDs).Error; err != nil {
		return err
	}

	if err := tx.Where("exercise_id IN ?", exerciseIDs).Delete(&models.ExerciseTest{}).Error; err != nil {
		return err
	}

	if len(testIDs) > 0 {
		if err := tx.Where("id IN ?", testIDs).Delete(&models.TestCase{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("exercise_id IN ?", exerciseIDs).Delete(&models.ClassroomExercise{}).Error; err != nil {
		return err
	}

	return tx.Where("id IN ?", exerciseIDs).Delete(&models.Exercise{}).Error
}
