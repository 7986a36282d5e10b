package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/models"
	"github.com/noah-isme/moonbase-api/internal/repository"
)

func TestTestCaseServiceRejectsUnknownTypeWithoutPersisting(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	teacher := createUser(t, db, "tina", models.RoleTeacher)

	classrooms := repository.NewClassroomRepository(db)
	exercises := repository.NewExerciseRepository(db)
	svc := NewTestCaseService(repository.NewTestCaseRepository(db), exercises, testValidator(), testLogger())

	classroom := models.Classroom{Name: "Algebra", Slug: "algebra", CreatorID: teacher.ID}
	require.NoError(t, classrooms.Create(ctx, &classroom))
	exercise := models.Exercise{Name: "Sum", Slug: "sum", CreatorID: teacher.ID}
	require.NoError(t, exercises.CreateInClassroom(ctx, classroom.ID, &exercise))

	_, err := svc.Create(ctx, exercise.ID, dto.TestCaseCreateRequest{Name: "adds", TestType: "maybe", ExpectedOutput: "3"})
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)

	var count int64
	require.NoError(t, db.Model(&models.TestCase{}).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, db.Model(&models.ExerciseTest{}).Count(&count).Error)
	require.Zero(t, count)
}

func isValidationError(err error) bool {
	var validationErrs validator.ValidationErrors
	return errors.As(err, &validationErrs)
}

func TestTestCaseServiceCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	teacher := createUser(t, db, "tina", models.RoleTeacher)

	classrooms := repository.NewClassroomRepository(db)
	exercises := repository.NewExerciseRepository(db)
	svc := NewTestCaseService(repository.NewTestCaseRepository(db), exercises, testValidator(), testLogger())

	classroom := models.Classroom{Name: "Algebra", Slug: "algebra", CreatorID: teacher.ID}
	require.NoError(t, classrooms.Create(ctx, &classroom))
	exercise := models.Exercise{Name: "Sum", Slug: "sum", CreatorID: teacher.ID}
	require.NoError(t, exercises.CreateInClassroom(ctx, classroom.ID, &exercise))

	created, err := svc.Create(ctx, exercise.ID, dto.TestCaseCreateRequest{Name: "adds", TestType: models.TestTypeIncludes, ExpectedOutput: "3", HelpText: "print the sum"})
	require.NoError(t, err)
	require.Equal(t, models.TestTypeIncludes, created.TestType)

	_, err = svc.Create(ctx, uuid.New(), dto.TestCaseCreateRequest{Name: "x", TestType: models.TestTypeExact, ExpectedOutput: "1"})
	require.ErrorIs(t, err, ErrExerciseNotFound)

	list, err := svc.ListForExercise(ctx, exercise.ID)
	require.NoError(t, err)
	require.Len(t, list.Tests, 1)

	exact := models.TestTypeExact
	updated, err := svc.Update(ctx, created.ID, dto.TestCaseUpdateRequest{TestType: &exact})
	require.NoError(t, err)
	require.Equal(t, models.TestTypeExact, updated.TestType)
	require.Equal(t, "print the sum", updated.HelpText)

	maybe := "maybe"
	_, err = svc.Update(ctx, created.ID, dto.TestCaseUpdateRequest{TestType: &maybe})
	require.Error(t, err)
	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, models.TestTypeExact, stored.TestType)

	blank := "   "
	_, err = svc.Update(ctx, created.ID, dto.TestCaseUpdateRequest{Name: &blank})
	require.True(t, isValidationError(err), "blank name must fail validation, got %v", err)
	stored, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "adds", stored.Name)

	paddedName, paddedType := "  adds twice ", " includes"
	updated, err = svc.Update(ctx, created.ID, dto.TestCaseUpdateRequest{Name: &paddedName, TestType: &paddedType})
	require.NoError(t, err)
	require.Equal(t, "adds twice", updated.Name)
	require.Equal(t, models.TestTypeIncludes, updated.TestType)

	padded, err := svc.Create(ctx, exercise.ID, dto.TestCaseCreateRequest{Name: "exactly", TestType: " exact", ExpectedOutput: "3"})
	require.NoError(t, err)
	require.Equal(t, models.TestTypeExact, padded.TestType)
	require.NoError(t, svc.Delete(ctx, padded.ID))

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrTestNotFound)
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
