package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/models"
	"github.com/noah-isme/moonbase-api/internal/repository"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

// ExerciseService manages the exercise catalog.
type ExerciseService interface {
	ListForClassroom(ctx context.Context, slug string) (dto.ExerciseListResponse, error)
	Create(ctx context.Context, slug string, actor Actor, payload dto.ExerciseCreateRequest) (dto.ExerciseResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.ExerciseResponse, error)
	Update(ctx context.Context, id uuid.UUID, payload dto.ExerciseUpdateRequest) (dto.ExerciseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type exerciseService struct {
	exercises  repository.ExerciseRepository
	classrooms repository.ClassroomRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewExerciseService constructs the exercise service.
func NewExerciseService(exercises repository.ExerciseRepository, classrooms repository.ClassroomRepository, validator *validator.Validate, logger zerolog.Logger) ExerciseService {
	return &exerciseService{
		exercises:  exercises,
		classrooms: classrooms,
		validator:  validator,
		logger:     logger.With().Str("component", "exercise_service").Logger(),
	}
}

func (s *exerciseService) ListForClassroom(ctx context.Context, slug string) (dto.ExerciseListResponse, error) {
	classroom, err := s.classroom(ctx, slug)
	if err != nil {
		return dto.ExerciseListResponse{}, err
	}

	items, err := s.exercises.ListByClassroom(ctx, classroom.ID)
	if err != nil {
		return dto.ExerciseListResponse{}, err
	}

	exercises := make([]dto.ExerciseResponse, 0, len(items))
	for _, item := range items {
		exercises = append(exercises, dto.NewExerciseResponse(item))
	}

	return dto.ExerciseListResponse{Exercises: exercises}, nil
}

func (s *exerciseService) Create(ctx context.Context, slug string, actor Actor, payload dto.ExerciseCreateRequest) (dto.ExerciseResponse, error) {
	if !actor.Authenticated() {
		return dto.ExerciseResponse{}, ErrUnauthorized
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExerciseResponse{}, err
	}

	exerciseSlug := utils.Slugify(payload.Name, utils.DefaultSlugMaxLen)
	if exerciseSlug == "" {
		return dto.ExerciseResponse{}, ErrExerciseNameInvalid
	}

	classroom, err := s.classroom(ctx, slug)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}

	exercise := models.Exercise{
		Name:               payload.Name,
		Slug:               exerciseSlug,
		Instructions:       payload.Instructions,
		OutputInstructions: payload.OutputInstructions,
		Code:               payload.Code,
		CreatorID:          actor.ID,
	}
	if err := s.exercises.CreateInClassroom(ctx, classroom.ID, &exercise); err != nil {
		return dto.ExerciseResponse{}, err
	}
	exercise.Creator = models.User{ID: actor.ID, Username: actor.Username}

	s.logger.Info().
		Str("exercise_id", exercise.ID.String()).
		Str("classroom", classroom.Slug).
		Msg("exercise created")

	return dto.NewExerciseResponse(exercise), nil
}

func (s *exerciseService) Get(ctx context.Context, id uuid.UUID) (dto.ExerciseResponse, error) {
	exercise, err := s.lookup(ctx, id)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}
	return dto.NewExerciseResponse(exercise), nil
}

func (s *exerciseService) Update(ctx context.Context, id uuid.UUID, payload dto.ExerciseUpdateRequest) (dto.ExerciseResponse, error) {
	if payload.Name != nil {
		trimmed := strings.TrimSpace(*payload.Name)
		payload.Name = &trimmed
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExerciseResponse{}, err
	}

	exercise, err := s.lookup(ctx, id)
	if err != nil {
		return dto.ExerciseResponse{}, err
	}

	if payload.Name != nil && *payload.Name != exercise.Name {
		exerciseSlug := utils.Slugify(*payload.Name, utils.DefaultSlugMaxLen)
		if exerciseSlug == "" {
			return dto.ExerciseResponse{}, ErrExerciseNameInvalid
		}
		exercise.Name = *payload.Name
		exercise.Slug = exerciseSlug
	}
	if payload.Instructions != nil {
		exercise.Instructions = *payload.Instructions
	}
	if payload.OutputInstructions != nil {
		exercise.OutputInstructions = *payload.OutputInstructions
	}
	if payload.Code != nil {
		exercise.Code = *payload.Code
	}

	if err := s.exercises.Update(ctx, &exercise); err != nil {
		return dto.ExerciseResponse{}, err
	}

	return dto.NewExerciseResponse(exercise), nil
}

func (s *exerciseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.exercises.DeleteCascade(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrExerciseNotFound
		}
		return err
	}

	s.logger.Info().Str("exercise_id", id.String()).Msg("exercise deleted")
	return nil
}

func (s *exerciseService) lookup(ctx context.Context, id uuid.UUID) (models.Exercise, error) {
	exercise, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Exercise{}, ErrExerciseNotFound
		}
		return models.Exercise{}, err
	}
	return exercise, nil
}

func (s *exerciseService) classroom(ctx context.Context, slug string) (models.Classroom, error) {
	classroom, err := s.classrooms.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Classroom{}, ErrClassroomNotFound
		}
		return models.Classroom{}, err
	}
	return classroom, nil
}
