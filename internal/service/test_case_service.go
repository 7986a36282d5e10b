package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/models"
	"github.com/noah-isme/moonbase-api/internal/repository"
)

// TestCaseService manages the expected-output checks attached to exercises.
type TestCaseService interface {
	ListForExercise(ctx context.Context, exerciseID uuid.UUID) (dto.TestCaseListResponse, error)
	Create(ctx context.Context, exerciseID uuid.UUID, payload dto.TestCaseCreateRequest) (dto.TestCaseResponse, error)
	Get(ctx context.Context, id uuid.UUID) (dto.TestCaseResponse, error)
	Update(ctx context.Context, id uuid.UUID, payload dto.TestCaseUpdateRequest) (dto.TestCaseResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type testCaseService struct {
	tests     repository.TestCaseRepository
	exercises repository.ExerciseRepository
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewTestCaseService constructs the test bank service.
func NewTestCaseService(tests repository.TestCaseRepository, exercises repository.ExerciseRepository, validator *validator.Validate, logger zerolog.Logger) TestCaseService {
	return &testCaseService{
		tests:     tests,
		exercises: exercises,
		validator: validator,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "test_case_service").Logger(),
	}
}

func (s *testCaseService) ListForExercise(ctx context.Context, exerciseID uuid.UUID) (dto.TestCaseListResponse, error) {
	if err := s.ensureExercise(ctx, exerciseID); err != nil {
		return dto.TestCaseListResponse{}, err
	}

	items, err := s.tests.ListByExercise(ctx, exerciseID)
	if err != nil {
		return dto.TestCaseListResponse{}, err
	}

	tests := make([]dto.TestCaseResponse, 0, len(items))
	for _, item := range items {
		tests = append(tests, dto.NewTestCaseResponse(item))
	}

	return dto.TestCaseListResponse{Tests: tests}, nil
}

func (s *testCaseService) Create(ctx context.Context, exerciseID uuid.UUID, payload dto.TestCaseCreateRequest) (dto.TestCaseResponse, error) {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.TestType = strings.TrimSpace(payload.TestType)
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestCaseResponse{}, err
	}
	if !models.IsValidTestType(payload.TestType) {
		return dto.TestCaseResponse{}, ErrInvalidTestType
	}

	if err := s.ensureExercise(ctx, exerciseID); err != nil {
		return dto.TestCaseResponse{}, err
	}

	test := models.TestCase{
		Name:           payload.Name,
		TestType:       payload.TestType,
		ExpectedOutput: payload.ExpectedOutput,
		HelpText:       s.policy.Sanitize(strings.TrimSpace(payload.HelpText)),
	}
	if err := s.tests.CreateForExercise(ctx, exerciseID, &test); err != nil {
		return dto.TestCaseResponse{}, err
	}

	return dto.NewTestCaseResponse(test), nil
}

func (s *testCaseService) Get(ctx context.Context, id uuid.UUID) (dto.TestCaseResponse, error) {
	test, err := s.lookup(ctx, id)
	if err != nil {
		return dto.TestCaseResponse{}, err
	}
	return dto.NewTestCaseResponse(test), nil
}

func (s *testCaseService) Update(ctx context.Context, id uuid.UUID, payload dto.TestCaseUpdateRequest) (dto.TestCaseResponse, error) {
	if payload.Name != nil {
		name := strings.TrimSpace(*payload.Name)
		payload.Name = &name
	}
	if payload.TestType != nil {
		testType := strings.TrimSpace(*payload.TestType)
		payload.TestType = &testType
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TestCaseResponse{}, err
	}
	if payload.TestType != nil && !models.IsValidTestType(*payload.TestType) {
		return dto.TestCaseResponse{}, ErrInvalidTestType
	}

	test, err := s.lookup(ctx, id)
	if err != nil {
		return dto.TestCaseResponse{}, err
	}

	if payload.Name != nil {
		test.Name = *payload.Name
	}
	if payload.TestType != nil {
		test.TestType = *payload.TestType
	}
	if payload.ExpectedOutput != nil {
		test.ExpectedOutput = *payload.ExpectedOutput
	}
	if payload.HelpText != nil {
		test.HelpText = s.policy.Sanitize(strings.TrimSpace(*payload.HelpText))
	}

	if err := s.tests.Update(ctx, &test); err != nil {
		return dto.TestCaseResponse{}, err
	}

	return dto.NewTestCaseResponse(test), nil
}

func (s *testCaseService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tests.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrTestNotFound
		}
		return err
	}
	return nil
}

func (s *testCaseService) lookup(ctx context.Context, id uuid.UUID) (models.TestCase, error) {
	test, err := s.tests.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.TestCase{}, ErrTestNotFound
		}
		return models.TestCase{}, err
	}
	return test, nil
}

func (s *testCaseService) ensureExercise(ctx context.Context, exerciseID uuid.UUID) error {
	if _, err := s.exercises.GetByID(ctx, exerciseID); err != nil {
		if repository.IsNotFound(err) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}
