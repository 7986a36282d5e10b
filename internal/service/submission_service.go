package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/models"
	"github.com/noah-isme/moonbase-api/internal/observability"
	"github.com/noah-isme/moonbase-api/internal/repository"
)

// SubmissionService drives the per-student submission lifecycle.
type SubmissionService interface {
	Create(ctx context.Context, exerciseID uuid.UUID, actor Actor, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	Update(ctx context.Context, id uuid.UUID, actor Actor, payload dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error)
	Get(ctx context.Context, id uuid.UUID, actor Actor) (dto.SubmissionResponse, error)
	GetOwn(ctx context.Context, exerciseID uuid.UUID, actor Actor) (dto.SubmissionResponse, error)
	ListForExercise(ctx context.Context, exerciseID uuid.UUID, actor Actor) (dto.SubmissionListResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	exercises   repository.ExerciseRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	events      EventPublisher
	policy      *bluemonday.Policy
	tracer      trace.Tracer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs the submission service. activity and events may be nil.
func NewSubmissionService(submissions repository.SubmissionRepository, exercises repository.ExerciseRepository, validator *validator.Validate, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		exercises:   exercises,
		validator:   validator,
		activity:    activity,
		events:      events,
		policy:      bluemonday.UGCPolicy(),
		tracer:      otel.Tracer("github.com/noah-isme/moonbase-api/internal/service/submission"),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Create(ctx context.Context, exerciseID uuid.UUID, actor Actor, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.create")
	span.SetAttributes(
		attribute.String("submission.exercise_id", exerciseID.String()),
		attribute.Int64("submission.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if !actor.Is(models.RoleStudent) {
		span.SetStatus(codes.Error, "forbidden")
		return dto.SubmissionResponse{}, ErrStudentRequired
	}
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	exercise, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		if repository.IsNotFound(err) {
			span.SetStatus(codes.Error, "exercise_not_found")
			return dto.SubmissionResponse{}, ErrExerciseNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	code := exercise.Code
	if payload.Code != nil {
		code = *payload.Code
	}
	if !isPlainText(code) {
		span.SetStatus(codes.Error, "binary_code")
		return dto.SubmissionResponse{}, ErrSubmissionCodeBinary
	}

	if _, err := s.submissions.GetByStudentAndExercise(ctx, actor.ID, exerciseID); err == nil {
		span.SetStatus(codes.Error, "duplicate")
		return dto.SubmissionResponse{}, ErrSubmissionExists
	} else if !repository.IsNotFound(err) {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		StudentID:     actor.ID,
		ExerciseID:    exerciseID,
		Status:        models.SubmissionStatusAssigned,
		SubmittedCode: code,
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		if repository.IsDuplicateKey(err) {
			span.SetStatus(codes.Error, "duplicate")
			return dto.SubmissionResponse{}, ErrSubmissionExists
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "create_failed")
		return dto.SubmissionResponse{}, err
	}
	if stored, err := s.submissions.GetByID(ctx, submission.ID); err == nil {
		submission = stored
	} else {
		s.logger.Warn().Err(err).Str("submission_id", submission.ID.String()).Msg("failed to reload submission after create")
		submission.Student = models.User{ID: actor.ID, Username: actor.Username}
	}
	span.SetAttributes(attribute.String("submission.id", submission.ID.String()))

	s.afterWrite(ctx, actor, submission, EventSubmissionCreated, ActionSubmissionCreated, "")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) Update(ctx context.Context, id uuid.UUID, actor Actor, payload dto.SubmissionUpdateRequest) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.update")
	span.SetAttributes(
		attribute.String("submission.id", id.String()),
		attribute.Int64("submission.actor_id", int64(actor.ID)),
		attribute.String("submission.actor_role", string(actor.Role)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.lookup(ctx, id)
	if err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	previous := submission.Status
	switch {
	case actor.Is(models.RoleTeacher):
		err = s.applyTeacherPatch(&submission, payload)
	case actor.Is(models.RoleStudent) && submission.IsOwnedBy(actor.ID):
		err = s.applyStudentPatch(&submission, payload)
	default:
		err = ErrSubmissionAccessDenied
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return dto.SubmissionResponse{}, err
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update_failed")
		return dto.SubmissionResponse{}, err
	}

	if submission.Status != previous {
		observability.SubmissionTransitions().WithLabelValues(string(actor.Role), submission.Status).Inc()
		s.afterWrite(ctx, actor, submission, EventSubmissionStatusChanged, ActionSubmissionStatusChanged, previous)
	}

	return dto.NewSubmissionResponse(submission), nil
}

// applyTeacherPatch lets a teacher close the submission, leave feedback and
// set a due date. Code stays with the student.
func (s *submissionService) applyTeacherPatch(submission *models.Submission, payload dto.SubmissionUpdateRequest) error {
	if payload.SubmittedCode != nil {
		return ErrSubmissionFieldDenied
	}
	if payload.IsEmpty() {
		return ErrEmptyPatch
	}
	if payload.Status != nil {
		if !submission.CanTransition(models.RoleTeacher, *payload.Status) {
			return ErrInvalidStatusTransition
		}
		submission.Status = *payload.Status
	}
	if payload.Feedback != nil {
		submission.Feedback = s.policy.Sanitize(strings.TrimSpace(*payload.Feedback))
	}
	if payload.DueDate != nil {
		due := payload.DueDate.UTC()
		submission.DueDate = &due
	}
	return nil
}

// applyStudentPatch lets the owning student edit code and toggle between
// assigned and submitted until the work is reviewed.
func (s *submissionService) applyStudentPatch(submission *models.Submission, payload dto.SubmissionUpdateRequest) error {
	if payload.Feedback != nil || payload.DueDate != nil {
		return ErrSubmissionFieldDenied
	}
	if submission.IsReviewed() {
		return ErrSubmissionReviewed
	}
	if payload.IsEmpty() {
		return ErrEmptyPatch
	}
	if payload.Status != nil {
		if !submission.CanTransition(models.RoleStudent, *payload.Status) {
			return ErrInvalidStatusTransition
		}
		submission.Status = *payload.Status
	}
	if payload.SubmittedCode != nil {
		if !isPlainText(*payload.SubmittedCode) {
			return ErrSubmissionCodeBinary
		}
		submission.SubmittedCode = *payload.SubmittedCode
	}
	return nil
}

func (s *submissionService) Get(ctx context.Context, id uuid.UUID, actor Actor) (dto.SubmissionResponse, error) {
	submission, err := s.lookup(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !actor.Is(models.RoleTeacher) && !submission.IsOwnedBy(actor.ID) {
		return dto.SubmissionResponse{}, ErrSubmissionAccessDenied
	}
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) GetOwn(ctx context.Context, exerciseID uuid.UUID, actor Actor) (dto.SubmissionResponse, error) {
	if !actor.Authenticated() {
		return dto.SubmissionResponse{}, ErrUnauthorized
	}

	submission, err := s.submissions.GetByStudentAndExercise(ctx, actor.ID, exerciseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) ListForExercise(ctx context.Context, exerciseID uuid.UUID, actor Actor) (dto.SubmissionListResponse, error) {
	if !actor.Is(models.RoleTeacher) {
		return dto.SubmissionListResponse{}, ErrTeacherRequired
	}

	if _, err := s.exercises.GetByID(ctx, exerciseID); err != nil {
		if repository.IsNotFound(err) {
			return dto.SubmissionListResponse{}, ErrExerciseNotFound
		}
		return dto.SubmissionListResponse{}, err
	}

	items, err := s.submissions.ListByExercise(ctx, exerciseID)
	if err != nil {
		return dto.SubmissionListResponse{}, err
	}

	submissions := make([]dto.SubmissionResponse, 0, len(items))
	for _, item := range items {
		submissions = append(submissions, dto.NewSubmissionResponse(item))
	}
	return dto.SubmissionListResponse{Submissions: submissions}, nil
}

func (s *submissionService) lookup(ctx context.Context, id uuid.UUID) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}
	return submission, nil
}

func (s *submissionService) afterWrite(ctx context.Context, actor Actor, submission models.Submission, eventType, action, previousStatus string) {
	metadata := map[string]interface{}{
		"exercise_id": submission.ExerciseID.String(),
		"status":      submission.Status,
	}
	if previousStatus != "" {
		metadata["previous_status"] = previousStatus
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "submission",
		EntityID:   submission.ID.String(),
		Metadata:   metadata,
	})

	publishEvent(ctx, s.events, s.logger, SubmissionEvent{
		Type:         eventType,
		SubmissionID: submission.ID,
		ExerciseID:   submission.ExerciseID,
		StudentID:    submission.StudentID,
		Status:       submission.Status,
		ActorID:      actor.ID,
		ActorRole:    string(actor.Role),
		OccurredAt:   s.now().UTC(),
	})
}

// isPlainText reports whether code is text rather than a binary blob. Valid
// UTF-8 without NUL bytes is text; anything else is sniffed.
func isPlainText(code string) bool {
	if code == "" {
		return true
	}
	if utf8.ValidString(code) {
		return !strings.ContainsRune(code, 0)
	}
	for mime := mimetype.Detect([]byte(code)); mime != nil; mime = mime.Parent() {
		if mime.Is("text/plain") {
			return true
		}
	}
	return false
}
