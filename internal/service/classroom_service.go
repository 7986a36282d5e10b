package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/models"
	"github.com/noah-isme/moonbase-api/internal/observability"
	"github.com/noah-isme/moonbase-api/internal/repository"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

const classroomListCacheKey = "classrooms:list:v1"

// ClassroomService manages the classroom directory and its rosters.
type ClassroomService interface {
	List(ctx context.Context, actor Actor) (dto.ClassroomListResponse, error)
	Get(ctx context.Context, slug string, actor Actor) (dto.ClassroomResponse, error)
	Create(ctx context.Context, actor Actor, payload dto.ClassroomCreateRequest) (dto.ClassroomResponse, error)
	Update(ctx context.Context, slug string, actor Actor, payload dto.ClassroomUpdateRequest) (dto.ClassroomResponse, error)
	Delete(ctx context.Context, slug string, actor Actor) error
	Join(ctx context.Context, slug string, actor Actor) error
	Leave(ctx context.Context, slug string, actor Actor) error
}

type classroomService struct {
	repo      repository.ClassroomRepository
	validator *validator.Validate
	activity  ActivityRecorder
	cache     *redis.Client
	ttl       time.Duration
	policy    *bluemonday.Policy
	tracer    trace.Tracer
	logger    zerolog.Logger
}

// NewClassroomService constructs the classroom service. cache may be nil.
func NewClassroomService(repo repository.ClassroomRepository, validator *validator.Validate, activity ActivityRecorder, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ClassroomService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &classroomService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		cache:     cache,
		ttl:       ttl,
		policy:    bluemonday.UGCPolicy(),
		tracer:    otel.Tracer("github.com/noah-isme/moonbase-api/internal/service/classroom"),
		logger:    logger.With().Str("component", "classroom_service").Logger(),
	}
}

func (s *classroomService) List(ctx context.Context, actor Actor) (dto.ClassroomListResponse, error) {
	directory, err := s.directory(ctx)
	if err != nil {
		return dto.ClassroomListResponse{}, err
	}

	memberOf := map[uint]struct{}{}
	if actor.Authenticated() {
		ids, err := s.repo.MemberClassroomIDs(ctx, actor.ID)
		if err != nil {
			return dto.ClassroomListResponse{}, err
		}
		for _, id := range ids {
			memberOf[id] = struct{}{}
		}
	}

	classrooms := make([]dto.ClassroomResponse, 0, len(directory))
	for _, item := range directory {
		_, item.IsMember = memberOf[item.ID]
		classrooms = append(classrooms, item)
	}

	return dto.ClassroomListResponse{Classrooms: classrooms}, nil
}

// directory returns every classroom with membership unset, served from Redis
// when possible.
func (s *classroomService) directory(ctx context.Context) ([]dto.ClassroomResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, classroomListCacheKey).Bytes()
		switch {
		case err == nil:
			var items []dto.ClassroomResponse
			if err := json.Unmarshal(cached, &items); err == nil {
				observability.ClassroomCache().WithLabelValues("hit").Inc()
				return items, nil
			}
		case err != redis.Nil:
			observability.ClassroomCache().WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Msg("failed to read classroom cache")
		}
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ClassroomResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewClassroomResponse(row, false))
	}

	if s.cache != nil {
		observability.ClassroomCache().WithLabelValues("miss").Inc()
		if payload, err := json.Marshal(items); err == nil {
			if err := s.cache.Set(ctx, classroomListCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache classroom directory")
			}
		}
	}

	return items, nil
}

func (s *classroomService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, classroomListCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate classroom cache")
	}
}

func (s *classroomService) Get(ctx context.Context, slug string, actor Actor) (dto.ClassroomResponse, error) {
	classroom, err := s.lookup(ctx, slug)
	if err != nil {
		return dto.ClassroomResponse{}, err
	}

	return s.respond(ctx, classroom, actor)
}

func (s *classroomService) Create(ctx context.Context, actor Actor, payload dto.ClassroomCreateRequest) (dto.ClassroomResponse, error) {
	ctx, span := s.tracer.Start(ctx, "classroom.create")
	span.SetAttributes(attribute.Int64("classroom.actor_id", int64(actor.ID)))
	defer span.End()

	if !actor.Is(models.RoleTeacher) {
		span.SetStatus(codes.Error, "forbidden")
		return dto.ClassroomResponse{}, ErrTeacherRequired
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ClassroomResponse{}, err
	}

	slug := utils.Slugify(payload.Name, utils.DefaultSlugMaxLen)
	if slug == "" {
		span.SetStatus(codes.Error, "invalid_name")
		return dto.ClassroomResponse{}, ErrClassroomNameInvalid
	}

	taken, err := s.repo.NameOrSlugTaken(ctx, payload.Name, slug, 0)
	if err != nil {
		span.RecordError(err)
		return dto.ClassroomResponse{}, err
	}
	if taken {
		span.SetStatus(codes.Error, "name_taken")
		return dto.ClassroomResponse{}, ErrClassroomNameTaken
	}

	classroom := models.Classroom{
		Name:        payload.Name,
		Slug:        slug,
		Description: s.policy.Sanitize(strings.TrimSpace(payload.Description)),
		CreatorID:   actor.ID,
	}
	if err := s.repo.Create(ctx, &classroom); err != nil {
		if repository.IsDuplicateKey(err) {
			span.SetStatus(codes.Error, "name_taken")
			return dto.ClassroomResponse{}, ErrClassroomNameTaken
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "create_failed")
		return dto.ClassroomResponse{}, err
	}
	span.SetAttributes(attribute.String("classroom.slug", classroom.Slug))

	s.invalidate(ctx)
	recordActivity(ctx, s.activity, s.logger, classroomActivity(actor, ActionClassroomCreated, classroom, map[string]interface{}{"name": classroom.Name}))

	return dto.NewClassroomResponse(classroom, false), nil
}

func (s *classroomService) Update(ctx context.Context, slug string, actor Actor, payload dto.ClassroomUpdateRequest) (dto.ClassroomResponse, error) {
	ctx, span := s.tracer.Start(ctx, "classroom.update")
	span.SetAttributes(
		attribute.String("classroom.slug", slug),
		attribute.Int64("classroom.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if payload.Name != nil {
		trimmed := strings.TrimSpace(*payload.Name)
		payload.Name = &trimmed
	}
	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ClassroomResponse{}, err
	}

	classroom, err := s.lookup(ctx, slug)
	if err != nil {
		span.RecordError(err)
		return dto.ClassroomResponse{}, err
	}
	if !classroom.IsOwnedBy(actor.ID) {
		span.SetStatus(codes.Error, "forbidden")
		return dto.ClassroomResponse{}, ErrNotClassroomCreator
	}

	changes := map[string]interface{}{}
	if payload.Name != nil && *payload.Name != classroom.Name {
		newSlug := utils.Slugify(*payload.Name, utils.DefaultSlugMaxLen)
		if newSlug == "" {
			return dto.ClassroomResponse{}, ErrClassroomNameInvalid
		}
		taken, err := s.repo.NameOrSlugTaken(ctx, *payload.Name, newSlug, classroom.ID)
		if err != nil {
			span.RecordError(err)
			return dto.ClassroomResponse{}, err
		}
		if taken {
			span.SetStatus(codes.Error, "name_taken")
			return dto.ClassroomResponse{}, ErrClassroomNameTaken
		}
		changes["previous_slug"] = classroom.Slug
		classroom.Name = *payload.Name
		classroom.Slug = newSlug
	}
	if payload.Description != nil {
		classroom.Description = s.policy.Sanitize(strings.TrimSpace(*payload.Description))
		changes["description"] = true
	}

	if err := s.repo.Update(ctx, &classroom); err != nil {
		if repository.IsDuplicateKey(err) {
			return dto.ClassroomResponse{}, ErrClassroomNameTaken
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "update_failed")
		return dto.ClassroomResponse{}, err
	}

	s.invalidate(ctx)
	recordActivity(ctx, s.activity, s.logger, classroomActivity(actor, ActionClassroomUpdated, classroom, changes))

	return s.respond(ctx, classroom, actor)
}

func (s *classroomService) Delete(ctx context.Context, slug string, actor Actor) error {
	ctx, span := s.tracer.Start(ctx, "classroom.delete")
	span.SetAttributes(attribute.String("classroom.slug", slug))
	defer span.End()

	classroom, err := s.lookup(ctx, slug)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !classroom.IsOwnedBy(actor.ID) {
		span.SetStatus(codes.Error, "forbidden")
		return ErrNotClassroomCreator
	}

	if err := s.repo.DeleteCascade(ctx, classroom.ID); err != nil {
		if repository.IsNotFound(err) {
			return ErrClassroomNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete_failed")
		return err
	}

	s.invalidate(ctx)
	recordActivity(ctx, s.activity, s.logger, classroomActivity(actor, ActionClassroomDeleted, classroom, map[string]interface{}{"name": classroom.Name}))

	return nil
}

func (s *classroomService) Join(ctx context.Context, slug string, actor Actor) error {
	if !actor.Is(models.RoleStudent) {
		return ErrStudentRequired
	}

	classroom, err := s.lookup(ctx, slug)
	if err != nil {
		return err
	}

	member, err := s.repo.IsMember(ctx, classroom.ID, actor.ID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyMember
	}

	membership := models.ClassroomMembership{ClassroomID: classroom.ID, UserID: actor.ID}
	if err := s.repo.AddMember(ctx, &membership); err != nil {
		if repository.IsDuplicateKey(err) {
			return ErrAlreadyMember
		}
		return err
	}

	recordActivity(ctx, s.activity, s.logger, classroomActivity(actor, ActionClassroomJoined, classroom, nil))
	return nil
}

func (s *classroomService) Leave(ctx context.Context, slug string, actor Actor) error {
	if !actor.Is(models.RoleStudent) {
		return ErrStudentRequired
	}

	classroom, err := s.lookup(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.repo.RemoveMember(ctx, classroom.ID, actor.ID); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotMember
		}
		return err
	}

	recordActivity(ctx, s.activity, s.logger, classroomActivity(actor, ActionClassroomLeft, classroom, nil))
	return nil
}

// classroomActivity keys entries by the numeric id, which survives renames,
// and records the slug current at the time in the metadata.
func classroomActivity(actor Actor, action string, classroom models.Classroom, metadata map[string]interface{}) ActivityEntry {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["slug"] = classroom.Slug
	return ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "classroom",
		EntityID:   strconv.FormatUint(uint64(classroom.ID), 10),
		Metadata:   metadata,
	}
}

func (s *classroomService) lookup(ctx context.Context, slug string) (models.Classroom, error) {
	classroom, err := s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Classroom{}, ErrClassroomNotFound
		}
		return models.Classroom{}, err
	}
	return classroom, nil
}

func (s *classroomService) respond(ctx context.Context, classroom models.Classroom, actor Actor) (dto.ClassroomResponse, error) {
	isMember := false
	if actor.Authenticated() {
		member, err := s.repo.IsMember(ctx, classroom.ID, actor.ID)
		if err != nil {
			return dto.ClassroomResponse{}, err
		}
		isMember = member
	}
	return dto.NewClassroomResponse(classroom, isMember), nil
}
