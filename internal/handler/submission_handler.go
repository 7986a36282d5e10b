package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/middleware"
	"github.com/noah-isme/moonbase-api/internal/service"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

// SubmissionHandler manages submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// RegisterExerciseRoutes attaches the routes nested under an exercise.
func (h *SubmissionHandler) RegisterExerciseRoutes(router fiber.Router) {
	router.Get("/:id/submissions", middleware.WithAuth(h.listForExercise, middleware.AuthOptions{Role: middleware.AuthRoleTeacher}))
	router.Post("/:id/submissions/create", middleware.WithAuth(h.create, middleware.AuthOptions{Role: middleware.AuthRoleStudent}))
	router.Get("/:id/submission", middleware.WithAuth(h.getOwn, middleware.AuthOptions{Role: middleware.AuthRoleStudent}))
}

// Register attaches the submission routes to the provided router group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	auth := middleware.AuthOptions{RequireUser: true}
	router.Get("/:id", middleware.WithAuth(h.get, auth))
	router.Put("/:id/update", middleware.WithAuth(h.update, auth))
}

func (h *SubmissionHandler) listForExercise(c *fiber.Ctx) error {
	exerciseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrExerciseNotFound)
	}

	result, err := h.service.ListForExercise(c.UserContext(), exerciseID, actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, result)
}

func (h *SubmissionHandler) create(c *fiber.Ctx) error {
	exerciseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrExerciseNotFound)
	}

	var payload dto.SubmissionCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	submission, err := h.service.Create(c.UserContext(), exerciseID, actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, submission)
}

func (h *SubmissionHandler) getOwn(c *fiber.Ctx) error {
	exerciseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrExerciseNotFound)
	}

	submission, err := h.service.GetOwn(c.UserContext(), exerciseID, actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, submission)
}

func (h *SubmissionHandler) get(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrSubmissionNotFound)
	}

	submission, err := h.service.Get(c.UserContext(), id, actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, submission)
}

func (h *SubmissionHandler) update(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrSubmissionNotFound)
	}

	var payload dto.SubmissionUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	submission, err := h.service.Update(c.UserContext(), id, actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, submission)
}
