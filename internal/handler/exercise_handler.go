package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/middleware"
	"github.com/noah-isme/moonbase-api/internal/service"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

// ExerciseHandler serves the exercise catalog.
type ExerciseHandler struct {
	service service.ExerciseService
	logger  zerolog.Logger
}

// NewExerciseHandler constructs an ExerciseHandler.
func NewExerciseHandler(service service.ExerciseService, logger zerolog.Logger) *ExerciseHandler {
	return &ExerciseHandler{
		service: service,
		logger:  logger.With().Str("component", "exercise_handler").Logger(),
	}
}

// RegisterClassroomRoutes attaches the routes nested under a classroom.
func (h *ExerciseHandler) RegisterClassroomRoutes(router fiber.Router) {
	auth := middleware.AuthOptions{RequireUser: true}
	router.Get("/:slug/exercises", middleware.WithAuth(h.listForClassroom, auth))
	router.Post("/:slug/exercises/create", middleware.WithAuth(h.create, auth))
}

// Register attaches the exercise routes to the provided router group.
func (h *ExerciseHandler) Register(router fiber.Router) {
	auth := middleware.AuthOptions{RequireUser: true}
	router.Get("/:id", middleware.WithAuth(h.get, auth))
	router.Put("/:id/update", middleware.WithAuth(h.update, auth))
	router.Delete("/:id/delete", middleware.WithAuth(h.delete, auth))
}

func (h *ExerciseHandler) listForClassroom(c *fiber.Ctx) error {
	result, err := h.service.ListForClassroom(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, result)
}

func (h *ExerciseHandler) create(c *fiber.Ctx) error {
	var payload dto.ExerciseCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	exercise, err := h.service.Create(c.UserContext(), c.Params("slug"), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, exercise)
}

func (h *ExerciseHandler) get(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrExerciseNotFound)
	}

	exercise, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, exercise)
}

func (h *ExerciseHandler) update(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrExerciseNotFound)
	}

	var payload dto.ExerciseUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	exercise, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, exercise)
}

func (h *ExerciseHandler) delete(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrExerciseNotFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendMessage(c, "exercise deleted", utils.MessageResponse{ID: id})
}
