package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/middleware"
	"github.com/noah-isme/moonbase-api/internal/service"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

// TestCaseHandler serves the per-exercise test bank.
type TestCaseHandler struct {
	service service.TestCaseService
	logger  zerolog.Logger
}

// NewTestCaseHandler constructs a TestCaseHandler.
func NewTestCaseHandler(service service.TestCaseService, logger zerolog.Logger) *TestCaseHandler {
	return &TestCaseHandler{
		service: service,
		logger:  logger.With().Str("component", "test_case_handler").Logger(),
	}
}

// RegisterExerciseRoutes attaches the routes nested under an exercise.
func (h *TestCaseHandler) RegisterExerciseRoutes(router fiber.Router) {
	auth := middleware.AuthOptions{RequireUser: true}
	router.Get("/:id/tests", middleware.WithAuth(h.listForExercise, auth))
	router.Post("/:id/tests/create", middleware.WithAuth(h.create, auth))
}

// Register attaches the test routes to the provided router group.
func (h *TestCaseHandler) Register(router fiber.Router) {
	auth := middleware.AuthOptions{RequireUser: true}
	router.Get("/:id", middleware.WithAuth(h.get, auth))
	router.Put("/:id/update", middleware.WithAuth(h.update, auth))
	router.Delete("/:id/delete", middleware.WithAuth(h.delete, auth))
}

func (h *TestCaseHandler) listForExercise(c *fiber.Ctx) error {
	exerciseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrExerciseNotFound)
	}

	result, err := h.service.ListForExercise(c.UserContext(), exerciseID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, result)
}

func (h *TestCaseHandler) create(c *fiber.Ctx) error {
	exerciseID, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrExerciseNotFound)
	}

	var payload dto.TestCaseCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	test, err := h.service.Create(c.UserContext(), exerciseID, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, test)
}

func (h *TestCaseHandler) get(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrTestNotFound)
	}

	test, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, test)
}

func (h *TestCaseHandler) update(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrTestNotFound)
	}

	var payload dto.TestCaseUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	test, err := h.service.Update(c.UserContext(), id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, test)
}

func (h *TestCaseHandler) delete(c *fiber.Ctx) error {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return respondError(c, h.logger, service.ErrTestNotFound)
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendMessage(c, "test deleted", utils.MessageResponse{ID: id})
}
