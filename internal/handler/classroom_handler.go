package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/middleware"
	"github.com/noah-isme/moonbase-api/internal/service"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

// ClassroomHandler serves the classroom directory and its roster.
type ClassroomHandler struct {
	service service.ClassroomService
	logger  zerolog.Logger
}

// NewClassroomHandler constructs a ClassroomHandler.
func NewClassroomHandler(service service.ClassroomService, logger zerolog.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		service: service,
		logger:  logger.With().Str("component", "classroom_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ClassroomHandler) Register(router fiber.Router) {
	teacher := middleware.AuthOptions{Role: middleware.AuthRoleTeacher}
	student := middleware.AuthOptions{Role: middleware.AuthRoleStudent}
	anyUser := middleware.AuthOptions{RequireUser: true}

	router.Get("", middleware.WithAuth(h.list, anyUser))
	router.Post("/create", middleware.WithAuth(h.create, teacher))
	router.Get("/:slug", middleware.WithAuth(h.get, anyUser))
	router.Put("/:slug/update", middleware.WithAuth(h.update, anyUser))
	router.Delete("/:slug/delete", middleware.WithAuth(h.delete, anyUser))
	router.Post("/:slug/join", middleware.WithAuth(h.join, student))
	router.Delete("/:slug/leave", middleware.WithAuth(h.leave, student))
}

func (h *ClassroomHandler) list(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, result)
}

func (h *ClassroomHandler) get(c *fiber.Ctx) error {
	classroom, err := h.service.Get(c.UserContext(), c.Params("slug"), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, classroom)
}

func (h *ClassroomHandler) create(c *fiber.Ctx) error {
	var payload dto.ClassroomCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	classroom, err := h.service.Create(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, classroom)
}

func (h *ClassroomHandler) update(c *fiber.Ctx) error {
	var payload dto.ClassroomUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	classroom, err := h.service.Update(c.UserContext(), c.Params("slug"), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendSuccess(c, classroom)
}

func (h *ClassroomHandler) delete(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.service.Delete(c.UserContext(), slug, actorFromContext(c)); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendMessage(c, "classroom deleted", utils.MessageResponse{Slug: slug})
}

func (h *ClassroomHandler) join(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.service.Join(c.UserContext(), slug, actorFromContext(c)); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendMessage(c, "joined classroom", utils.MessageResponse{Slug: slug})
}

func (h *ClassroomHandler) leave(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if err := h.service.Leave(c.UserContext(), slug, actorFromContext(c)); err != nil {
		return respondError(c, h.logger, err)
	}
	return utils.SendMessage(c, "left classroom", utils.MessageResponse{Slug: slug})
}
