package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/middleware"
	"github.com/noah-isme/moonbase-api/internal/service"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

// ActivityHandler exposes the activity log to teachers.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches activity log routes to the router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", middleware.RequireRole(middleware.AuthRoleTeacher), h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil || page < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil || pageSize < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	actorID, err := parseQueryInt(c, "actor_id")
	if err != nil || actorID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    uint(actorID),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
	}

	response, err := h.service.List(c.UserContext(), actorFromContext(c), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, response)
}
