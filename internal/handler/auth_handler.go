package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/moonbase-api/internal/dto"
	"github.com/noah-isme/moonbase-api/internal/service"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

// CookieConfig controls how the access token cookie is written.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler exposes signup, login, logout and the current user.
type AuthHandler struct {
	service service.AuthService
	cookie  CookieConfig
	logger  zerolog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(service service.AuthService, cookie CookieConfig, logger zerolog.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "access_token"
	}
	return &AuthHandler{
		service: service,
		cookie:  cookie,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the auth routes. authenticated guards /me and
// loginLimiter throttles /login; either may be nil.
func (h *AuthHandler) Register(router fiber.Router, authenticated, loginLimiter fiber.Handler) {
	router.Post("/signup", h.signup)
	if loginLimiter != nil {
		router.Post("/login", loginLimiter, h.login)
	} else {
		router.Post("/login", h.login)
	}
	router.Post("/logout", h.logout)
	if authenticated != nil {
		router.Get("/me", authenticated, h.me)
	} else {
		router.Get("/me", h.me)
	}
}

func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var payload dto.SignupRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.service.Signup(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	c.Cookie(h.buildCookie(result.AccessToken, result.ExpiresAt))
	requestLogger(h.logger, c).Info().Uint("user_id", result.User.ID).Msg("user logged in")

	return utils.SendSuccess(c, result)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	c.Cookie(h.buildCookie("", time.Unix(0, 0)))
	return utils.SendMessage(c, "logged out", utils.MessageResponse{})
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, user)
}

func (h *AuthHandler) buildCookie(value string, expires time.Time) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}
