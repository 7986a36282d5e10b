package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/moonbase-api/internal/utils"
)

// JWTConfig configures where access tokens are read from and how they are verified.
type JWTConfig struct {
	Secret     string
	CookieName string
}

// JWTProtected validates the access token carried by the auth cookie or, failing
// that, a bearer Authorization header. On success the user id, username and
// role are stored in the request locals.
func JWTProtected(cfg JWTConfig) fiber.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "access_token"
	}

	return func(c *fiber.Ctx) error {
		tokenString, err := extractToken(c, cookieName)
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.Secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		userID := extractUserIDFromClaims(claims)
		if userID == nil || *userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token subject")
		}

		c.Locals("user_id", *userID)
		if username, ok := claims["username"].(string); ok {
			c.Locals("username", strings.TrimSpace(username))
		}
		c.Locals("user_role", extractUserRoleFromClaims(claims))

		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, cookieName string) (string, error) {
	if cookie := strings.TrimSpace(c.Cookies(cookieName)); cookie != "" {
		return cookie, nil
	}

	authorization := c.Get(fiber.HeaderAuthorization)
	if authorization == "" {
		return "", fmt.Errorf("authentication required")
	}

	const bearer = "bearer "
	if len(authorization) < len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
		return "", fmt.Errorf("invalid authorization header")
	}

	tokenString := strings.TrimSpace(authorization[len(bearer):])
	if tokenString == "" {
		return "", fmt.Errorf("invalid token")
	}
	return tokenString, nil
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	for _, key := range []string{"sub", "user_id"} {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}
	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}

func extractUserRoleFromClaims(claims jwt.MapClaims) string {
	if value, ok := claims["role"].(string); ok {
		return strings.ToLower(strings.TrimSpace(value))
	}
	return ""
}
