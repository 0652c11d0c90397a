package middleware

import (
	"errors"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"

	"github.com/obadahasan/souqgateway/internal/config"
	"github.com/obadahasan/souqgateway/internal/constants"
)

const (
	localUserID   = "userID"
	localUserName = "userName"
)

// WithAuth verifies the bearer token minted at /v1/verify and stashes
// the caller's identity in the request locals.
func WithAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.Auth.PrivateKey), nil
		})
		if err != nil {
			return unauthorized(c)
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			return unauthorized(c)
		}

		c.Locals(localUserID, sub)
		if name, ok := claims["name"].(string); ok {
			c.Locals(localUserName, name)
		}

		return c.Next()
	}
}

// UserID returns the authenticated caller's id set by WithAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func UserName(c *fiber.Ctx) string {
	name, _ := c.Locals(localUserName).(string)
	return name
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"code":    constants.ErrCodeUnauthorized,
		"message": constants.GetErrorMessage(constants.ErrCodeUnauthorized),
	})
}
