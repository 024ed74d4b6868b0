package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclelog/internal/models"
)

const (
	authCookieName = "cyclelog_auth"
	contextUserKey = "current_user"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}
