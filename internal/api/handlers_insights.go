package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclelog/internal/services"
)

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.now()
	year, month, err := services.ParseCalendarMonth(c.Query("month"), now, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	calendar, err := handler.statsService.BuildCalendar(user.ID, year, month, now)
	if err != nil {
		return handler.cycleError(c, err)
	}
	return c.JSON(calendar)
}

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	report, err := handler.statsService.BuildStats(user.ID)
	if err != nil {
		return handler.cycleError(c, err)
	}
	return c.JSON(report)
}

func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	report, err := handler.statsService.BuildPrediction(user.ID, handler.today())
	if err != nil {
		return handler.cycleError(c, err)
	}
	return c.JSON(report)
}
