package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclelog/internal/services"
)

type cyclePayload struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Flow      string   `json:"flow"`
	Mood      string   `json:"mood"`
	Symptoms  []string `json:"symptoms"`
	Notes     string   `json:"notes"`
}

var (
	errInvalidStartDate = errors.New("invalid start date")
	errInvalidEndDate   = errors.New("invalid end date")
)

func (handler *Handler) ListCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cycles, err := handler.cycleService.ListCycles(user.ID)
	if err != nil {
		return handler.cycleError(c, err)
	}
	return c.JSON(cycles)
}

func (handler *Handler) GetCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cycle, err := handler.cycleService.GetCycle(user.ID, c.Params("id"))
	if err != nil {
		return handler.cycleError(c, err)
	}
	return c.JSON(cycle)
}

func (handler *Handler) CreateCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := handler.parseCyclePayload(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	cycle, err := handler.cycleService.AddCycle(user.ID, input)
	if err != nil {
		return handler.cycleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cycle)
}

func (handler *Handler) UpdateCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input, err := handler.parseCyclePayload(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	cycle, err := handler.cycleService.UpdateCycle(user.ID, c.Params("id"), input)
	if err != nil {
		return handler.cycleError(c, err)
	}
	return c.JSON(cycle)
}

func (handler *Handler) DeleteCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.cycleService.DeleteCycle(user.ID, c.Params("id")); err != nil {
		return handler.cycleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) parseCyclePayload(c *fiber.Ctx) (services.CycleInput, error) {
	payload := cyclePayload{}
	if err := parseJSONBody(c, &payload); err != nil {
		return services.CycleInput{}, errors.New("invalid input")
	}

	input := services.CycleInput{
		Flow:     payload.Flow,
		Mood:     payload.Mood,
		Symptoms: payload.Symptoms,
		Notes:    payload.Notes,
	}

	if raw := strings.TrimSpace(payload.StartDate); raw != "" {
		start, err := services.ParseDateKey(raw, handler.location)
		if err != nil {
			return services.CycleInput{}, errInvalidStartDate
		}
		input.StartDate = start
	}
	if raw := strings.TrimSpace(payload.EndDate); raw != "" {
		end, err := services.ParseDateKey(raw, handler.location)
		if err != nil {
			return services.CycleInput{}, errInvalidEndDate
		}
		input.EndDate = &end
	}
	return input, nil
}

func (handler *Handler) cycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCycleNotFound):
		return apiError(c, fiber.StatusNotFound, "cycle not found")
	case errors.Is(err, services.ErrCycleStartRequired),
		errors.Is(err, services.ErrCycleEndBeforeStart),
		errors.Is(err, services.ErrInvalidFlow),
		errors.Is(err, services.ErrInvalidMood),
		errors.Is(err, services.ErrCycleNotesTooLong):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	default:
		handler.log.WithError(err).Error("cycle request failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to process cycles")
	}
}

func (handler *Handler) today() time.Time {
	return services.DateAtLocation(handler.now(), handler.location)
}
