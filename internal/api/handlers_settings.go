package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclelog/internal/services"
)

type telegramSettingsInput struct {
	ChatID *int64 `json:"chat_id"`
}

// UpdateTelegramSettings sets the chat that receives period reminders. A chat
// id of zero turns reminders off.
func (handler *Handler) UpdateTelegramSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := telegramSettingsInput{}
	if err := parseJSONBody(c, &input); err != nil || input.ChatID == nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	if err := handler.authService.SetTelegramChat(user.ID, *input.ChatID); err != nil {
		handler.log.WithError(err).Error("update telegram settings failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to update settings")
	}
	return c.JSON(fiber.Map{
		"telegram_chat_id": *input.ChatID,
		"telegram_enabled": *input.ChatID != 0,
	})
}

type passwordConfirmation struct {
	Password string `json:"password"`
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	change := services.PasswordChange{}
	if err := parseJSONBody(c, &change); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.settingsService.ChangePassword(user.ID, change); err != nil {
		return handler.settingsError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ClearData removes every logged cycle but keeps the account.
func (handler *Handler) ClearData(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := passwordConfirmation{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.settingsService.ConfirmPassword(user.ID, input.Password); err != nil {
		return handler.settingsError(c, err)
	}
	if err := handler.cycleService.ClearCycles(user.ID); err != nil {
		return handler.cycleError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := passwordConfirmation{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.settingsService.DeleteAccount(user.ID, input.Password); err != nil {
		return handler.settingsError(c, err)
	}

	handler.hub.Publish(user.ID, nil)
	handler.hub.Close(user.ID)
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) settingsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSettingsPasswordChangeInvalidInput),
		errors.Is(err, services.ErrSettingsPasswordMissing):
		return apiError(c, fiber.StatusBadRequest, "password is required")
	case errors.Is(err, services.ErrSettingsPasswordMismatch):
		return apiError(c, fiber.StatusBadRequest, "passwords do not match")
	case errors.Is(err, services.ErrSettingsNewPasswordMustDiffer):
		return apiError(c, fiber.StatusBadRequest, "new password must differ")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrSettingsInvalidCurrentPassword),
		errors.Is(err, services.ErrSettingsPasswordInvalid):
		return apiError(c, fiber.StatusForbidden, "invalid password")
	case errors.Is(err, services.ErrUserNotFound):
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	default:
		handler.log.WithError(err).Error("settings request failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to update settings")
	}
}
