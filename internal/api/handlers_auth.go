package api

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclelog/internal/models"
	"github.com/terraincognita07/cyclelog/internal/services"
)

type registerInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string            `json:"token"`
	User  services.Identity `json:"user"`
}

type meResponse struct {
	services.Identity
	TelegramEnabled bool `json:"telegram_enabled"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Register(input.Email, input.Password, input.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEmail):
			return apiError(c, fiber.StatusBadRequest, "invalid email")
		case errors.Is(err, services.ErrWeakPassword):
			return apiError(c, fiber.StatusBadRequest, "weak password")
		case errors.Is(err, services.ErrEmailTaken):
			return apiError(c, fiber.StatusConflict, "email already exists")
		default:
			handler.log.WithError(err).Error("register failed")
			return apiError(c, fiber.StatusInternalServerError, "failed to create account")
		}
	}

	return handler.respondWithSession(c, fiber.StatusCreated, &user)
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := parseJSONBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	now := handler.now()
	limiterKey := loginLimiterKey(c, input.Email)
	if wait := handler.loginLimiter.retryAfter(limiterKey, now); wait > 0 {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.recordFailure(limiterKey, now)
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		handler.log.WithError(err).Error("login failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to sign in")
	}

	handler.loginLimiter.clear(limiterKey)
	return handler.respondWithSession(c, fiber.StatusOK, &user)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(meResponse{
		Identity:        services.IdentityFromUser(*user),
		TelegramEnabled: user.TelegramChatID != 0,
	})
}

func (handler *Handler) respondWithSession(c *fiber.Ctx, status int, user *models.User) error {
	token, err := handler.buildToken(user, defaultAuthTokenTTL)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.setAuthCookie(c, token)
	return c.Status(status).JSON(sessionResponse{
		Token: token,
		User:  services.IdentityFromUser(*user),
	})
}
