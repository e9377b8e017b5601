package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// AuthHandler wires the account endpoints: registration, login, profile,
// the user directory, and the password-reset flow.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth endpoints to the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Get("/profile", h.profile)
	router.Put("/profile", h.updateProfile)
	router.Get("/users", h.listUsers)
	router.Post("/forgot-password", h.forgotPassword)
	router.Post("/reset-password/:uid/:token", h.resetPassword)
	router.Get("/verify-reset-token/:uid/:token", h.verifyResetToken)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusCreated, response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, response)
}

func (h *AuthHandler) profile(c *fiber.Ctx) error {
	caller := middleware.CurrentIdentity(c)
	if !caller.Authenticated {
		return utils.SendDetail(c, fiber.StatusUnauthorized, "authentication credentials were not provided")
	}

	response, err := h.service.Profile(c.Context(), caller.UserID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, response)
}

func (h *AuthHandler) updateProfile(c *fiber.Ctx) error {
	caller := middleware.CurrentIdentity(c)
	if !caller.Authenticated {
		return utils.SendDetail(c, fiber.StatusUnauthorized, "authentication credentials were not provided")
	}

	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.UpdateProfile(c.Context(), caller.UserID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, response)
}

func (h *AuthHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, users)
}

func (h *AuthHandler) forgotPassword(c *fiber.Ctx) error {
	var payload dto.ForgotPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.ForgotPassword(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, response)
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx) error {
	var payload dto.ResetPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResetPassword(c.Context(), c.Params("uid"), c.Params("token"), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendDetail(c, fiber.StatusOK, "password has been reset successfully")
}

func (h *AuthHandler) verifyResetToken(c *fiber.Ctx) error {
	response, err := h.service.VerifyResetToken(c.Context(), c.Params("uid"), c.Params("token"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, response)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendDetail(c, fiber.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendDetail(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrUsernameTaken):
		return utils.SendDetail(c, fiber.StatusBadRequest, "a user with that username already exists")
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendDetail(c, fiber.StatusBadRequest, "a user with that email already exists")
	case errors.Is(err, service.ErrInvalidResetLink):
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid reset link")
	case errors.Is(err, service.ErrExpiredResetLink):
		return utils.SendDetail(c, fiber.StatusBadRequest, "reset link has expired")
	default:
		return sendCommonError(c, h.logger, err)
	}
}
