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

// EnrollmentHandler wires the enrollment endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches enrollment endpoints to the router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.enroll)
	router.Put("/:id/progress", h.recordProgress)
}

func (h *EnrollmentHandler) list(c *fiber.Ctx) error {
	enrollments, err := h.service.List(c.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, enrollments)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	enrollment, err := h.service.Enroll(c.Context(), middleware.CurrentIdentity(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) recordProgress(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ProgressUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	enrollment, err := h.service.RecordProgress(c.Context(), middleware.CurrentIdentity(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, enrollment)
}

func (h *EnrollmentHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEnrollmentNotFound):
		return utils.SendDetail(c, fiber.StatusNotFound, "enrollment not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendDetail(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return utils.SendDetail(c, fiber.StatusBadRequest, "you are already enrolled in this course")
	case errors.Is(err, service.ErrInvalidProgress):
		return utils.SendDetail(c, fiber.StatusBadRequest, "progress must be between 0 and 100")
	case errors.Is(err, service.ErrCertificateNotCompleted):
		return utils.SendDetail(c, fiber.StatusBadRequest, "certificate cannot be issued before the course is completed")
	default:
		return sendCommonError(c, h.logger, err)
	}
}
