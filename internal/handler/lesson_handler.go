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

// LessonHandler wires the lesson endpoints nested under a course.
type LessonHandler struct {
	service service.LessonService
	logger  zerolog.Logger
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(service service.LessonService, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		service: service,
		logger:  logger.With().Str("component", "lesson_handler").Logger(),
	}
}

// Register attaches lesson endpoints to the course-scoped router group.
func (h *LessonHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *LessonHandler) list(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "course_id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	lessons, err := h.service.ListByCourse(c.Context(), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, lessons)
}

func (h *LessonHandler) get(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "course_id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	lesson, err := h.service.Get(c.Context(), courseID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, lesson)
}

func (h *LessonHandler) create(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "course_id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LessonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	video, err := c.FormFile("video")
	if err != nil {
		video = nil
	}

	lesson, err := h.service.Create(c.Context(), middleware.CurrentIdentity(c), courseID, payload, video)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusCreated, lesson)
}

func (h *LessonHandler) update(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "course_id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.LessonUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	video, err := c.FormFile("video")
	if err != nil {
		video = nil
	}

	lesson, err := h.service.Update(c.Context(), middleware.CurrentIdentity(c), courseID, id, payload, video)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, lesson)
}

func (h *LessonHandler) delete(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "course_id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), middleware.CurrentIdentity(c), courseID, id); err != nil {
		return h.handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LessonHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendDetail(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrLessonNotFound):
		return utils.SendDetail(c, fiber.StatusNotFound, "lesson not found")
	default:
		return sendCommonError(c, h.logger, err)
	}
}
