package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// CourseHandler wires the course catalog endpoints and the per-course
// roster report.
type CourseHandler struct {
	courses   service.CourseService
	dashboard service.DashboardService
	logger    zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses service.CourseService, dashboard service.DashboardService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		dashboard: dashboard,
		logger:    logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches course endpoints to the router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:course_id/students", h.roster)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	filter := dto.CourseFilter{Search: strings.TrimSpace(c.Query("search"))}

	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.SendDetail(c, fiber.StatusBadRequest, "invalid category filter")
		}
		filter.CategoryID = uint(categoryID)
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid page number")
	}
	filter.Page = page

	response, err := h.courses.List(c.Context(), middleware.CurrentIdentity(c), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, response)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := h.courses.Get(c.Context(), middleware.CurrentIdentity(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	banner, err := c.FormFile("banner")
	if err != nil {
		banner = nil
	}

	course, err := h.courses.Create(c.Context(), middleware.CurrentIdentity(c), payload, banner)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusCreated, course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	banner, err := c.FormFile("banner")
	if err != nil {
		banner = nil
	}

	course, err := h.courses.Update(c.Context(), middleware.CurrentIdentity(c), id, payload, banner)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, course)
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.courses.Delete(c.Context(), middleware.CurrentIdentity(c), id); err != nil {
		return h.handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CourseHandler) roster(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "course_id")
	if err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, err.Error())
	}

	roster, err := h.dashboard.Roster(c.Context(), middleware.CurrentIdentity(c), courseID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendData(c, fiber.StatusOK, roster)
}

func (h *CourseHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendDetail(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		return utils.SendDetail(c, fiber.StatusBadRequest, "category not found")
	case errors.Is(err, service.ErrInstructorNotFound):
		return utils.SendDetail(c, fiber.StatusBadRequest, "instructor not found")
	case errors.Is(err, service.ErrInstructorNotTeacher):
		return utils.SendDetail(c, fiber.StatusBadRequest, "instructor must have the teacher role")
	default:
		return sendCommonError(c, h.logger, err)
	}
}
