package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// CategoryHandler wires the category endpoints.
type CategoryHandler struct {
	service service.CategoryService
	logger  zerolog.Logger
}

// NewCategoryHandler constructs the handler.
func NewCategoryHandler(service service.CategoryService, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger.With().Str("component", "category_handler").Logger(),
	}
}

// Register attaches category endpoints to the router group.
func (h *CategoryHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
}

func (h *CategoryHandler) list(c *fiber.Ctx) error {
	categories, err := h.service.List(c.Context())
	if err != nil {
		return sendCommonError(c, h.logger, err)
	}

	return utils.SendData(c, fiber.StatusOK, categories)
}

func (h *CategoryHandler) create(c *fiber.Ctx) error {
	var payload dto.CategoryCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendDetail(c, fiber.StatusBadRequest, "invalid request body")
	}

	category, err := h.service.Create(c.Context(), middleware.CurrentIdentity(c), payload)
	if err != nil {
		return sendCommonError(c, h.logger, err)
	}

	return utils.SendData(c, fiber.StatusCreated, category)
}
