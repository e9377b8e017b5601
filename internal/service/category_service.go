package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/authz"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// ErrCategoryNotFound indicates the referenced category does not exist or
// is inactive.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryService exposes category use cases.
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Create(ctx context.Context, caller authz.Identity, payload dto.CategoryCreateRequest) (dto.CategoryResponse, error)
}

type categoryService struct {
	categories repository.CategoryRepository
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewCategoryService builds a new category service.
func NewCategoryService(categories repository.CategoryRepository, validate *validator.Validate, logger zerolog.Logger) CategoryService {
	return &categoryService{
		categories: categories,
		validator:  validate,
		logger:     logger.With().Str("component", "category_service").Logger(),
	}
}

// List returns active categories only. No authentication required.
func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCategoryResponseSlice(categories), nil
}

func (s *categoryService) Create(ctx context.Context, caller authz.Identity, payload dto.CategoryCreateRequest) (dto.CategoryResponse, error) {
	if err := authz.Decide(caller, authz.CreateCategory{}); err != nil {
		return dto.CategoryResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CategoryResponse{}, err
	}

	category := models.Category{Title: payload.Title, IsActive: true}
	if err := s.categories.Create(ctx, &category); err != nil {
		return dto.CategoryResponse{}, err
	}

	s.logger.Info().Uint("category_id", category.ID).Msg("category created")

	return dto.NewCategoryResponse(category), nil
}
