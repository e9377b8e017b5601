package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/authz"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// ErrMaterialNotFound indicates the requested material does not exist under
// the given course.
var ErrMaterialNotFound = errors.New("material not found")

// MaterialService exposes course material use cases. Ordering mirrors
// LessonService: course NotFound, then ownership, then the material.
type MaterialService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.MaterialResponse, error)
	Get(ctx context.Context, courseID, id uint) (dto.MaterialResponse, error)
	Create(ctx context.Context, caller authz.Identity, courseID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.MaterialResponse, error)
	Update(ctx context.Context, caller authz.Identity, courseID, id uint, payload dto.MaterialUpdateRequest, file *multipart.FileHeader) (dto.MaterialResponse, error)
	Delete(ctx context.Context, caller authz.Identity, courseID, id uint) error
}

type materialService struct {
	materials repository.MaterialRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	uploader  FileUploader
	logger    zerolog.Logger
}

// NewMaterialService builds a new material service.
func NewMaterialService(materials repository.MaterialRepository, courses repository.CourseRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) MaterialService {
	return &materialService{
		materials: materials,
		courses:   courses,
		validator: validate,
		uploader:  uploader,
		logger:    logger.With().Str("component", "material_service").Logger(),
	}
}

func (s *materialService) ListByCourse(ctx context.Context, courseID uint) ([]dto.MaterialResponse, error) {
	if _, err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	materials, err := s.materials.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewMaterialResponseSlice(materials), nil
}

func (s *materialService) Get(ctx context.Context, courseID, id uint) (dto.MaterialResponse, error) {
	if _, err := s.requireCourse(ctx, courseID); err != nil {
		return dto.MaterialResponse{}, err
	}

	material, err := s.materials.GetByID(ctx, courseID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, ErrMaterialNotFound
		}
		return dto.MaterialResponse{}, err
	}

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Create(ctx context.Context, caller authz.Identity, courseID uint, payload dto.MaterialCreateRequest, file *multipart.FileHeader) (dto.MaterialResponse, error) {
	course, err := s.requireCourse(ctx, courseID)
	if err != nil {
		return dto.MaterialResponse{}, err
	}

	if err := authz.Decide(caller, authz.MutateMaterial{InstructorID: course.InstructorID}); err != nil {
		return dto.MaterialResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	material := models.Material{
		Title:       payload.Title,
		Description: payload.Description,
		CourseID:    courseID,
	}

	if file != nil {
		url, err := uploadFormFile(ctx, s.uploader, file)
		if err != nil {
			return dto.MaterialResponse{}, err
		}
		material.FileURL = url
	}

	if err := s.materials.Create(ctx, &material); err != nil {
		return dto.MaterialResponse{}, err
	}

	s.logger.Info().Uint("material_id", material.ID).Uint("course_id", courseID).Msg("material created")

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Update(ctx context.Context, caller authz.Identity, courseID, id uint, payload dto.MaterialUpdateRequest, file *multipart.FileHeader) (dto.MaterialResponse, error) {
	course, err := s.requireCourse(ctx, courseID)
	if err != nil {
		return dto.MaterialResponse{}, err
	}

	if err := authz.Decide(caller, authz.MutateMaterial{InstructorID: course.InstructorID}); err != nil {
		return dto.MaterialResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	material, err := s.materials.GetByID(ctx, courseID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, ErrMaterialNotFound
		}
		return dto.MaterialResponse{}, err
	}

	if payload.Title != nil {
		material.Title = *payload.Title
	}
	if payload.Description != nil {
		material.Description = *payload.Description
	}

	if file != nil {
		url, err := uploadFormFile(ctx, s.uploader, file)
		if err != nil {
			return dto.MaterialResponse{}, err
		}
		material.FileURL = url
	}

	if err := s.materials.Update(ctx, &material); err != nil {
		return dto.MaterialResponse{}, err
	}

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Delete(ctx context.Context, caller authz.Identity, courseID, id uint) error {
	course, err := s.requireCourse(ctx, courseID)
	if err != nil {
		return err
	}

	if err := authz.Decide(caller, authz.MutateMaterial{InstructorID: course.InstructorID}); err != nil {
		return err
	}

	if _, err := s.materials.GetByID(ctx, courseID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	if err := s.materials.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	s.logger.Info().Uint("material_id", id).Uint("course_id", courseID).Msg("material deleted")

	return nil
}

func (s *materialService) requireCourse(ctx context.Context, courseID uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	return course, nil
}
