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

// Course listing uses a fixed page size.
const coursePageSize = 10

// Course domain errors.
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrInstructorNotFound   = errors.New("instructor not found")
	ErrInstructorNotTeacher = errors.New("instructor must have the teacher role")
)

// CourseService exposes course use cases.
type CourseService interface {
	List(ctx context.Context, caller authz.Identity, filter dto.CourseFilter) (dto.CourseListResponse, error)
	Get(ctx context.Context, caller authz.Identity, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, caller authz.Identity, payload dto.CourseCreateRequest, banner *multipart.FileHeader) (dto.CourseResponse, error)
	Update(ctx context.Context, caller authz.Identity, id uint, payload dto.CourseUpdateRequest, banner *multipart.FileHeader) (dto.CourseResponse, error)
	Delete(ctx context.Context, caller authz.Identity, id uint) error
}

type courseService struct {
	courses    repository.CourseRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	validator  *validator.Validate
	uploader   FileUploader
	logger     zerolog.Logger
}

// NewCourseService builds a new course service.
func NewCourseService(
	courses repository.CourseRepository,
	categories repository.CategoryRepository,
	users repository.UserRepository,
	validate *validator.Validate,
	uploader FileUploader,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courses:    courses,
		categories: categories,
		users:      users,
		validator:  validate,
		uploader:   uploader,
		logger:     logger.With().Str("component", "course_service").Logger(),
	}
}

// List is public; authenticated teachers are restricted to the courses they
// instruct, everyone else sees all courses subject to the filters.
func (s *courseService) List(ctx context.Context, caller authz.Identity, filter dto.CourseFilter) (dto.CourseListResponse, error) {
	repoFilter := repository.CourseFilter{
		CategoryID: filter.CategoryID,
		Search:     filter.Search,
		Page:       filter.Page,
		PageSize:   coursePageSize,
	}

	if caller.Authenticated && caller.Role == models.RoleTeacher {
		repoFilter.InstructorID = caller.UserID
	}

	courses, total, err := s.courses.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return dto.CourseListResponse{}, err
	}

	return dto.CourseListResponse{
		Count:   total,
		Results: dto.NewCourseResponseSlice(courses),
	}, nil
}

// Get checks existence before authentication so a missing course yields
// NotFound even for an anonymous caller.
func (s *courseService) Get(ctx context.Context, caller authz.Identity, id uint) (dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if !caller.Authenticated {
		return dto.CourseResponse{}, authz.ErrUnauthorized
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, caller authz.Identity, payload dto.CourseCreateRequest, banner *multipart.FileHeader) (dto.CourseResponse, error) {
	if err := authz.Decide(caller, authz.ManageCourse{}); err != nil {
		return dto.CourseResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if _, err := s.categories.GetByID(ctx, payload.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCategoryNotFound
		}
		return dto.CourseResponse{}, err
	}

	if err := s.checkInstructor(ctx, payload.InstructorID); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:        payload.Title,
		Description:  payload.Description,
		Price:        payload.Price,
		Duration:     payload.Duration,
		IsActive:     true,
		CategoryID:   payload.CategoryID,
		InstructorID: payload.InstructorID,
	}

	if banner != nil {
		url, err := uploadFormFile(ctx, s.uploader, banner)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.BannerURL = url
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Uint("instructor_id", course.InstructorID).Msg("course created")

	created, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(created), nil
}

func (s *courseService) Update(ctx context.Context, caller authz.Identity, id uint, payload dto.CourseUpdateRequest, banner *multipart.FileHeader) (dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if err := authz.Decide(caller, authz.ManageCourse{}); err != nil {
		return dto.CourseResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}
	if payload.Price != nil {
		course.Price = *payload.Price
	}
	if payload.Duration != nil {
		course.Duration = *payload.Duration
	}
	if payload.IsActive != nil {
		course.IsActive = *payload.IsActive
	}
	if payload.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *payload.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CourseResponse{}, ErrCategoryNotFound
			}
			return dto.CourseResponse{}, err
		}
		course.CategoryID = *payload.CategoryID
	}
	if payload.InstructorID != nil {
		if err := s.checkInstructor(ctx, *payload.InstructorID); err != nil {
			return dto.CourseResponse{}, err
		}
		course.InstructorID = *payload.InstructorID
	}

	if banner != nil {
		url, err := uploadFormFile(ctx, s.uploader, banner)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.BannerURL = url
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	updated, err := s.courses.GetByID(ctx, course.ID)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(updated), nil
}

func (s *courseService) Delete(ctx context.Context, caller authz.Identity, id uint) error {
	if _, err := s.getCourse(ctx, id); err != nil {
		return err
	}

	if err := authz.Decide(caller, authz.ManageCourse{}); err != nil {
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.logger.Info().Uint("course_id", id).Msg("course deleted")

	return nil
}

func (s *courseService) getCourse(ctx context.Context, id uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	return course, nil
}

// checkInstructor enforces that the assigned instructor exists and actually
// holds the teacher role.
func (s *courseService) checkInstructor(ctx context.Context, instructorID uint) error {
	instructor, err := s.users.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInstructorNotFound
		}
		return err
	}

	if instructor.Role != models.RoleTeacher {
		return ErrInstructorNotTeacher
	}

	return nil
}
