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

// ErrLessonNotFound indicates the requested lesson does not exist under the
// given course.
var ErrLessonNotFound = errors.New("lesson not found")

// LessonService exposes lesson use cases. Mutations check the course first
// (NotFound), then ownership (Forbidden), then the lesson itself, so a
// teacher who does not instruct the course is refused regardless of whether
// the lesson exists.
type LessonService interface {
	ListByCourse(ctx context.Context, courseID uint) ([]dto.LessonResponse, error)
	Get(ctx context.Context, courseID, id uint) (dto.LessonResponse, error)
	Create(ctx context.Context, caller authz.Identity, courseID uint, payload dto.LessonCreateRequest, video *multipart.FileHeader) (dto.LessonResponse, error)
	Update(ctx context.Context, caller authz.Identity, courseID, id uint, payload dto.LessonUpdateRequest, video *multipart.FileHeader) (dto.LessonResponse, error)
	Delete(ctx context.Context, caller authz.Identity, courseID, id uint) error
}

type lessonService struct {
	lessons   repository.LessonRepository
	courses   repository.CourseRepository
	validator *validator.Validate
	uploader  FileUploader
	logger    zerolog.Logger
}

// NewLessonService builds a new lesson service.
func NewLessonService(lessons repository.LessonRepository, courses repository.CourseRepository, validate *validator.Validate, uploader FileUploader, logger zerolog.Logger) LessonService {
	return &lessonService{
		lessons:   lessons,
		courses:   courses,
		validator: validate,
		uploader:  uploader,
		logger:    logger.With().Str("component", "lesson_service").Logger(),
	}
}

func (s *lessonService) ListByCourse(ctx context.Context, courseID uint) ([]dto.LessonResponse, error) {
	if _, err := s.requireCourse(ctx, courseID); err != nil {
		return nil, err
	}

	lessons, err := s.lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewLessonResponseSlice(lessons), nil
}

func (s *lessonService) Get(ctx context.Context, courseID, id uint) (dto.LessonResponse, error) {
	if _, err := s.requireCourse(ctx, courseID); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson, err := s.lessons.GetInCourse(ctx, courseID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonResponse{}, ErrLessonNotFound
		}
		return dto.LessonResponse{}, err
	}

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Create(ctx context.Context, caller authz.Identity, courseID uint, payload dto.LessonCreateRequest, video *multipart.FileHeader) (dto.LessonResponse, error) {
	course, err := s.requireCourse(ctx, courseID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	if err := authz.Decide(caller, authz.MutateLesson{InstructorID: course.InstructorID}); err != nil {
		return dto.LessonResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson := models.Lesson{
		Title:       payload.Title,
		Description: payload.Description,
		CourseID:    courseID,
	}

	if video != nil {
		url, err := uploadFormFile(ctx, s.uploader, video)
		if err != nil {
			return dto.LessonResponse{}, err
		}
		lesson.VideoURL = url
	}

	if err := s.lessons.Create(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	s.logger.Info().Uint("lesson_id", lesson.ID).Uint("course_id", courseID).Msg("lesson created")

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Update(ctx context.Context, caller authz.Identity, courseID, id uint, payload dto.LessonUpdateRequest, video *multipart.FileHeader) (dto.LessonResponse, error) {
	course, err := s.requireCourse(ctx, courseID)
	if err != nil {
		return dto.LessonResponse{}, err
	}

	if err := authz.Decide(caller, authz.MutateLesson{InstructorID: course.InstructorID}); err != nil {
		return dto.LessonResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonResponse{}, err
	}

	lesson, err := s.lessons.GetInCourse(ctx, courseID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonResponse{}, ErrLessonNotFound
		}
		return dto.LessonResponse{}, err
	}

	if payload.Title != nil {
		lesson.Title = *payload.Title
	}
	if payload.Description != nil {
		lesson.Description = *payload.Description
	}

	if video != nil {
		url, err := uploadFormFile(ctx, s.uploader, video)
		if err != nil {
			return dto.LessonResponse{}, err
		}
		lesson.VideoURL = url
	}

	if err := s.lessons.Update(ctx, &lesson); err != nil {
		return dto.LessonResponse{}, err
	}

	return dto.NewLessonResponse(lesson), nil
}

func (s *lessonService) Delete(ctx context.Context, caller authz.Identity, courseID, id uint) error {
	course, err := s.requireCourse(ctx, courseID)
	if err != nil {
		return err
	}

	if err := authz.Decide(caller, authz.MutateLesson{InstructorID: course.InstructorID}); err != nil {
		return err
	}

	if _, err := s.lessons.GetInCourse(ctx, courseID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	if err := s.lessons.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	s.logger.Info().Uint("lesson_id", id).Uint("course_id", courseID).Msg("lesson deleted")

	return nil
}

func (s *lessonService) requireCourse(ctx context.Context, courseID uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	return course, nil
}
