package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/authz"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/observability"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// Enrollment domain errors.
var (
	ErrEnrollmentNotFound      = errors.New("enrollment not found")
	ErrAlreadyEnrolled         = errors.New("you are already enrolled in this course")
	ErrCertificateNotCompleted = errors.New("certificate cannot be issued before the course is completed")
	ErrInvalidProgress         = errors.New("progress must be between 0 and 100")
)

// EnrollmentService exposes the student-course relationship use cases:
// enrolling, listing the caller's own enrollments, and the grading
// collaborator's progress updates.
type EnrollmentService interface {
	List(ctx context.Context, caller authz.Identity) ([]dto.EnrollmentResponse, error)
	Enroll(ctx context.Context, caller authz.Identity, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	RecordProgress(ctx context.Context, caller authz.Identity, enrollmentID uint, payload dto.ProgressUpdateRequest) (dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEnrollmentService builds a new enrollment service.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		courses:     courses,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

// List returns the caller's own enrollment rows. Students only.
func (s *enrollmentService) List(ctx context.Context, caller authz.Identity) ([]dto.EnrollmentResponse, error) {
	if err := authz.Decide(caller, authz.AccessEnrollments{}); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollments.ListByStudent(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

// Enroll creates the (student, course) row. The application-level existence
// check gives a friendly error; the unique index is the real guard, so a
// concurrent duplicate surfaces as gorm.ErrDuplicatedKey and is mapped the
// same way.
func (s *enrollmentService) Enroll(ctx context.Context, caller authz.Identity, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := authz.Decide(caller, authz.AccessEnrollments{}); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	exists, err := s.enrollments.Exists(ctx, caller.UserID, course.ID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if exists {
		return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
	}

	enrollment := models.Enrollment{
		StudentID: caller.UserID,
		CourseID:  course.ID,
		IsActive:  true,
		Price:     course.Price,
	}

	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		}
		return dto.EnrollmentResponse{}, err
	}

	observability.EnrollmentsCreated().Inc()
	s.logger.Info().Uint("enrollment_id", enrollment.ID).Uint("student_id", caller.UserID).Uint("course_id", course.ID).Msg("student enrolled")

	created, err := s.enrollments.GetByID(ctx, enrollment.ID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}

	return dto.NewEnrollmentResponse(created), nil
}

// RecordProgress is the grading collaborator's entry point. The enrollment
// is resolved first (NotFound), then the policy is consulted against the
// course's instructor.
func (s *enrollmentService) RecordProgress(ctx context.Context, caller authz.Identity, enrollmentID uint, payload dto.ProgressUpdateRequest) (dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if err := authz.Decide(caller, authz.RecordProgress{InstructorID: enrollment.Course.InstructorID}); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if err := enrollment.ApplyProgress(payload.Progress); err != nil {
		return dto.EnrollmentResponse{}, ErrInvalidProgress
	}

	if payload.TotalMark != nil {
		enrollment.TotalMark = *payload.TotalMark
	}

	if payload.CertificateReady {
		if err := enrollment.MarkCertificateReady(); err != nil {
			return dto.EnrollmentResponse{}, ErrCertificateNotCompleted
		}
	}

	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("enrollment_id", enrollment.ID).Int("progress", enrollment.Progress).Bool("completed", enrollment.IsCompleted).Msg("progress recorded")

	return dto.NewEnrollmentResponse(enrollment), nil
}
