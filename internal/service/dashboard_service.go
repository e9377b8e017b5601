package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/authz"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/observability"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// DashboardService produces the role-keyed summary and the per-course
// roster report.
type DashboardService interface {
	Summary(ctx context.Context, caller authz.Identity) (interface{}, error)
	Roster(ctx context.Context, caller authz.Identity, courseID uint) (dto.RosterResponse, error)
}

type dashboardService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. The cache client may
// be nil, in which case every request recomputes.
func NewDashboardService(
	users repository.UserRepository,
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

// Summary dispatches on the caller's role. The three shapes are disjoint.
func (s *dashboardService) Summary(ctx context.Context, caller authz.Identity) (interface{}, error) {
	if err := authz.Decide(caller, authz.ViewDashboard{}); err != nil {
		return nil, err
	}

	switch caller.Role {
	case models.RoleAdmin:
		var response dto.AdminDashboardResponse
		err := s.cached(ctx, caller, &response, func() (interface{}, error) {
			return s.adminSummary(ctx)
		})
		return response, err
	case models.RoleTeacher:
		var response dto.TeacherDashboardResponse
		err := s.cached(ctx, caller, &response, func() (interface{}, error) {
			return s.teacherSummary(ctx, caller.UserID)
		})
		return response, err
	case models.RoleStudent:
		var response dto.StudentDashboardResponse
		err := s.cached(ctx, caller, &response, func() (interface{}, error) {
			return s.studentSummary(ctx, caller.UserID)
		})
		return response, err
	default:
		return nil, authz.ErrForbidden
	}
}

// Roster reports every active enrollment of one course. The course lookup
// happens before the policy check so an unknown id is NotFound for
// everyone.
func (s *dashboardService) Roster(ctx context.Context, caller authz.Identity, courseID uint) (dto.RosterResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RosterResponse{}, ErrCourseNotFound
		}
		return dto.RosterResponse{}, err
	}

	if err := authz.Decide(caller, authz.ViewRoster{InstructorID: course.InstructorID}); err != nil {
		return dto.RosterResponse{}, err
	}

	enrollments, err := s.enrollments.ListActiveByCourse(ctx, course.ID)
	if err != nil {
		return dto.RosterResponse{}, err
	}

	students := make([]dto.RosterEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		students = append(students, dto.NewRosterEntry(enrollment))
	}

	return dto.RosterResponse{
		CourseID:       course.ID,
		CourseTitle:    course.Title,
		InstructorName: course.Instructor.Username,
		TotalStudents:  len(students),
		Students:       students,
	}, nil
}

// cached wraps a summary builder with a per-caller redis cache.
func (s *dashboardService) cached(ctx context.Context, caller authz.Identity, target interface{}, build func() (interface{}, error)) error {
	key := fmt.Sprintf("dashboard:summary:%s:%d", caller.Role, caller.UserID)

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key).Result(); err == nil {
			if unmarshalErr := json.Unmarshal([]byte(raw), target); unmarshalErr == nil {
				s.logger.Debug().Str("key", key).Msg("dashboard cache hit")
				return nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	response, err := build()
	if err != nil {
		return err
	}
	observability.DashboardRefreshes().WithLabelValues(string(caller.Role)).Inc()

	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
		}
	}

	return nil
}

func (s *dashboardService) adminSummary(ctx context.Context) (dto.AdminDashboardResponse, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalStudents, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalTeachers, err := s.users.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalAdmins, err := s.users.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalCourses, err := s.courses.CountActive(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	totalEnrollments, err := s.enrollments.CountActive(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	courses, err := s.courses.ListActive(ctx)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	courseSummaries := make([]dto.AdminCourseSummary, 0, len(courses))
	for _, course := range courses {
		enrolled, err := s.enrollments.CountActiveByCourse(ctx, course.ID)
		if err != nil {
			return dto.AdminDashboardResponse{}, err
		}

		courseSummaries = append(courseSummaries, dto.AdminCourseSummary{
			ID:               course.ID,
			Title:            course.Title,
			InstructorID:     course.InstructorID,
			InstructorName:   course.Instructor.Username,
			EnrolledStudents: enrolled,
			Price:            course.Price,
			Duration:         course.Duration,
			Category:         course.Category.Title,
		})
	}

	instructors, err := s.users.ListByRole(ctx, models.RoleTeacher)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	instructorSummaries := make([]dto.AdminInstructorSummary, 0, len(instructors))
	for _, instructor := range instructors {
		courseCount, err := s.courses.CountActiveByInstructor(ctx, instructor.ID)
		if err != nil {
			return dto.AdminDashboardResponse{}, err
		}

		instructorSummaries = append(instructorSummaries, dto.AdminInstructorSummary{
			ID:           instructor.ID,
			Username:     instructor.Username,
			Email:        instructor.Email,
			TotalCourses: courseCount,
		})
	}

	return dto.AdminDashboardResponse{
		Role:             string(models.RoleAdmin),
		TotalUsers:       totalUsers,
		TotalStudents:    totalStudents,
		TotalTeachers:    totalTeachers,
		TotalAdmins:      totalAdmins,
		TotalCourses:     totalCourses,
		TotalEnrollments: totalEnrollments,
		Courses:          courseSummaries,
		Instructors:      instructorSummaries,
	}, nil
}

func (s *dashboardService) teacherSummary(ctx context.Context, teacherID uint) (dto.TeacherDashboardResponse, error) {
	courses, err := s.courses.ListActiveByInstructor(ctx, teacherID)
	if err != nil {
		return dto.TeacherDashboardResponse{}, err
	}

	var totalStudents int64
	courseSummaries := make([]dto.TeacherCourseSummary, 0, len(courses))
	for _, course := range courses {
		enrolled, err := s.enrollments.CountActiveByCourse(ctx, course.ID)
		if err != nil {
			return dto.TeacherDashboardResponse{}, err
		}
		totalStudents += enrolled

		courseSummaries = append(courseSummaries, dto.TeacherCourseSummary{
			ID:               course.ID,
			Title:            course.Title,
			EnrolledStudents: enrolled,
			Price:            course.Price,
			Duration:         course.Duration,
			Category:         course.Category.Title,
		})
	}

	return dto.TeacherDashboardResponse{
		Role:                  string(models.RoleTeacher),
		TotalCourses:          int64(len(courses)),
		TotalStudentsEnrolled: totalStudents,
		Courses:               courseSummaries,
	}, nil
}

func (s *dashboardService) studentSummary(ctx context.Context, studentID uint) (dto.StudentDashboardResponse, error) {
	enrollments, err := s.enrollments.ListActiveByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentDashboardResponse{}, err
	}

	completed := 0
	progressTotal := 0
	summaries := make([]dto.StudentEnrollmentSummary, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if enrollment.IsCompleted {
			completed++
		}
		progressTotal += enrollment.Progress

		summaries = append(summaries, dto.StudentEnrollmentSummary{
			ID:             enrollment.ID,
			CourseID:       enrollment.CourseID,
			CourseTitle:    enrollment.Course.Title,
			InstructorName: enrollment.Course.Instructor.Username,
			Progress:       enrollment.Progress,
			IsCompleted:    enrollment.IsCompleted,
			Price:          enrollment.Price,
		})
	}

	// Zero enrollments means zero average, not a division by zero.
	average := 0.0
	if len(enrollments) > 0 {
		average = math.Round(float64(progressTotal)/float64(len(enrollments))*100) / 100
	}

	return dto.StudentDashboardResponse{
		Role:             string(models.RoleStudent),
		TotalEnrolled:    len(enrollments),
		CompletedCourses: completed,
		InProgress:       len(enrollments) - completed,
		AverageProgress:  average,
		Enrollments:      summaries,
	}, nil
}
