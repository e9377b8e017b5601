package service

import (
	"context"
	"io"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/authz"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

type enrollmentFixture struct {
	svc     EnrollmentService
	db      *gorm.DB
	teacher models.User
	student models.User
	course  models.Course
}

func newEnrollmentFixture(t *testing.T, name string) enrollmentFixture {
	t.Helper()

	db := openTestDB(t, name)

	teacher := models.User{Username: "teacher", Email: "teacher@example.com", Password: "x", Role: models.RoleTeacher}
	student := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&teacher).Error)
	require.NoError(t, db.Create(&student).Error)

	category := models.Category{Title: "Programming", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	course := models.Course{Title: "Go Basics", Description: "intro", Price: 50, Duration: 10, IsActive: true, CategoryID: category.ID, InstructorID: teacher.ID}
	require.NoError(t, db.Create(&course).Error)

	svc := NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.New(io.Discard),
	)

	return enrollmentFixture{svc: svc, db: db, teacher: teacher, student: student, course: course}
}

func (f enrollmentFixture) studentIdentity() authz.Identity {
	return authz.Identity{UserID: f.student.ID, Role: models.RoleStudent, Authenticated: true}
}

func (f enrollmentFixture) teacherIdentity() authz.Identity {
	return authz.Identity{UserID: f.teacher.ID, Role: models.RoleTeacher, Authenticated: true}
}

func TestEnrollSnapshotsPriceAndListsOwnRows(t *testing.T) {
	f := newEnrollmentFixture(t, "enroll_create")

	enrollment, err := f.svc.Enroll(context.Background(), f.studentIdentity(), dto.EnrollmentCreateRequest{CourseID: f.course.ID})
	require.NoError(t, err)
	require.Equal(t, f.student.ID, enrollment.StudentID)
	require.Equal(t, f.course.ID, enrollment.CourseID)
	require.Equal(t, 50.0, enrollment.Price)
	require.True(t, enrollment.IsActive)
	require.Zero(t, enrollment.Progress)

	listed, err := f.svc.List(context.Background(), f.studentIdentity())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "Go Basics", listed[0].CourseTitle)
}

func TestEnrollRejectsDuplicates(t *testing.T) {
	f := newEnrollmentFixture(t, "enroll_duplicate")

	_, err := f.svc.Enroll(context.Background(), f.studentIdentity(), dto.EnrollmentCreateRequest{CourseID: f.course.ID})
	require.NoError(t, err)

	_, err = f.svc.Enroll(context.Background(), f.studentIdentity(), dto.EnrollmentCreateRequest{CourseID: f.course.ID})
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
}

// raceBlindEnrollments pretends the existence check ran before a
// concurrent insert landed, so Enroll reaches the database with a row
// already in place and only the unique (student, course) index stops it.
type raceBlindEnrollments struct {
	repository.EnrollmentRepository
}

func (raceBlindEnrollments) Exists(ctx context.Context, studentID, courseID uint) (bool, error) {
	return false, nil
}

func TestEnrollMapsDuplicateKeyFromStorage(t *testing.T) {
	f := newEnrollmentFixture(t, "enroll_duplicate_index")

	repo := repository.NewEnrollmentRepository(f.db)
	require.NoError(t, repo.Create(context.Background(), &models.Enrollment{
		StudentID: f.student.ID,
		CourseID:  f.course.ID,
		Price:     f.course.Price,
		IsActive:  true,
	}))

	// The index itself rejects a second insert for the same pair.
	err := repo.Create(context.Background(), &models.Enrollment{
		StudentID: f.student.ID,
		CourseID:  f.course.ID,
		Price:     f.course.Price,
		IsActive:  true,
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	svc := NewEnrollmentService(
		raceBlindEnrollments{EnrollmentRepository: repo},
		repository.NewCourseRepository(f.db),
		validator.New(validator.WithRequiredStructEnabled()),
		zerolog.New(io.Discard),
	)

	_, err = svc.Enroll(context.Background(), f.studentIdentity(), dto.EnrollmentCreateRequest{CourseID: f.course.ID})
	require.ErrorIs(t, err, ErrAlreadyEnrolled)

	var count int64
	require.NoError(t, f.db.Model(&models.Enrollment{}).Where("student_id = ? AND course_id = ?", f.student.ID, f.course.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestEnrollUnknownCourse(t *testing.T) {
	f := newEnrollmentFixture(t, "enroll_unknown")

	_, err := f.svc.Enroll(context.Background(), f.studentIdentity(), dto.EnrollmentCreateRequest{CourseID: 9999})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestEnrollRequiresStudentRole(t *testing.T) {
	f := newEnrollmentFixture(t, "enroll_role")

	_, err := f.svc.Enroll(context.Background(), f.teacherIdentity(), dto.EnrollmentCreateRequest{CourseID: f.course.ID})
	require.ErrorIs(t, err, authz.ErrForbidden)

	_, err = f.svc.Enroll(context.Background(), authz.Anonymous(), dto.EnrollmentCreateRequest{CourseID: f.course.ID})
	require.ErrorIs(t, err, authz.ErrUnauthorized)
}

func TestRecordProgressLifecycle(t *testing.T) {
	f := newEnrollmentFixture(t, "progress_lifecycle")

	created, err := f.svc.Enroll(context.Background(), f.studentIdentity(), dto.EnrollmentCreateRequest{CourseID: f.course.ID})
	require.NoError(t, err)

	mark := 87.5
	updated, err := f.svc.RecordProgress(context.Background(), f.teacherIdentity(), created.ID, dto.ProgressUpdateRequest{Progress: 60, TotalMark: &mark})
	require.NoError(t, err)
	require.Equal(t, 60, updated.Progress)
	require.Equal(t, 87.5, updated.TotalMark)
	require.False(t, updated.IsCompleted)

	// Certificate before completion is rejected and nothing is persisted.
	_, err = f.svc.RecordProgress(context.Background(), f.teacherIdentity(), created.ID, dto.ProgressUpdateRequest{Progress: 80, CertificateReady: true})
	require.ErrorIs(t, err, ErrCertificateNotCompleted)

	var stored models.Enrollment
	require.NoError(t, f.db.First(&stored, created.ID).Error)
	require.Equal(t, 60, stored.Progress)

	completed, err := f.svc.RecordProgress(context.Background(), f.teacherIdentity(), created.ID, dto.ProgressUpdateRequest{Progress: 100, CertificateReady: true})
	require.NoError(t, err)
	require.True(t, completed.IsCompleted)
	require.True(t, completed.IsCertificateReady)
}

func TestRecordProgressOrderingAndAccess(t *testing.T) {
	f := newEnrollmentFixture(t, "progress_access")

	created, err := f.svc.Enroll(context.Background(), f.studentIdentity(), dto.EnrollmentCreateRequest{CourseID: f.course.ID})
	require.NoError(t, err)

	// Unknown enrollment is NotFound before any policy decision.
	_, err = f.svc.RecordProgress(context.Background(), authz.Anonymous(), 9999, dto.ProgressUpdateRequest{Progress: 10})
	require.ErrorIs(t, err, ErrEnrollmentNotFound)

	// A teacher who does not instruct the course is rejected.
	other := models.User{Username: "other", Email: "other@example.com", Password: "x", Role: models.RoleTeacher}
	require.NoError(t, f.db.Create(&other).Error)
	_, err = f.svc.RecordProgress(context.Background(), authz.Identity{UserID: other.ID, Role: models.RoleTeacher, Authenticated: true}, created.ID, dto.ProgressUpdateRequest{Progress: 10})
	require.ErrorIs(t, err, authz.ErrForbidden)

	// Students cannot grade themselves.
	_, err = f.svc.RecordProgress(context.Background(), f.studentIdentity(), created.ID, dto.ProgressUpdateRequest{Progress: 10})
	require.ErrorIs(t, err, authz.ErrForbidden)
}
