package service

import (
	"context"
	"fmt"
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

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	return "https://cdn.example.com/" + name, nil
}

type courseFixture struct {
	svc      CourseService
	db       *gorm.DB
	admin    models.User
	teacher  models.User
	other    models.User
	student  models.User
	category models.Category
}

func newCourseFixture(t *testing.T, name string) courseFixture {
	t.Helper()

	db := openTestDB(t, name)

	admin := models.User{Username: "admin", Email: "admin@example.com", Password: "x", Role: models.RoleAdmin}
	teacher := models.User{Username: "teacher", Email: "teacher@example.com", Password: "x", Role: models.RoleTeacher}
	other := models.User{Username: "other", Email: "other@example.com", Password: "x", Role: models.RoleTeacher}
	student := models.User{Username: "alice", Email: "alice@example.com", Password: "x", Role: models.RoleStudent}
	for _, user := range []*models.User{&admin, &teacher, &other, &student} {
		require.NoError(t, db.Create(user).Error)
	}

	category := models.Category{Title: "Programming", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	svc := NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewUserRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		stubUploader{},
		zerolog.New(io.Discard),
	)

	return courseFixture{svc: svc, db: db, admin: admin, teacher: teacher, other: other, student: student, category: category}
}

func (f courseFixture) adminIdentity() authz.Identity {
	return authz.Identity{UserID: f.admin.ID, Role: models.RoleAdmin, Authenticated: true}
}

func (f courseFixture) createCourse(t *testing.T, title string, instructorID uint) dto.CourseResponse {
	t.Helper()

	course, err := f.svc.Create(context.Background(), f.adminIdentity(), dto.CourseCreateRequest{
		Title:        title,
		Description:  "about " + title,
		Price:        10,
		Duration:     5,
		CategoryID:   f.category.ID,
		InstructorID: instructorID,
	}, nil)
	require.NoError(t, err)

	return course
}

func TestCourseCreateValidatesReferences(t *testing.T) {
	f := newCourseFixture(t, "course_create")

	course := f.createCourse(t, "Go Basics", f.teacher.ID)
	require.Equal(t, "Go Basics", course.Title)
	require.Equal(t, "Programming", course.CategoryTitle)
	require.Equal(t, "teacher", course.InstructorName)
	require.True(t, course.IsActive)

	_, err := f.svc.Create(context.Background(), f.adminIdentity(), dto.CourseCreateRequest{
		Title: "Bad", Description: "x", CategoryID: 9999, InstructorID: f.teacher.ID,
	}, nil)
	require.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = f.svc.Create(context.Background(), f.adminIdentity(), dto.CourseCreateRequest{
		Title: "Bad", Description: "x", CategoryID: f.category.ID, InstructorID: 9999,
	}, nil)
	require.ErrorIs(t, err, ErrInstructorNotFound)

	// Students cannot be assigned as instructors.
	_, err = f.svc.Create(context.Background(), f.adminIdentity(), dto.CourseCreateRequest{
		Title: "Bad", Description: "x", CategoryID: f.category.ID, InstructorID: f.student.ID,
	}, nil)
	require.ErrorIs(t, err, ErrInstructorNotTeacher)
}

func TestCourseMutationIsAdminOnly(t *testing.T) {
	f := newCourseFixture(t, "course_admin_only")

	instructor := authz.Identity{UserID: f.teacher.ID, Role: models.RoleTeacher, Authenticated: true}
	_, err := f.svc.Create(context.Background(), instructor, dto.CourseCreateRequest{
		Title: "Nope", Description: "x", CategoryID: f.category.ID, InstructorID: f.teacher.ID,
	}, nil)
	require.ErrorIs(t, err, authz.ErrForbidden)

	course := f.createCourse(t, "Go Basics", f.teacher.ID)
	title := "Renamed"
	_, err = f.svc.Update(context.Background(), instructor, course.ID, dto.CourseUpdateRequest{Title: &title}, nil)
	require.ErrorIs(t, err, authz.ErrForbidden)

	require.ErrorIs(t, f.svc.Delete(context.Background(), instructor, course.ID), authz.ErrForbidden)
}

func TestCourseGetChecksExistenceBeforeAuthentication(t *testing.T) {
	f := newCourseFixture(t, "course_get_order")

	course := f.createCourse(t, "Go Basics", f.teacher.ID)

	// Unknown id yields NotFound even without credentials.
	_, err := f.svc.Get(context.Background(), authz.Anonymous(), 9999)
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = f.svc.Get(context.Background(), authz.Anonymous(), course.ID)
	require.ErrorIs(t, err, authz.ErrUnauthorized)

	got, err := f.svc.Get(context.Background(), authz.Identity{UserID: f.student.ID, Role: models.RoleStudent, Authenticated: true}, course.ID)
	require.NoError(t, err)
	require.Equal(t, course.ID, got.ID)
}

func TestCourseListFiltersAndPaginates(t *testing.T) {
	f := newCourseFixture(t, "course_list")

	for i := 0; i < 12; i++ {
		f.createCourse(t, fmt.Sprintf("Course %02d", i), f.teacher.ID)
	}
	f.createCourse(t, "Owned by other", f.other.ID)

	anonymous := authz.Anonymous()
	page1, err := f.svc.List(context.Background(), anonymous, dto.CourseFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(13), page1.Count)
	require.Len(t, page1.Results, 10)

	page2, err := f.svc.List(context.Background(), anonymous, dto.CourseFilter{Page: 2})
	require.NoError(t, err)
	require.Equal(t, int64(13), page2.Count)
	require.Len(t, page2.Results, 3)

	// Teachers see only the courses they instruct.
	owned, err := f.svc.List(context.Background(), authz.Identity{UserID: f.other.ID, Role: models.RoleTeacher, Authenticated: true}, dto.CourseFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(1), owned.Count)
	require.Equal(t, "Owned by other", owned.Results[0].Title)

	found, err := f.svc.List(context.Background(), anonymous, dto.CourseFilter{Search: "owned"})
	require.NoError(t, err)
	require.Equal(t, int64(1), found.Count)
}

func TestCourseUpdateAndDelete(t *testing.T) {
	f := newCourseFixture(t, "course_update")

	course := f.createCourse(t, "Go Basics", f.teacher.ID)

	title := "Go Fundamentals"
	inactive := false
	updated, err := f.svc.Update(context.Background(), f.adminIdentity(), course.ID, dto.CourseUpdateRequest{Title: &title, IsActive: &inactive}, nil)
	require.NoError(t, err)
	require.Equal(t, "Go Fundamentals", updated.Title)
	require.False(t, updated.IsActive)

	require.NoError(t, f.svc.Delete(context.Background(), f.adminIdentity(), course.ID))
	require.ErrorIs(t, f.svc.Delete(context.Background(), f.adminIdentity(), course.ID), ErrCourseNotFound)
}
