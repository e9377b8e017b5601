package handler_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestDashboardSummaryPerRole(t *testing.T) {
	ta := newTestApp(t, "handler_dashboard")

	adminToken, _ := ta.register(t, "root", "admin")
	teacherToken, teacherID := ta.register(t, "teacher", "teacher")
	studentToken, _ := ta.register(t, "alice", "student")
	categoryID := ta.createCategory(t, "Programming")
	course := createCourseViaAPI(t, ta, adminToken, "Go Basics", categoryID, teacherID)

	resp := ta.doJSON(t, "POST", "/api/v1/enrollments", studentToken, fiber.Map{"course": course.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var enrollment enrollmentBody
	decodeBody(t, resp, &enrollment)

	resp = ta.doJSON(t, "PUT", fmt.Sprintf("/api/v1/enrollments/%d/progress", enrollment.ID), teacherToken, fiber.Map{"progress": 40})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Admin shape: system-wide totals plus per-course and per-instructor
	// rollups.
	resp = ta.doJSON(t, "GET", "/api/v1/dashboard/summary", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var adminSummary struct {
		Role             string `json:"role"`
		TotalUsers       int64  `json:"total_users"`
		TotalCourses     int64  `json:"total_courses"`
		TotalEnrollments int64  `json:"total_enrollments"`
		Courses          []struct {
			Title            string `json:"title"`
			EnrolledStudents int64  `json:"enrolled_students"`
		} `json:"courses"`
		Instructors []struct {
			Username     string `json:"username"`
			TotalCourses int64  `json:"total_courses"`
		} `json:"instructors"`
	}
	decodeBody(t, resp, &adminSummary)
	require.Equal(t, "admin", adminSummary.Role)
	require.Equal(t, int64(3), adminSummary.TotalUsers)
	require.Equal(t, int64(1), adminSummary.TotalCourses)
	require.Equal(t, int64(1), adminSummary.TotalEnrollments)
	require.Len(t, adminSummary.Courses, 1)
	require.Equal(t, int64(1), adminSummary.Courses[0].EnrolledStudents)
	require.Len(t, adminSummary.Instructors, 1)
	require.Equal(t, "teacher", adminSummary.Instructors[0].Username)

	// Teacher shape: restricted to the caller's own courses.
	resp = ta.doJSON(t, "GET", "/api/v1/dashboard/summary", teacherToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var teacherSummary struct {
		Role                  string `json:"role"`
		TotalCourses          int64  `json:"total_courses"`
		TotalStudentsEnrolled int64  `json:"total_students_enrolled"`
	}
	decodeBody(t, resp, &teacherSummary)
	require.Equal(t, "teacher", teacherSummary.Role)
	require.Equal(t, int64(1), teacherSummary.TotalCourses)
	require.Equal(t, int64(1), teacherSummary.TotalStudentsEnrolled)

	// Student shape: the caller's own enrollments and average progress.
	resp = ta.doJSON(t, "GET", "/api/v1/dashboard/summary", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var studentSummary struct {
		Role            string  `json:"role"`
		TotalEnrolled   int     `json:"total_enrolled"`
		InProgress      int     `json:"in_progress"`
		AverageProgress float64 `json:"average_progress"`
	}
	decodeBody(t, resp, &studentSummary)
	require.Equal(t, "student", studentSummary.Role)
	require.Equal(t, 1, studentSummary.TotalEnrolled)
	require.Equal(t, 1, studentSummary.InProgress)
	require.InDelta(t, 40.0, studentSummary.AverageProgress, 0.001)

	resp = ta.doJSON(t, "GET", "/api/v1/dashboard/summary", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	ta := newTestApp(t, "handler_health")

	resp := ta.doJSON(t, "GET", "/api/v1/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var health struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	decodeBody(t, resp, &health)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "lms-test", health.Service)

	resp = ta.doJSON(t, "GET", "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
