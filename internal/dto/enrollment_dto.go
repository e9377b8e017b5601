package dto

import (
	"time"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// EnrollmentCreateRequest carries a student-initiated enrollment. The price
// is snapshotted from the course, never taken from the caller.
type EnrollmentCreateRequest struct {
	CourseID uint `json:"course" validate:"required"`
}

// ProgressUpdateRequest is the grading collaborator's payload: progress,
// mark and optionally the certificate flag.
type ProgressUpdateRequest struct {
	Progress         int      `json:"progress" validate:"gte=0,lte=100"`
	TotalMark        *float64 `json:"total_mark" validate:"omitempty,gte=0"`
	CertificateReady bool     `json:"is_certificate_ready"`
}

// EnrollmentResponse is the serialized shape of an enrollment, annotated
// with the student and course display names.
type EnrollmentResponse struct {
	ID                 uint      `json:"id"`
	StudentID          uint      `json:"student_id"`
	StudentName        string    `json:"student_name"`
	CourseID           uint      `json:"course_id"`
	CourseTitle        string    `json:"course_title"`
	IsActive           bool      `json:"is_active"`
	Price              float64   `json:"price"`
	Progress           int       `json:"progress"`
	IsCompleted        bool      `json:"is_completed"`
	TotalMark          float64   `json:"total_mark"`
	IsCertificateReady bool      `json:"is_certificate_ready"`
	CreatedAt          time.Time `json:"created_at"`
}

// RosterEntry is one active enrollment on the course-students report.
type RosterEntry struct {
	ID                 uint      `json:"id"`
	StudentID          uint      `json:"student_id"`
	StudentName        string    `json:"student_name"`
	StudentEmail       string    `json:"student_email"`
	StudentFirstName   string    `json:"student_first_name"`
	StudentLastName    string    `json:"student_last_name"`
	Progress           int       `json:"progress"`
	IsCompleted        bool      `json:"is_completed"`
	TotalMark          float64   `json:"total_mark"`
	PricePaid          float64   `json:"price_paid"`
	EnrolledDate       time.Time `json:"enrolled_date"`
	IsCertificateReady bool      `json:"is_certificate_ready"`
}

// RosterResponse is the course-students report.
type RosterResponse struct {
	CourseID       uint          `json:"course_id"`
	CourseTitle    string        `json:"course_title"`
	InstructorName string        `json:"instructor_name"`
	TotalStudents  int           `json:"total_students"`
	Students       []RosterEntry `json:"students"`
}

// NewEnrollmentResponse maps an enrollment model to its response shape. The
// student and course associations are expected to be preloaded.
func NewEnrollmentResponse(enrollment models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:                 enrollment.ID,
		StudentID:          enrollment.StudentID,
		StudentName:        enrollment.Student.Username,
		CourseID:           enrollment.CourseID,
		CourseTitle:        enrollment.Course.Title,
		IsActive:           enrollment.IsActive,
		Price:              enrollment.Price,
		Progress:           enrollment.Progress,
		IsCompleted:        enrollment.IsCompleted,
		TotalMark:          enrollment.TotalMark,
		IsCertificateReady: enrollment.IsCertificateReady,
		CreatedAt:          enrollment.CreatedAt,
	}
}

// NewEnrollmentResponseSlice maps a slice of enrollment models.
func NewEnrollmentResponseSlice(enrollments []models.Enrollment) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}

	return responses
}

// NewRosterEntry maps an active enrollment onto the roster report row.
func NewRosterEntry(enrollment models.Enrollment) RosterEntry {
	return RosterEntry{
		ID:                 enrollment.ID,
		StudentID:          enrollment.StudentID,
		StudentName:        enrollment.Student.Username,
		StudentEmail:       enrollment.Student.Email,
		StudentFirstName:   enrollment.Student.FirstName,
		StudentLastName:    enrollment.Student.LastName,
		Progress:           enrollment.Progress,
		IsCompleted:        enrollment.IsCompleted,
		TotalMark:          enrollment.TotalMark,
		PricePaid:          enrollment.Price,
		EnrolledDate:       enrollment.CreatedAt,
		IsCertificateReady: enrollment.IsCertificateReady,
	}
}
