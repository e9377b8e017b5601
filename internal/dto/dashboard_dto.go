package dto

// Dashboard responses are disjoint per role; the Role field tells clients
// which shape they received.

// AdminCourseSummary is one active course on the admin dashboard.
type AdminCourseSummary struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	InstructorID     uint    `json:"instructor_id"`
	InstructorName   string  `json:"instructor_name"`
	EnrolledStudents int64   `json:"enrolled_students"`
	Price            float64 `json:"price"`
	Duration         float64 `json:"duration"`
	Category         string  `json:"category"`
}

// AdminInstructorSummary is one teacher on the admin dashboard.
type AdminInstructorSummary struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	TotalCourses int64  `json:"total_courses"`
}

// AdminDashboardResponse is the system-wide rollup.
type AdminDashboardResponse struct {
	Role             string                   `json:"role"`
	TotalUsers       int64                    `json:"total_users"`
	TotalStudents    int64                    `json:"total_students"`
	TotalTeachers    int64                    `json:"total_teachers"`
	TotalAdmins      int64                    `json:"total_admins"`
	TotalCourses     int64                    `json:"total_courses"`
	TotalEnrollments int64                    `json:"total_enrollments"`
	Courses          []AdminCourseSummary     `json:"courses"`
	Instructors      []AdminInstructorSummary `json:"instructors"`
}

// TeacherCourseSummary is one of the caller's courses on the teacher
// dashboard.
type TeacherCourseSummary struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	EnrolledStudents int64   `json:"enrolled_students"`
	Price            float64 `json:"price"`
	Duration         float64 `json:"duration"`
	Category         string  `json:"category"`
}

// TeacherDashboardResponse is the rollup restricted to the caller's courses.
// TotalStudentsEnrolled sums active enrollments per course without
// deduplicating students across courses.
type TeacherDashboardResponse struct {
	Role                  string                 `json:"role"`
	TotalCourses          int64                  `json:"total_courses"`
	TotalStudentsEnrolled int64                  `json:"total_students_enrolled"`
	Courses               []TeacherCourseSummary `json:"courses"`
}

// StudentEnrollmentSummary is one active enrollment on the student
// dashboard.
type StudentEnrollmentSummary struct {
	ID             uint    `json:"id"`
	CourseID       uint    `json:"course_id"`
	CourseTitle    string  `json:"course_title"`
	InstructorName string  `json:"instructor_name"`
	Progress       int     `json:"progress"`
	IsCompleted    bool    `json:"is_completed"`
	Price          float64 `json:"price"`
}

// StudentDashboardResponse is the caller's own enrollment rollup.
// AverageProgress is the arithmetic mean of progress over active
// enrollments rounded to 2 decimals, and 0 when there are none.
type StudentDashboardResponse struct {
	Role             string                     `json:"role"`
	TotalEnrolled    int                        `json:"total_enrolled"`
	CompletedCourses int                        `json:"completed_courses"`
	InProgress       int                        `json:"in_progress"`
	AverageProgress  float64                    `json:"average_progress"`
	Enrollments      []StudentEnrollmentSummary `json:"enrollments"`
}
