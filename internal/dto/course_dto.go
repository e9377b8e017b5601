package dto

import (
	"time"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// CategoryCreateRequest carries a new category.
type CategoryCreateRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

// CategoryResponse is the serialized shape of a category.
type CategoryResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseCreateRequest carries a new course. The banner file, when present,
// travels alongside as multipart data.
type CourseCreateRequest struct {
	Title        string  `json:"title" form:"title" validate:"required,max=100"`
	Description  string  `json:"description" form:"description" validate:"required"`
	Price        float64 `json:"price" form:"price" validate:"gte=0"`
	Duration     float64 `json:"duration" form:"duration" validate:"gte=0"`
	CategoryID   uint    `json:"category_id" form:"category_id" validate:"required"`
	InstructorID uint    `json:"instructor_id" form:"instructor_id" validate:"required"`
}

// CourseUpdateRequest carries a partial course update.
type CourseUpdateRequest struct {
	Title        *string  `json:"title" form:"title" validate:"omitempty,max=100"`
	Description  *string  `json:"description" form:"description"`
	Price        *float64 `json:"price" form:"price" validate:"omitempty,gte=0"`
	Duration     *float64 `json:"duration" form:"duration" validate:"omitempty,gte=0"`
	CategoryID   *uint    `json:"category_id" form:"category_id"`
	InstructorID *uint    `json:"instructor_id" form:"instructor_id"`
	IsActive     *bool    `json:"is_active" form:"is_active"`
}

// CourseFilter carries course listing filters.
type CourseFilter struct {
	CategoryID uint
	Search     string
	Page       int
}

// CourseResponse is the serialized shape of a course, annotated with the
// instructor and category display names.
type CourseResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	BannerURL      string    `json:"banner_url"`
	Price          float64   `json:"price"`
	Duration       float64   `json:"duration"`
	IsActive       bool      `json:"is_active"`
	CategoryID     uint      `json:"category_id"`
	CategoryTitle  string    `json:"category_title"`
	InstructorID   uint      `json:"instructor_id"`
	InstructorName string    `json:"instructor_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CourseListResponse is the paginated course listing envelope.
type CourseListResponse struct {
	Count   int64            `json:"count"`
	Results []CourseResponse `json:"results"`
}

// NewCategoryResponse maps a category model to its response shape.
func NewCategoryResponse(category models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Title:     category.Title,
		IsActive:  category.IsActive,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

// NewCategoryResponseSlice maps a slice of category models.
func NewCategoryResponseSlice(categories []models.Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, NewCategoryResponse(category))
	}

	return responses
}

// NewCourseResponse maps a course model to its response shape. The
// instructor and category associations are expected to be preloaded.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:             course.ID,
		Title:          course.Title,
		Description:    course.Description,
		BannerURL:      course.BannerURL,
		Price:          course.Price,
		Duration:       course.Duration,
		IsActive:       course.IsActive,
		CategoryID:     course.CategoryID,
		CategoryTitle:  course.Category.Title,
		InstructorID:   course.InstructorID,
		InstructorName: course.Instructor.Username,
		CreatedAt:      course.CreatedAt,
		UpdatedAt:      course.UpdatedAt,
	}
}

// NewCourseResponseSlice maps a slice of course models.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
