package dto

import (
	"time"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// LessonCreateRequest carries a new lesson; an optional video file travels
// as multipart data.
type LessonCreateRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
}

// LessonUpdateRequest carries a partial lesson update.
type LessonUpdateRequest struct {
	Title       *string `json:"title" form:"title" validate:"omitempty,max=100"`
	Description *string `json:"description" form:"description"`
}

// MaterialCreateRequest carries a new material; an optional file travels as
// multipart data.
type MaterialCreateRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
}

// MaterialUpdateRequest carries a partial material update.
type MaterialUpdateRequest struct {
	Title       *string `json:"title" form:"title" validate:"omitempty,max=100"`
	Description *string `json:"description" form:"description"`
}

// LessonResponse is the serialized shape of a lesson.
type LessonResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url"`
	CourseID    uint      `json:"course_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaterialResponse is the serialized shape of a material.
type MaterialResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"file_url"`
	CourseID    uint      `json:"course_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLessonResponse maps a lesson model to its response shape.
func NewLessonResponse(lesson models.Lesson) LessonResponse {
	return LessonResponse{
		ID:          lesson.ID,
		Title:       lesson.Title,
		Description: lesson.Description,
		VideoURL:    lesson.VideoURL,
		CourseID:    lesson.CourseID,
		CreatedAt:   lesson.CreatedAt,
		UpdatedAt:   lesson.UpdatedAt,
	}
}

// NewLessonResponseSlice maps a slice of lesson models.
func NewLessonResponseSlice(lessons []models.Lesson) []LessonResponse {
	responses := make([]LessonResponse, 0, len(lessons))
	for _, lesson := range lessons {
		responses = append(responses, NewLessonResponse(lesson))
	}

	return responses
}

// NewMaterialResponse maps a material model to its response shape.
func NewMaterialResponse(material models.Material) MaterialResponse {
	return MaterialResponse{
		ID:          material.ID,
		Title:       material.Title,
		Description: material.Description,
		FileURL:     material.FileURL,
		CourseID:    material.CourseID,
		CreatedAt:   material.CreatedAt,
		UpdatedAt:   material.UpdatedAt,
	}
}

// NewMaterialResponseSlice maps a slice of material models.
func NewMaterialResponseSlice(materials []models.Material) []MaterialResponse {
	responses := make([]MaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, NewMaterialResponse(material))
	}

	return responses
}
