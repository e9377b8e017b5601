package dto

import (
	"time"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// QuestionCreateRequest carries a new question-thread entry.
type QuestionCreateRequest struct {
	Description string `json:"description" validate:"required"`
}

// QuestionResponse is the serialized shape of a question-thread entry.
type QuestionResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	UserName    string    `json:"user_name"`
	LessonID    uint      `json:"lesson_id"`
	LessonTitle string    `json:"lesson_title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewQuestionResponse maps a question model to its response shape. The user
// and lesson associations are expected to be preloaded.
func NewQuestionResponse(question models.QuestionAnswer) QuestionResponse {
	return QuestionResponse{
		ID:          question.ID,
		UserID:      question.UserID,
		UserName:    question.User.Username,
		LessonID:    question.LessonID,
		LessonTitle: question.Lesson.Title,
		Description: question.Description,
		IsActive:    question.IsActive,
		CreatedAt:   question.CreatedAt,
		UpdatedAt:   question.UpdatedAt,
	}
}

// NewQuestionResponseSlice maps a slice of question models.
func NewQuestionResponseSlice(questions []models.QuestionAnswer) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}
