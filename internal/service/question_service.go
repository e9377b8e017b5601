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
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// QuestionService exposes lesson question-thread use cases.
type QuestionService interface {
	ListByLesson(ctx context.Context, lessonID uint) ([]dto.QuestionResponse, error)
	Create(ctx context.Context, caller authz.Identity, lessonID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
}

type questionService struct {
	questions repository.QuestionRepository
	lessons   repository.LessonRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuestionService builds a new question service.
func NewQuestionService(questions repository.QuestionRepository, lessons repository.LessonRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		lessons:   lessons,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

// ListByLesson is public and returns active entries only.
func (s *questionService) ListByLesson(ctx context.Context, lessonID uint) ([]dto.QuestionResponse, error) {
	if _, err := s.requireLesson(ctx, lessonID); err != nil {
		return nil, err
	}

	questions, err := s.questions.ListActiveByLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Create(ctx context.Context, caller authz.Identity, lessonID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	lesson, err := s.requireLesson(ctx, lessonID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	if err := authz.Decide(caller, authz.CreateQuestion{}); err != nil {
		return dto.QuestionResponse{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	author, err := s.users.GetByID(ctx, caller.UserID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	question := models.QuestionAnswer{
		UserID:      caller.UserID,
		LessonID:    lesson.ID,
		Description: payload.Description,
		IsActive:    true,
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Uint("question_id", question.ID).Uint("lesson_id", lesson.ID).Msg("question posted")

	question.User = author
	question.Lesson = lesson

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) requireLesson(ctx context.Context, lessonID uint) (models.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Lesson{}, ErrLessonNotFound
		}
		return models.Lesson{}, err
	}

	return lesson, nil
}
