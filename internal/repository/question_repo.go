package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// QuestionRepository defines persistence operations for lesson question
// threads.
type QuestionRepository interface {
	ListActiveByLesson(ctx context.Context, lessonID uint) ([]models.QuestionAnswer, error)
	Create(ctx context.Context, question *models.QuestionAnswer) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates a GORM-backed repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) ListActiveByLesson(ctx context.Context, lessonID uint) ([]models.QuestionAnswer, error) {
	var questions []models.QuestionAnswer
	err := r.db.WithContext(ctx).
		Where("lesson_id = ? AND is_active = ?", lessonID, true).
		Preload("User").Preload("Lesson").
		Order("id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) Create(ctx context.Context, question *models.QuestionAnswer) error {
	return r.db.WithContext(ctx).Create(question).Error
}
