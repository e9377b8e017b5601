package models

import "time"

// QuestionAnswer is a thread entry under a lesson. Any authenticated user
// may post one; listings show active entries only.
type QuestionAnswer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	User        User      `json:"-"`
	LessonID    uint      `gorm:"not null" json:"lesson_id"`
	Lesson      Lesson    `json:"-"`
	Description string    `gorm:"type:text;not null" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
