package models

import "time"

// Lesson belongs to exactly one course and is mutable only by that course's
// instructor. Lessons are hard deleted.
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	VideoURL    string    `gorm:"size:512" json:"video_url"`
	CourseID    uint      `gorm:"not null" json:"course_id"`
	Course      Course    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Material is a downloadable resource attached to a course. Same ownership
// rule as Lesson.
type Material struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	FileURL     string    `gorm:"size:512" json:"file_url"`
	CourseID    uint      `gorm:"not null" json:"course_id"`
	Course      Course    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
