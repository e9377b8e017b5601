package models

import "time"

// Category groups courses for display and filtering. Categories are never
// hard deleted; deactivated rows disappear from public listings.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Course is owned by exactly one instructor and belongs to one category.
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	BannerURL    string    `gorm:"size:512" json:"banner_url"`
	Price        float64   `gorm:"not null" json:"price"`
	Duration     float64   `gorm:"not null" json:"duration"` // hours
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CategoryID   uint      `gorm:"not null" json:"category_id"`
	Category     Category  `json:"-"`
	InstructorID uint      `gorm:"not null" json:"instructor_id"`
	Instructor   User      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
