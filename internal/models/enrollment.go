package models

import (
	"errors"
	"time"
)

// Progress bounds for an enrollment. Reaching MaxProgress completes the
// course.
const (
	MinProgress = 0
	MaxProgress = 100
)

// Enrollment state machine errors.
var (
	ErrProgressOutOfRange        = errors.New("progress must be between 0 and 100")
	ErrCertificateNeedsCompleted = errors.New("certificate cannot be issued before completion")
)

// Enrollment links a student to a course. The composite unique index on
// (student_id, course_id) is the storage-level guarantee that two concurrent
// enroll attempts for the same pair leave exactly one surviving row.
//
// Rows are never deleted; is_active=false marks soft retirement and is set
// by an external collaborator. Inactive rows are excluded from listings,
// rosters and dashboard counts.
type Enrollment struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	StudentID          uint      `gorm:"not null;uniqueIndex:idx_enrollments_student_course" json:"student_id"`
	Student            User      `json:"-"`
	CourseID           uint      `gorm:"not null;uniqueIndex:idx_enrollments_student_course" json:"course_id"`
	Course             Course    `json:"-"`
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`
	Price              float64   `gorm:"not null" json:"price"`
	Progress           int       `gorm:"not null;default:0" json:"progress"`
	IsCompleted        bool      `gorm:"not null;default:false" json:"is_completed"`
	TotalMark          float64   `gorm:"not null;default:0" json:"total_mark"`
	IsCertificateReady bool      `gorm:"not null;default:false" json:"is_certificate_ready"`
	CreatedAt          time.Time `json:"created_at"`
}

// ApplyProgress moves the enrollment to the given progress value. Reaching
// MaxProgress flips is_completed; completion is one-way, so a later lower
// value never clears it.
func (e *Enrollment) ApplyProgress(value int) error {
	if value < MinProgress || value > MaxProgress {
		return ErrProgressOutOfRange
	}

	e.Progress = value
	if value == MaxProgress {
		e.IsCompleted = true
	}

	return nil
}

// MarkCertificateReady flags the certificate as issuable. The invariant
// is_certificate_ready implies is_completed must hold on every write.
func (e *Enrollment) MarkCertificateReady() error {
	if !e.IsCompleted {
		return ErrCertificateNeedsCompleted
	}

	e.IsCertificateReady = true

	return nil
}
