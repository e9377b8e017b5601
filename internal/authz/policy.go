// Package authz holds the pure authorization policy. Handlers build an
// Identity from the verified token and thread it explicitly into every
// decision; nothing in this package reads ambient request state.
package authz

import (
	"errors"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// Decision errors. Unauthenticated callers on protected operations get
// ErrUnauthorized; authenticated callers with the wrong role or ownership
// get ErrForbidden.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("insufficient permissions")
)

// Identity describes the caller of an operation.
type Identity struct {
	UserID        uint
	Role          models.Role
	Authenticated bool
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity {
	return Identity{}
}

// Operation is a typed request for permission. Each operation carries the
// ownership facts the policy needs, so Decide stays a closed type switch
// over the full permission table.
type Operation interface {
	isOperation()
}

// CreateCategory covers category creation. Admin only.
type CreateCategory struct{}

// ManageCourse covers course create, update and delete. Admin only.
type ManageCourse struct{}

// MutateLesson covers lesson create, update and delete under a course.
// Only the teacher instructing that course is allowed.
type MutateLesson struct{ InstructorID uint }

// MutateMaterial covers material create, update and delete under a course.
// Same ownership rule as MutateLesson.
type MutateMaterial struct{ InstructorID uint }

// AccessEnrollments covers listing and creating the caller's own
// enrollments. Student only.
type AccessEnrollments struct{}

// RecordProgress is the grading collaborator's entry point: progress, mark
// and certificate updates on an enrollment. The course instructor or an
// admin may record.
type RecordProgress struct{ InstructorID uint }

// CreateQuestion covers posting to a lesson's question thread. Any
// authenticated caller.
type CreateQuestion struct{}

// ListUsers covers the full user roster. Admin only.
type ListUsers struct{}

// ViewRoster covers the per-course student roster. Admin, or the teacher
// who owns the course.
type ViewRoster struct{ InstructorID uint }

// ViewDashboard covers the role-keyed dashboard summary. Any authenticated
// caller; the response shape depends on the role.
type ViewDashboard struct{}

func (CreateCategory) isOperation()    {}
func (ManageCourse) isOperation()      {}
func (MutateLesson) isOperation()      {}
func (MutateMaterial) isOperation()    {}
func (AccessEnrollments) isOperation() {}
func (RecordProgress) isOperation()    {}
func (CreateQuestion) isOperation()    {}
func (ListUsers) isOperation()         {}
func (ViewRoster) isOperation()        {}
func (ViewDashboard) isOperation()     {}

// Decide evaluates the permission table for one caller and operation.
// It returns nil on allow, ErrUnauthorized or ErrForbidden on deny.
//
// Resource existence is the caller's concern: flows check NotFound before
// consulting the policy, so a missing course yields 404 even for a caller
// who would also have been denied.
func Decide(caller Identity, op Operation) error {
	if !caller.Authenticated {
		return ErrUnauthorized
	}

	switch v := op.(type) {
	case CreateCategory, ManageCourse, ListUsers:
		if caller.Role != models.RoleAdmin {
			return ErrForbidden
		}
	case MutateLesson:
		return decideOwnership(caller, v.InstructorID)
	case MutateMaterial:
		return decideOwnership(caller, v.InstructorID)
	case AccessEnrollments:
		if caller.Role != models.RoleStudent {
			return ErrForbidden
		}
	case RecordProgress:
		if caller.Role == models.RoleAdmin {
			return nil
		}
		return decideOwnership(caller, v.InstructorID)
	case ViewRoster:
		if caller.Role == models.RoleAdmin {
			return nil
		}
		return decideOwnership(caller, v.InstructorID)
	case CreateQuestion, ViewDashboard:
		// Any authenticated caller.
	default:
		return ErrForbidden
	}

	return nil
}

// decideOwnership allows only the teacher who instructs the course.
func decideOwnership(caller Identity, instructorID uint) error {
	if caller.Role != models.RoleTeacher || caller.UserID != instructorID {
		return ErrForbidden
	}
	return nil
}
