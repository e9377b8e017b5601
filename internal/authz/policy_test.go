package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-go-api/internal/models"
)

func identity(id uint, role models.Role) Identity {
	return Identity{UserID: id, Role: role, Authenticated: true}
}

func TestDecideMatrix(t *testing.T) {
	admin := identity(1, models.RoleAdmin)
	owner := identity(2, models.RoleTeacher)
	otherTeacher := identity(3, models.RoleTeacher)
	student := identity(4, models.RoleStudent)
	anonymous := Anonymous()

	cases := []struct {
		name   string
		caller Identity
		op     Operation
		want   error
	}{
		{"admin creates category", admin, CreateCategory{}, nil},
		{"teacher creates category", owner, CreateCategory{}, ErrForbidden},
		{"student creates category", student, CreateCategory{}, ErrForbidden},
		{"anonymous creates category", anonymous, CreateCategory{}, ErrUnauthorized},

		{"admin manages course", admin, ManageCourse{}, nil},
		{"teacher manages course", owner, ManageCourse{}, ErrForbidden},
		{"anonymous manages course", anonymous, ManageCourse{}, ErrUnauthorized},

		{"admin mutates lesson", admin, MutateLesson{InstructorID: owner.UserID}, ErrForbidden},
		{"instructor mutates own lesson", owner, MutateLesson{InstructorID: owner.UserID}, nil},
		{"teacher mutates foreign lesson", otherTeacher, MutateLesson{InstructorID: owner.UserID}, ErrForbidden},
		{"student mutates lesson", student, MutateLesson{InstructorID: owner.UserID}, ErrForbidden},
		{"anonymous mutates lesson", anonymous, MutateLesson{InstructorID: owner.UserID}, ErrUnauthorized},

		{"instructor mutates own material", owner, MutateMaterial{InstructorID: owner.UserID}, nil},
		{"teacher mutates foreign material", otherTeacher, MutateMaterial{InstructorID: owner.UserID}, ErrForbidden},

		{"student accesses enrollments", student, AccessEnrollments{}, nil},
		{"teacher accesses enrollments", owner, AccessEnrollments{}, ErrForbidden},
		{"admin accesses enrollments", admin, AccessEnrollments{}, ErrForbidden},
		{"anonymous accesses enrollments", anonymous, AccessEnrollments{}, ErrUnauthorized},

		{"admin records progress", admin, RecordProgress{InstructorID: owner.UserID}, nil},
		{"instructor records progress on own course", owner, RecordProgress{InstructorID: owner.UserID}, nil},
		{"teacher records progress on foreign course", otherTeacher, RecordProgress{InstructorID: owner.UserID}, ErrForbidden},
		{"student records progress", student, RecordProgress{InstructorID: owner.UserID}, ErrForbidden},

		{"student asks a question", student, CreateQuestion{}, nil},
		{"teacher asks a question", owner, CreateQuestion{}, nil},
		{"admin asks a question", admin, CreateQuestion{}, nil},
		{"anonymous asks a question", anonymous, CreateQuestion{}, ErrUnauthorized},

		{"admin lists users", admin, ListUsers{}, nil},
		{"teacher lists users", owner, ListUsers{}, ErrForbidden},
		{"anonymous lists users", anonymous, ListUsers{}, ErrUnauthorized},

		{"admin views roster", admin, ViewRoster{InstructorID: owner.UserID}, nil},
		{"instructor views own roster", owner, ViewRoster{InstructorID: owner.UserID}, nil},
		{"teacher views foreign roster", otherTeacher, ViewRoster{InstructorID: owner.UserID}, ErrForbidden},
		{"student views roster", student, ViewRoster{InstructorID: owner.UserID}, ErrForbidden},

		{"admin views dashboard", admin, ViewDashboard{}, nil},
		{"teacher views dashboard", owner, ViewDashboard{}, nil},
		{"student views dashboard", student, ViewDashboard{}, nil},
		{"anonymous views dashboard", anonymous, ViewDashboard{}, ErrUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Decide(tc.caller, tc.op)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAnonymousIdentity(t *testing.T) {
	anonymous := Anonymous()
	require.False(t, anonymous.Authenticated)
	require.Zero(t, anonymous.UserID)
}
