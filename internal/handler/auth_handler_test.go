package handler_test

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestAuthRegisterLoginProfile(t *testing.T) {
	ta := newTestApp(t, "handler_auth")

	token, userID := ta.register(t, "alice", "student")
	require.NotZero(t, userID)

	resp := ta.doJSON(t, "POST", "/api/v1/auth/login", "", fiber.Map{"username": "alice", "password": "secret123"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	decodeBody(t, resp, &login)
	require.Equal(t, "alice", login.User.Username)
	require.Equal(t, "student", login.User.Role)
	require.NotEmpty(t, login.Refresh)

	resp = ta.doJSON(t, "POST", "/api/v1/auth/login", "", fiber.Map{"username": "alice", "password": "wrong"})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "invalid username or password", detailOf(t, resp))

	resp = ta.doJSON(t, "GET", "/api/v1/auth/profile", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
	decodeBody(t, resp, &profile)
	require.Equal(t, userID, profile.ID)

	resp = ta.doJSON(t, "GET", "/api/v1/auth/profile", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRegisterDuplicateUsername(t *testing.T) {
	ta := newTestApp(t, "handler_auth_dup")

	ta.register(t, "alice", "student")

	resp := ta.doJSON(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"username": "alice",
		"email":    "alice2@example.com",
		"password": "secret123",
		"role":     "student",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "a user with that username already exists", detailOf(t, resp))
}

func TestAuthRegisterRejectsUnknownRole(t *testing.T) {
	ta := newTestApp(t, "handler_auth_role")

	resp := ta.doJSON(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"username": "mallory",
		"email":    "mallory@example.com",
		"password": "secret123",
		"role":     "superuser",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAuthUpdateProfile(t *testing.T) {
	ta := newTestApp(t, "handler_auth_update")

	token, _ := ta.register(t, "alice", "student")

	resp := ta.doJSON(t, "PUT", "/api/v1/auth/profile", token, fiber.Map{"first_name": "Alice", "last_name": "Smith"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	decodeBody(t, resp, &profile)
	require.Equal(t, "Alice", profile.FirstName)
	require.Equal(t, "Smith", profile.LastName)
}

func TestAuthUserDirectoryIsAdminOnly(t *testing.T) {
	ta := newTestApp(t, "handler_auth_users")

	adminToken, _ := ta.register(t, "root", "admin")
	studentToken, _ := ta.register(t, "alice", "student")

	resp := ta.doJSON(t, "GET", "/api/v1/auth/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var users []struct {
		Username string `json:"username"`
	}
	decodeBody(t, resp, &users)
	require.Len(t, users, 2)

	resp = ta.doJSON(t, "GET", "/api/v1/auth/users", studentToken, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = ta.doJSON(t, "GET", "/api/v1/auth/users", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMalformedTokenRejected(t *testing.T) {
	ta := newTestApp(t, "handler_auth_badtoken")

	resp := ta.doJSON(t, "GET", "/api/v1/categories", "not-a-jwt", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
