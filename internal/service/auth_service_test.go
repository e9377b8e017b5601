package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/authz"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

type recordingMailer struct {
	fail      bool
	lastLink  string
	lastEmail string
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, toEmail, _ string, resetLink string) error {
	if m.fail {
		return errors.New("delivery refused")
	}
	m.lastEmail = toEmail
	m.lastLink = resetLink
	return nil
}

func newTestAuthService(t *testing.T, db *gorm.DB, mailer *recordingMailer) AuthService {
	t.Helper()

	return NewAuthService(
		repository.NewUserRepository(db),
		mailer,
		validator.New(validator.WithRequiredStructEnabled()),
		AuthConfig{
			JWTSecret:        "access-secret",
			JWTRefreshSecret: "refresh-secret",
			AccessTokenTTL:   time.Hour,
			RefreshTokenTTL:  24 * time.Hour,
			ResetTokenTTL:    15 * time.Minute,
			FrontendBaseURL:  "http://localhost:5173",
			BcryptCost:       4,
			Development:      true,
		},
		zerolog.New(io.Discard),
	)
}

func registerPayload(username, email, role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:  username,
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  "secret123",
		Role:      role,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t, "auth_register")
	svc := newTestAuthService(t, db, &recordingMailer{})

	registered, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)
	require.Equal(t, "alice", registered.User.Username)
	require.Equal(t, models.RoleStudent, registered.User.Role)
	require.NotEmpty(t, registered.Access)
	require.NotEmpty(t, registered.Refresh)

	// Password hashes never leak through the response shape.
	loggedIn, err := svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, loggedIn.User.ID)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := openTestDB(t, "auth_duplicates")
	svc := newTestAuthService(t, db, &recordingMailer{})

	_, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerPayload("alice", "other@example.com", "student"))
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(context.Background(), registerPayload("someone", "alice@example.com", "student"))
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	db := openTestDB(t, "auth_role")
	svc := newTestAuthService(t, db, &recordingMailer{})

	_, err := svc.Register(context.Background(), registerPayload("mallory", "mallory@example.com", "superuser"))
	require.Error(t, err)

	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestListUsersAdminOnly(t *testing.T) {
	db := openTestDB(t, "auth_list")
	svc := newTestAuthService(t, db, &recordingMailer{})

	admin, err := svc.Register(context.Background(), registerPayload("root", "root@example.com", "admin"))
	require.NoError(t, err)
	student, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)

	users, err := svc.ListUsers(context.Background(), authz.Identity{UserID: admin.User.ID, Role: models.RoleAdmin, Authenticated: true})
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = svc.ListUsers(context.Background(), authz.Identity{UserID: student.User.ID, Role: models.RoleStudent, Authenticated: true})
	require.ErrorIs(t, err, authz.ErrForbidden)
}

func TestForgotPasswordIsGenericForUnknownEmail(t *testing.T) {
	db := openTestDB(t, "auth_forgot_unknown")
	mailer := &recordingMailer{}
	svc := newTestAuthService(t, db, mailer)

	response, err := svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ghost@example.com"})
	require.NoError(t, err)
	require.Contains(t, response.Detail, "If an account exists")
	require.Empty(t, response.ResetLink)
	require.Empty(t, mailer.lastEmail)
}

func TestPasswordResetFlow(t *testing.T) {
	db := openTestDB(t, "auth_reset")
	mailer := &recordingMailer{}
	svc := newTestAuthService(t, db, mailer)

	_, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)

	_, err = svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "alice@example.com"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", mailer.lastEmail)
	require.NotEmpty(t, mailer.lastLink)

	parts := strings.Split(strings.TrimPrefix(mailer.lastLink, "http://localhost:5173/reset-password/"), "/")
	require.Len(t, parts, 2)
	uid, token := parts[0], parts[1]

	verified, err := svc.VerifyResetToken(context.Background(), uid, token)
	require.NoError(t, err)
	require.True(t, verified.Valid)
	require.Equal(t, "alice", verified.Username)

	require.NoError(t, svc.ResetPassword(context.Background(), uid, token, dto.ResetPasswordRequest{Password: "newsecret"}))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "newsecret"})
	require.NoError(t, err)

	// Changing the password rotates the signing key, so the old link is
	// single-use.
	err = svc.ResetPassword(context.Background(), uid, token, dto.ResetPasswordRequest{Password: "again"})
	require.ErrorIs(t, err, ErrExpiredResetLink)
}

func TestPasswordResetDevFallbackReturnsLink(t *testing.T) {
	db := openTestDB(t, "auth_fallback")
	mailer := &recordingMailer{fail: true}
	svc := newTestAuthService(t, db, mailer)

	_, err := svc.Register(context.Background(), registerPayload("alice", "alice@example.com", "student"))
	require.NoError(t, err)

	response, err := svc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "alice@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, response.ResetLink)
	require.Contains(t, response.ResetLink, "/reset-password/")
}

func TestResetPasswordRejectsMalformedUID(t *testing.T) {
	db := openTestDB(t, "auth_bad_uid")
	svc := newTestAuthService(t, db, &recordingMailer{})

	err := svc.ResetPassword(context.Background(), "%%not-base64%%", "token", dto.ResetPasswordRequest{Password: "newsecret"})
	require.ErrorIs(t, err, ErrInvalidResetLink)
}
