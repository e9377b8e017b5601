package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/authz"
	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/mail"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
)

// Auth domain errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrInvalidResetLink   = errors.New("invalid reset link")
	ErrExpiredResetLink   = errors.New("invalid or expired reset link")
)

const resetTokenPurpose = "password_reset"

// AuthConfig carries the token and reset-flow settings the auth service
// needs.
type AuthConfig struct {
	JWTSecret        string
	JWTRefreshSecret string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	ResetTokenTTL    time.Duration
	FrontendBaseURL  string
	BcryptCost       int
	Development      bool
}

// AuthService exposes account and credential use cases.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	ListUsers(ctx context.Context, caller authz.Identity) ([]dto.UserResponse, error)
	ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) (dto.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, uid, token string, payload dto.ResetPasswordRequest) error
	VerifyResetToken(ctx context.Context, uid, token string) (dto.VerifyResetTokenResponse, error)
}

type authService struct {
	users     repository.UserRepository
	mailer    mail.Mailer
	validator *validator.Validate
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds a new auth service.
func NewAuthService(users repository.UserRepository, mailer mail.Mailer, validate *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		mailer:    mailer,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.GetByUsername(ctx, payload.Username); err == nil {
		return dto.AuthResponse{}, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.cfg.BcryptCost)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Password:  string(hash),
		Role:      models.Role(payload.Role),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrUsernameTaken
		}
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.Username != nil {
		user.Username = *payload.Username
	}
	if payload.Email != nil {
		user.Email = *payload.Email
	}
	if payload.FirstName != nil {
		user.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		user.LastName = *payload.LastName
	}

	if err := s.users.Update(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.UserResponse{}, ErrUsernameTaken
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *authService) ListUsers(ctx context.Context, caller authz.Identity) ([]dto.UserResponse, error) {
	if err := authz.Decide(caller, authz.ListUsers{}); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewUserResponseSlice(users), nil
}

// ForgotPassword always answers with a generic detail so the endpoint does
// not leak which addresses have accounts. When mail delivery fails the
// response carries the reset link instead; that fallback only runs in
// development and is unsafe for production.
func (s *authService) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) (dto.ForgotPasswordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	generic := dto.ForgotPasswordResponse{
		Detail: "If an account exists with this email, you will receive a password reset link.",
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return generic, nil
		}
		return dto.ForgotPasswordResponse{}, err
	}

	token, err := s.makeResetToken(user)
	if err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	uid := encodeUserID(user.ID)
	resetLink := fmt.Sprintf("%s/reset-password/%s/%s", s.cfg.FrontendBaseURL, uid, token)

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Username, resetLink); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("password reset email delivery failed")
		if s.cfg.Development {
			return dto.ForgotPasswordResponse{
				Detail:    "Password reset email sent successfully",
				ResetLink: resetLink,
			}, nil
		}
		return generic, nil
	}

	return generic, nil
}

func (s *authService) ResetPassword(ctx context.Context, uid, token string, payload dto.ResetPasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.userFromUID(ctx, uid)
	if err != nil {
		return err
	}

	if err := s.checkResetToken(user, token); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hash)
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("password reset completed")

	return nil
}

func (s *authService) VerifyResetToken(ctx context.Context, uid, token string) (dto.VerifyResetTokenResponse, error) {
	user, err := s.userFromUID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrInvalidResetLink) {
			return dto.VerifyResetTokenResponse{Valid: false, Detail: "Invalid token"}, ErrInvalidResetLink
		}
		return dto.VerifyResetTokenResponse{}, err
	}

	if err := s.checkResetToken(user, token); err != nil {
		return dto.VerifyResetTokenResponse{Valid: false, Detail: "Token has expired"}, err
	}

	return dto.VerifyResetTokenResponse{Valid: true, Username: user.Username}, nil
}

func (s *authService) buildAuthResponse(user models.User) (dto.AuthResponse, error) {
	access, err := s.signToken(user, s.cfg.JWTSecret, s.cfg.AccessTokenTTL, "")
	if err != nil {
		return dto.AuthResponse{}, err
	}

	refresh, err := s.signToken(user, s.cfg.JWTRefreshSecret, s.cfg.RefreshTokenTTL, "refresh")
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		User:    dto.NewUserResponse(user),
		Access:  access,
		Refresh: refresh,
	}, nil
}

func (s *authService) signToken(user models.User, secret string, ttl time.Duration, purpose string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	if purpose != "" {
		claims["purpose"] = purpose
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// makeResetToken signs a short-lived token with a key derived from the
// user's current password hash, so resetting the password invalidates any
// outstanding link.
func (s *authService) makeResetToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":     strconv.FormatUint(uint64(user.ID), 10),
		"purpose": resetTokenPurpose,
		"iat":     now.Unix(),
		"exp":     now.Add(s.cfg.ResetTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.resetKey(user))
	if err != nil {
		return "", fmt.Errorf("failed to sign reset token: %w", err)
	}

	return signed, nil
}

func (s *authService) checkResetToken(user models.User, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.resetKey(user), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return ErrExpiredResetLink
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != resetTokenPurpose {
		return ErrExpiredResetLink
	}

	return nil
}

func (s *authService) resetKey(user models.User) []byte {
	return []byte(s.cfg.JWTSecret + user.Password)
}

func (s *authService) userFromUID(ctx context.Context, uid string) (models.User, error) {
	id, err := decodeUserID(uid)
	if err != nil {
		return models.User{}, ErrInvalidResetLink
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidResetLink
		}
		return models.User{}, err
	}

	return user, nil
}

func encodeUserID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func decodeUserID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}
