package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/lms-go-api/internal/config"
	"github.com/noah-isme/lms-go-api/internal/handler"
	"github.com/noah-isme/lms-go-api/internal/mail"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/router"
	"github.com/noah-isme/lms-go-api/internal/service"
)

const testJWTSecret = "handler-test-secret"

type testUploader struct{}

func (testUploader) Upload(_ context.Context, name string, _ io.Reader) (string, error) {
	return "https://cdn.example.com/" + name, nil
}

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestApp(t *testing.T, name string) testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Course{},
		&models.Lesson{},
		&models.Material{},
		&models.Enrollment{},
		&models.QuestionAnswer{},
	))

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())
	uploader := testUploader{}
	mailer := mail.NewConsoleMailer(logger)

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	authService := service.NewAuthService(userRepo, mailer, validate, service.AuthConfig{
		JWTSecret:        testJWTSecret,
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  24 * time.Hour,
		ResetTokenTTL:    15 * time.Minute,
		FrontendBaseURL:  "http://localhost:5173",
		BcryptCost:       4,
		Development:      true,
	}, logger)
	categoryService := service.NewCategoryService(categoryRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, categoryRepo, userRepo, validate, uploader, logger)
	lessonService := service.NewLessonService(lessonRepo, courseRepo, validate, uploader, logger)
	materialService := service.NewMaterialService(materialRepo, courseRepo, validate, uploader, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logger)
	questionService := service.NewQuestionService(questionRepo, lessonRepo, userRepo, validate, logger)
	dashboardService := service.NewDashboardService(userRepo, courseRepo, enrollmentRepo, redisClient, time.Minute, logger)

	app := fiber.New()
	cfg := config.Config{AppName: "lms-test", AppEnv: "test", JWTSecret: testJWTSecret}
	middleware.Register(app, middleware.Config{Logger: &logger, JWTSecret: testJWTSecret})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		CategoryHandler:   handler.NewCategoryHandler(categoryService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, dashboardService, logger),
		LessonHandler:     handler.NewLessonHandler(lessonService, logger),
		MaterialHandler:   handler.NewMaterialHandler(materialService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		QuestionHandler:   handler.NewQuestionHandler(questionService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
	})

	return testApp{app: app, db: db}
}

// doJSON issues a request with an optional bearer token and JSON body.
func (ta testApp) doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func detailOf(t *testing.T, resp *http.Response) string {
	t.Helper()

	var payload struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, resp, &payload)

	return payload.Detail
}

// register creates an account through the API and returns its access token
// and user id.
func (ta testApp) register(t *testing.T, username, role string) (string, uint) {
	t.Helper()

	resp := ta.doJSON(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payload struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		Access string `json:"access"`
	}
	decodeBody(t, resp, &payload)
	require.NotEmpty(t, payload.Access)

	return payload.Access, payload.User.ID
}

func (ta testApp) createCategory(t *testing.T, title string) uint {
	t.Helper()

	category := models.Category{Title: title, IsActive: true}
	require.NoError(t, ta.db.Create(&category).Error)

	return category.ID
}
