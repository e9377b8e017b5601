package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/config"
	"github.com/noah-isme/lms-go-api/internal/database"
	"github.com/noah-isme/lms-go-api/internal/handler"
	"github.com/noah-isme/lms-go-api/internal/mail"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/router"
	"github.com/noah-isme/lms-go-api/internal/service"
	cloud "github.com/noah-isme/lms-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Course{},
		&models.Lesson{},
		&models.Material{},
		&models.Enrollment{},
		&models.QuestionAnswer{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	var mailer mail.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer, err = mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailFromName, cfg.EmailFrom, logger)
		if err != nil {
			log.Fatalf("failed to create sendgrid client: %v", err)
		}
	} else {
		mailer = mail.NewConsoleMailer(logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)

	authService := service.NewAuthService(userRepo, mailer, validate, service.AuthConfig{
		JWTSecret:        cfg.JWTSecret,
		JWTRefreshSecret: cfg.JWTRefreshSecret,
		AccessTokenTTL:   cfg.AccessTokenTTL,
		RefreshTokenTTL:  cfg.RefreshTokenTTL,
		ResetTokenTTL:    cfg.ResetTokenTTL,
		FrontendBaseURL:  cfg.FrontendBaseURL,
		BcryptCost:       cfg.BcryptCost,
		Development:      cfg.IsDevelopment(),
	}, logger)
	categoryService := service.NewCategoryService(categoryRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, categoryRepo, userRepo, validate, uploader, logger)
	lessonService := service.NewLessonService(lessonRepo, courseRepo, validate, uploader, logger)
	materialService := service.NewMaterialService(materialRepo, courseRepo, validate, uploader, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, courseRepo, validate, logger)
	questionService := service.NewQuestionService(questionRepo, lessonRepo, userRepo, validate, logger)
	dashboardService := service.NewDashboardService(userRepo, courseRepo, enrollmentRepo, redisClient, cfg.DashboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, JWTSecret: cfg.JWTSecret})
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

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
