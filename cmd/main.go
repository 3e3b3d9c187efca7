package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/coursewagon/coursewagon-backend/internal/agents"
	"github.com/coursewagon/coursewagon-backend/internal/cache"
	"github.com/coursewagon/coursewagon-backend/internal/db"
	"github.com/coursewagon/coursewagon-backend/internal/handlers"
	"github.com/coursewagon/coursewagon-backend/internal/llm"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
	"github.com/coursewagon/coursewagon-backend/internal/mailer"
	"github.com/coursewagon/coursewagon-backend/internal/middleware"
	"github.com/coursewagon/coursewagon-backend/internal/repos"
	"github.com/coursewagon/coursewagon-backend/internal/server"
	"github.com/coursewagon/coursewagon-backend/internal/services"
	"github.com/coursewagon/coursewagon-backend/internal/storage"
	"github.com/coursewagon/coursewagon-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := os.Getenv("JWT_SECRET_KEY")
	if jwtSecretKey == "" {
		log.Error("JWT_SECRET_KEY is required")
		os.Exit(1)
	}
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	authLimit := utils.GetEnv("AUTH_RATE_LIMIT", "20/minute", log)
	generationLimit := utils.GetEnv("GENERATION_RATE_LIMIT", "30/hour", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	authTokenRepo := repos.NewAuthTokenRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)
	subjectRepo := repos.NewSubjectRepo(thePG, log)
	chapterRepo := repos.NewChapterRepo(thePG, log)
	topicRepo := repos.NewTopicRepo(thePG, log)
	contentRepo := repos.NewContentRepo(thePG, log)
	enrollmentRepo := repos.NewEnrollmentRepo(thePG, log)
	progressRepo := repos.NewLearningProgressRepo(thePG, log)
	testimonialRepo := repos.NewTestimonialRepo(thePG, log)
	reviewRepo := repos.NewReviewRepo(thePG, log)
	mediaRepo := repos.NewMediaRepo(thePG, log)

	// Cache
	appCache := cache.New(log)

	// Storage
	storageService, err := storage.New(log)
	if err != nil {
		log.Error("Could not init storage", "error", err)
		os.Exit(1)
	}

	// LLM + agents; generation degrades to errors when no key is configured.
	var curriculum services.CurriculumGenerator
	var pipeline services.ContentGenerator
	llmClient, err := llm.NewGeminiClient(log)
	if err != nil {
		log.Warn("Gemini client unavailable, generation endpoints disabled", "error", err)
	} else {
		curriculum = agents.NewCurriculumAgents(log, llmClient)
		pipeline = agents.NewContentPipeline(log, llmClient)
	}

	// Mailer
	var appMailer mailer.Mailer
	if m, err := mailer.New(log); err != nil {
		log.Warn("Mailer unavailable, transactional mail disabled", "error", err)
	} else {
		appMailer = m
		appMailer.Start(context.Background())
		defer appMailer.Stop()
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, authTokenRepo, appMailer, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(log, userRepo)
	courseService := services.NewCourseService(thePG, log, courseRepo, subjectRepo, curriculum, appCache)
	subjectService := services.NewSubjectService(thePG, log, courseRepo, subjectRepo, chapterRepo, curriculum, appCache)
	chapterService := services.NewChapterService(thePG, log, courseRepo, subjectRepo, chapterRepo, topicRepo, curriculum, appCache)
	topicService := services.NewTopicService(thePG, log, courseRepo, subjectRepo, chapterRepo, topicRepo, contentRepo, pipeline, appCache)
	enrollmentService := services.NewEnrollmentService(thePG, log, courseRepo, topicRepo, enrollmentRepo, progressRepo)
	testimonialService := services.NewTestimonialService(thePG, log, testimonialRepo, courseRepo)
	reviewService := services.NewReviewService(thePG, log, reviewRepo, courseRepo)
	mediaService := services.NewMediaService(log, mediaRepo, storageService)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	courseHandler := handlers.NewCourseHandler(courseService)
	subjectHandler := handlers.NewSubjectHandler(subjectService)
	chapterHandler := handlers.NewChapterHandler(chapterService)
	topicHandler := handlers.NewTopicHandler(topicService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	testimonialHandler := handlers.NewTestimonialHandler(testimonialService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	healthcheckHandler := handlers.NewHealthcheckHandler(thePG, appCache)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	authLimiter, err := middleware.NewRateLimiter(log, authLimit)
	if err != nil {
		log.Error("Bad AUTH_RATE_LIMIT", "error", err)
		os.Exit(1)
	}
	generationLimiter, err := middleware.NewRateLimiter(log, generationLimit)
	if err != nil {
		log.Error("Bad GENERATION_RATE_LIMIT", "error", err)
		os.Exit(1)
	}

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if raw := utils.GetEnv("ALLOWED_ORIGINS", "", log); raw != "" {
		origins = strings.Split(raw, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		CourseHandler:      courseHandler,
		SubjectHandler:     subjectHandler,
		ChapterHandler:     chapterHandler,
		TopicHandler:       topicHandler,
		EnrollmentHandler:  enrollmentHandler,
		TestimonialHandler: testimonialHandler,
		ReviewHandler:      reviewHandler,
		MediaHandler:       mediaHandler,
		HealthcheckHandler: healthcheckHandler,
		AuthMiddleware:     authMiddleware,
		AuthLimiter:        authLimiter,
		GenerationLimiter:  generationLimiter,
		AllowedOrigins:     origins,
		LocalMediaDir:      os.Getenv("LOCAL_MEDIA_DIR"),
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
