package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/coursewagon/coursewagon-backend/internal/handlers"
	"github.com/coursewagon/coursewagon-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	CourseHandler      *handlers.CourseHandler
	SubjectHandler     *handlers.SubjectHandler
	ChapterHandler     *handlers.ChapterHandler
	TopicHandler       *handlers.TopicHandler
	EnrollmentHandler  *handlers.EnrollmentHandler
	TestimonialHandler *handlers.TestimonialHandler
	ReviewHandler      *handlers.ReviewHandler
	MediaHandler       *handlers.MediaHandler
	HealthcheckHandler *handlers.HealthcheckHandler

	AuthMiddleware *middleware.AuthMiddleware
	// AuthLimiter throttles credential endpoints; GenerationLimiter throttles
	// the LLM-backed ones. Either may be nil to disable.
	AuthLimiter       *middleware.RateLimiter
	GenerationLimiter *middleware.RateLimiter

	AllowedOrigins []string
	// LocalMediaDir, when set, is served read-only under /media for the local
	// storage backend.
	LocalMediaDir string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	registerValidators()
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:4200"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	limited := func(rl *middleware.RateLimiter) gin.HandlerFunc {
		if rl == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return rl.Middleware()
	}

	if dir := strings.TrimSpace(cfg.LocalMediaDir); dir != "" {
		router.Static("/media", dir)
	}

	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)

	api := router.Group("/api")

	// Public
	auth := api.Group("/auth")
	auth.Use(limited(cfg.AuthLimiter))
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/google", cfg.AuthHandler.Google)
		auth.POST("/refresh", cfg.AuthHandler.Refresh)
		auth.POST("/forgot-password", cfg.AuthHandler.ForgotPassword)
		auth.POST("/reset-password", cfg.AuthHandler.ResetPassword)
		auth.POST("/verify-email", cfg.AuthHandler.VerifyEmail)
	}
	api.GET("/courses", cfg.CourseHandler.ListPublished)
	api.GET("/courses/:course_id", cfg.CourseHandler.Get)
	api.GET("/courses/:course_id/subjects", cfg.SubjectHandler.ListByCourse)
	api.GET("/subjects/:subject_id/chapters", cfg.ChapterHandler.ListBySubject)
	api.GET("/chapters/:chapter_id/topics", cfg.TopicHandler.ListByChapter)
	api.GET("/topics/:topic_id/content", cfg.TopicHandler.GetContent)
	api.GET("/testimonials", cfg.TestimonialHandler.List)
	api.GET("/courses/:course_id/reviews", cfg.ReviewHandler.ListByCourse)
	api.GET("/media", cfg.MediaHandler.ListByEntity)

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)

		protected.GET("/profile", cfg.UserHandler.GetProfile)
		protected.PUT("/profile", cfg.UserHandler.UpdateProfile)
		protected.PUT("/profile/password", cfg.UserHandler.ChangePassword)

		protected.GET("/my-courses", cfg.CourseHandler.ListMine)
		protected.POST("/courses", cfg.CourseHandler.Create)
		protected.PUT("/courses/:course_id", cfg.CourseHandler.Update)
		protected.DELETE("/courses/:course_id", cfg.CourseHandler.Delete)

		protected.PUT("/subjects/:subject_id", cfg.SubjectHandler.Update)
		protected.DELETE("/subjects/:subject_id", cfg.SubjectHandler.Delete)
		protected.PUT("/chapters/:chapter_id", cfg.ChapterHandler.Update)
		protected.DELETE("/chapters/:chapter_id", cfg.ChapterHandler.Delete)
		protected.PUT("/topics/:topic_id", cfg.TopicHandler.Update)
		protected.DELETE("/topics/:topic_id", cfg.TopicHandler.Delete)
		protected.DELETE("/topics/:topic_id/content", cfg.TopicHandler.DeleteContent)

		protected.POST("/enrollments/:course_id", cfg.EnrollmentHandler.Enroll)
		protected.DELETE("/enrollments/:course_id", cfg.EnrollmentHandler.Drop)
		protected.GET("/enrollments", cfg.EnrollmentHandler.ListMine)
		protected.GET("/enrollments/:course_id/progress", cfg.EnrollmentHandler.Progress)
		protected.POST("/enrollments/:course_id/topics/:topic_id/complete", cfg.EnrollmentHandler.CompleteTopic)
		protected.POST("/enrollments/:course_id/topics/:topic_id/time", cfg.EnrollmentHandler.LogTime)

		protected.POST("/testimonials", cfg.TestimonialHandler.Create)
		protected.GET("/my-testimonial", cfg.TestimonialHandler.GetMine)
		protected.PUT("/testimonials/:testimonial_id", cfg.TestimonialHandler.Update)
		protected.DELETE("/testimonials/:testimonial_id", cfg.TestimonialHandler.Delete)

		protected.POST("/courses/:course_id/reviews", cfg.ReviewHandler.Create)
		protected.PUT("/reviews/:review_id", cfg.ReviewHandler.Update)
		protected.DELETE("/reviews/:review_id", cfg.ReviewHandler.Delete)

		protected.POST("/images", cfg.MediaHandler.Upload)
		protected.DELETE("/images/:media_id", cfg.MediaHandler.Delete)
	}

	// Generation endpoints carry their own throttle on top of auth.
	generate := api.Group("/")
	generate.Use(cfg.AuthMiddleware.RequireAuth(), limited(cfg.GenerationLimiter))
	{
		// Lives outside /courses so the static segment cannot collide with the
		// :course_id wildcard in gin's route tree.
		generate.POST("/generate-course", cfg.CourseHandler.CreateFromPrompt)
		generate.POST("/courses/:course_id/generate-subjects", cfg.CourseHandler.GenerateSubjects)
		generate.POST("/subjects/:subject_id/generate-chapters", cfg.SubjectHandler.GenerateChapters)
		generate.POST("/chapters/:chapter_id/generate-topics", cfg.ChapterHandler.GenerateTopics)
		generate.POST("/topics/:topic_id/generate-content", cfg.TopicHandler.GenerateContent)
	}

	return router
}
