package routes

import (
	"log"

	"korsify/backend/config"
	"korsify/backend/controllers"
	"korsify/backend/middleware"
	"korsify/backend/services"
	"korsify/backend/store"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, s *store.Store, cfg *config.Config, logger *log.Logger) {
	// Auth routes
	authController := controllers.NewAuthController(s, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/google", authController.GoogleAuth)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	creatorMiddleware := middleware.RoleMiddleware(cfg, s, "creator")

	// User routes
	userController := controllers.NewUserController(s, cfg)
	app.Get("/api/users/me", authMiddleware, userController.GetProfile)
	app.Put("/api/users/me", authMiddleware, userController.UpdateProfile)
	app.Put("/api/users/me/role", authMiddleware, userController.SelectRole)
	app.Put("/api/users/me/password", authMiddleware, userController.ChangePassword)
	app.Get("/api/users/me/subscription", authMiddleware, userController.GetSubscription)

	// Document routes
	documentsController := controllers.NewDocumentsController(s, cfg)
	documents := app.Group("/api/documents", authMiddleware)
	documents.Post("/", documentsController.Upload)
	documents.Get("/", documentsController.List)
	documents.Get("/:id", documentsController.Get)

	// Courses routes
	coursesController := controllers.NewCoursesController(s, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.Catalog)
	courses.Get("/mine", coursesController.MyCourses)
	courses.Get("/:id", coursesController.Details)
	courses.Post("/", creatorMiddleware, coursesController.Create)
	courses.Put("/:id", creatorMiddleware, coursesController.Update)
	courses.Delete("/:id", creatorMiddleware, coursesController.Delete)
	courses.Post("/:id/publish", creatorMiddleware, coursesController.Publish)
	courses.Post("/:id/unpublish", creatorMiddleware, coursesController.Unpublish)
	courses.Get("/:id/statistics", creatorMiddleware, coursesController.Statistics)
	courses.Get("/:id/documents", creatorMiddleware, coursesController.Documents)
	courses.Post("/:id/documents", creatorMiddleware, coursesController.AttachDocuments)
	courses.Delete("/:id/documents/:documentId", creatorMiddleware, coursesController.DetachDocument)

	// Content authoring routes
	contentController := controllers.NewContentController(s, cfg)
	courses.Post("/:id/modules", creatorMiddleware, contentController.CreateModule)
	courses.Get("/:id/modules", contentController.ListModules)

	courseModules := app.Group("/api/modules", authMiddleware)
	courseModules.Put("/:id", creatorMiddleware, contentController.UpdateModule)
	courseModules.Delete("/:id", creatorMiddleware, contentController.DeleteModule)
	courseModules.Post("/:id/lessons", creatorMiddleware, contentController.CreateLesson)
	courseModules.Post("/:id/quizzes", creatorMiddleware, contentController.CreateQuiz)
	courseModules.Get("/:id/quizzes", contentController.GetModuleQuizzes)

	lessons := app.Group("/api/lessons", authMiddleware)
	lessons.Get("/:id", contentController.GetLesson)
	lessons.Put("/:id", creatorMiddleware, contentController.UpdateLesson)
	lessons.Delete("/:id", creatorMiddleware, contentController.DeleteLesson)

	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Get("/:id", contentController.GetQuiz)
	quizzes.Put("/:id", creatorMiddleware, contentController.UpdateQuiz)
	quizzes.Delete("/:id", creatorMiddleware, contentController.DeleteQuiz)

	// Course template routes
	templatesController := controllers.NewTemplatesController(s, cfg)
	templates := app.Group("/api/templates", authMiddleware)
	templates.Get("/", templatesController.List)
	templates.Get("/:id", templatesController.Get)
	templates.Post("/", creatorMiddleware, templatesController.Create)
	templates.Put("/:id", creatorMiddleware, templatesController.Update)
	templates.Delete("/:id", creatorMiddleware, templatesController.Delete)

	// Learning routes
	learningController := controllers.NewLearningController(s, cfg)
	courses.Post("/:id/enroll", learningController.Enroll)
	courses.Delete("/:id/enroll", learningController.Unenroll)
	app.Get("/api/learning/courses", authMiddleware, learningController.MyLearning)
	app.Get("/api/learning/metrics", authMiddleware, learningController.Metrics)
	app.Get("/api/learning/activity/today", authMiddleware, learningController.TodayActivity)
	lessons.Post("/:id/progress", learningController.UpdateLessonProgress)
	quizzes.Post("/:id/attempts", learningController.SubmitQuizAttempt)
	quizzes.Get("/:id/attempts", learningController.QuizAttempts)

	// Analytics routes
	analyticsController := controllers.NewAnalyticsController(s, cfg)
	analytics := app.Group("/api/analytics", authMiddleware)
	analytics.Get("/creator", creatorMiddleware, analyticsController.CreatorSummary)
	analytics.Get("/creator/courses", creatorMiddleware, analyticsController.DetailedCourses)
	analytics.Get("/creator/demographics", creatorMiddleware, analyticsController.Demographics)
	analytics.Get("/creator/engagement", creatorMiddleware, analyticsController.Engagement)
	analytics.Get("/creator/revenue", creatorMiddleware, analyticsController.Revenue)
	analytics.Get("/creator/activity", creatorMiddleware, analyticsController.RecentActivity)
	analytics.Get("/learner", analyticsController.LearnerSummary)

	// Generation routes
	ai := services.SelectAIService(cfg.AIProvider, cfg.GeminiAPIKey, cfg.KorsifyAPIKey, logger)
	generator := services.NewGenerator(s, ai, logger)
	generationController := controllers.NewGenerationController(s, cfg, generator)
	courses.Post("/:id/generate", creatorMiddleware, generationController.Generate)
	app.Get("/api/generation/jobs/:id", authMiddleware, generationController.JobStatus)
	documents.Put("/:id/content", generationController.ProcessDocument)
}
