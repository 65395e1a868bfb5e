package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/studyloop/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Category *apiHandler.CategoryHandler
	Question *apiHandler.QuestionHandler
	Task     *apiHandler.TaskHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.GET("/api/v1/auth/me", authMiddleware(handlers.Auth.Me))
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/categories", authMiddleware(handlers.Category.List))
	r.POST("/api/v1/categories", authMiddleware(handlers.Category.Create))
	r.PUT("/api/v1/categories/{id}", authMiddleware(handlers.Category.Update))
	r.DELETE("/api/v1/categories/{id}", authMiddleware(handlers.Category.Delete))

	r.GET("/api/v1/questions", authMiddleware(handlers.Question.List))
	r.POST("/api/v1/questions", authMiddleware(handlers.Question.Create))
	r.GET("/api/v1/questions/{id}", authMiddleware(handlers.Question.Get))
	r.PUT("/api/v1/questions/{id}", authMiddleware(handlers.Question.Update))
	r.DELETE("/api/v1/questions/{id}", authMiddleware(handlers.Question.Delete))

	// Static segments registered before the {id} wildcard.
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetAll))
	r.GET("/api/v1/tasks/today", authMiddleware(handlers.Task.GetToday))
	r.GET("/api/v1/tasks/weekly", authMiddleware(handlers.Task.GetWeekly))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}/complete", authMiddleware(handlers.Task.Complete))

	return r
}
