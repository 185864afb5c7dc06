package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"planassist/internal/handler"
	"planassist/internal/repository"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	projectHandler *handler.ProjectHandler,
	taskHandler *handler.TaskHandler,
	assistantHandler *handler.AssistantHandler,
	users *repository.UserRepository,
	jwtSecret string,
	db *pgxpool.Pool,
	logger *zap.Logger,
) *Router {
	r := gin.Default()

	r.Use(TraceMiddleware())
	r.Use(RequestLogMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret, users))
	{
		auth.GET("/users/profile", userHandler.Profile)

		auth.GET("/projects", projectHandler.ListProjects)
		auth.GET("/project_detail", projectHandler.ProjectDetail)
		auth.PUT("/project_detail", projectHandler.UpdateProject)
		auth.GET("/milestone_detail", projectHandler.MilestoneDetail)
		auth.PUT("/milestone_detail", projectHandler.UpdateMilestone)
		auth.DELETE("/project", projectHandler.DeleteProject)

		auth.POST("/task", taskHandler.CreateTask)
		auth.PUT("/task", taskHandler.UpdateTask)
		auth.DELETE("/task", taskHandler.DeleteTask)

		auth.POST("/assistant/project_draft", assistantHandler.ProjectDraft)
		auth.POST("/assistant/replan", assistantHandler.Replan)
		auth.POST("/assistant/newProject", assistantHandler.NewProject)
		auth.GET("/assistant/initProjectId", assistantHandler.InitProjectID)
		auth.GET("/assistant/history", assistantHandler.History)
		auth.DELETE("/assistant/history", assistantHandler.ResetHistory)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
