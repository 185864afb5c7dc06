package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"planassist/internal/config"
	"planassist/internal/gemini"
	"planassist/internal/handler"
	"planassist/internal/httpserver"
	"planassist/internal/repository"
	"planassist/internal/service"
	"planassist/pkg/db"
	"planassist/pkg/logger"
	"planassist/pkg/mq"
	"planassist/pkg/redis"
)

func main() {
	// 1. Load config
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.NewLogger()
	defer log.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init Redis (optional cache; a failure here is not fatal)
	cache := redis.NewClient(cfg.Redis)

	// 4. Init RabbitMQ publisher for audit events
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Warn("MQ initialization failed, events disabled", zap.Error(err))
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// 5. Init Gemini client
	ctx := context.Background()
	geminiClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Fatal("Gemini initialization failed", zap.Error(err))
	}
	defer geminiClient.Close()

	// 6. Init repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	milestoneRepo := repository.NewMilestoneRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)
	chatRepo := repository.NewChatRepository(dbConn, log)
	fileRepo := repository.NewFileRepository(dbConn, log)

	// 7. Init scheduling pipeline
	scheduler := gemini.NewScheduler(geminiClient, log)
	retriever := gemini.NewRetriever(geminiClient)
	drafts := gemini.NewDraftGenerator(geminiClient, retriever, log)

	// 8. Init services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret)
	projectService := service.NewProjectService(projectRepo, milestoneRepo, taskRepo, cache, log)
	replanService := service.NewReplanService(projectRepo, milestoneRepo, taskRepo, scheduler, publisher, log)
	assistantService := service.NewAssistantService(drafts, geminiClient, replanService, projectRepo, chatRepo, fileRepo, log)

	// 9. Init handlers
	authHandler := handler.NewAuthHandler(authService, log)
	userHandler := handler.NewUserHandler(log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	taskHandler := handler.NewTaskHandler(replanService, projectService, log)
	assistantHandler := handler.NewAssistantHandler(assistantService, projectService, log)

	// 10. Run server
	router := httpserver.NewRouter(
		authHandler,
		userHandler,
		projectHandler,
		taskHandler,
		assistantHandler,
		userRepo,
		cfg.JWT.Secret,
		dbConn,
		log,
	)
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
