package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamwork/internal/authz"
	"teamwork/internal/cache"
	"teamwork/internal/config"
	"teamwork/internal/database"
	"teamwork/internal/handler"
	"teamwork/internal/middleware"
	"teamwork/internal/queue"
	"teamwork/internal/realtime"
	"teamwork/internal/repository"
	"teamwork/internal/router"
	"teamwork/internal/service"
	"teamwork/internal/storage"
	"teamwork/internal/validator"
	"teamwork/pkg/auth"
	"teamwork/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title           Teamwork API
// @version         1.0
// @description     Team collaboration API with role-based team authorization, channels, projects and tasks.

// @contact.name    API Support
// @contact.email   support@example.com

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter your bearer token in the format: Bearer {token}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.Init(cfg.LogLevel)
	log.Info("configuration loaded", "port", cfg.ServerPort, "gin_mode", cfg.GinMode)

	if err := validator.RegisterCustomValidators(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	mongoDB, err := database.NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer mongoDB.Close()

	if _, err := database.EnsureIndexes(ctx, mongoDB.Database); err != nil {
		return err
	}

	// Redis cache
	redisCache, err := cache.NewRedis(ctx, cfg.RedisURI)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	// S3 storage
	s3Client, err := storage.NewS3Client(ctx, storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		return err
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics, err := middleware.NewMetrics(registry)
	if err != nil {
		return err
	}

	jwtManager := auth.NewJWTManager(cfg.AccessTokenSecret, cfg.AccessTokenExpiry)

	// Repository layer
	db := mongoDB.Database
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	memberRepo := repository.NewTeamMemberRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	phaseRepo := repository.NewPhaseRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tx := repository.NewTransactor(db)

	// Authorization
	guard := authz.NewGuard(memberRepo, teamRepo)
	if err := guard.RegisterMetrics(registry); err != nil {
		return err
	}
	enforcer := authz.NewEnforcer(memberRepo)

	// Notifications and realtime
	notificationQueue := queue.NewMemoryQueue(cfg.NotificationQueueSize)
	if err := queue.RegisterMetrics(registry, notificationQueue); err != nil {
		return err
	}
	dispatcher := queue.NewDispatcher(notificationQueue)
	processor := queue.NewProcessor(notificationQueue, notificationRepo, cfg.NotificationWorkers)
	hub := realtime.NewHub()
	defer hub.Close()
	scheduler := queue.NewScheduler(queue.SchedulerConfig{
		Messages:        messageRepo,
		Publisher:       hub,
		Interval:        cfg.SchedulerInterval,
		Tasks:           taskRepo,
		Notifier:        dispatcher,
		DueSoonInterval: cfg.DueSoonInterval,
		DueSoonWindow:   cfg.DueSoonWindow,
	})

	// Service layer
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:        userRepo,
		TokenStore:      cache.NewRefreshTokenStore(redisCache),
		JWTManager:      jwtManager,
		TokenGenerator:  auth.NewRefreshTokenGenerator(),
		RefreshTokenTTL: cfg.RefreshTokenExpiry,
	})
	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo:         userRepo,
		MemberRepo:       memberRepo,
		TaskRepo:         taskRepo,
		NotificationRepo: notificationRepo,
		Transactor:       tx,
		Guard:            guard,
		Cache:            redisCache,
		Streams:          hub,
	})
	teamService := service.NewTeamService(service.TeamServiceConfig{
		TeamRepo:    teamRepo,
		MemberRepo:  memberRepo,
		UserRepo:    userRepo,
		ChannelRepo: channelRepo,
		MessageRepo: messageRepo,
		ProjectRepo: projectRepo,
		PhaseRepo:   phaseRepo,
		TaskRepo:    taskRepo,
		Transactor:  tx,
		Streams:     hub,
	})
	teamMemberService := service.NewTeamMemberService(service.TeamMemberServiceConfig{
		MemberRepo: memberRepo,
		UserRepo:   userRepo,
		TeamRepo:   teamRepo,
		TaskRepo:   taskRepo,
		Transactor: tx,
		Guard:      guard,
		Enforcer:   enforcer,
		Notifier:   dispatcher,
		Streams:    hub,
	})
	channelService := service.NewChannelService(channelRepo, messageRepo, tx, hub)
	messageService := service.NewMessageService(service.MessageServiceConfig{
		MessageRepo: messageRepo,
		ChannelRepo: channelRepo,
		MemberRepo:  memberRepo,
		Guard:       guard,
		Storage:     s3Client,
		Publisher:   hub,
		Notifier:    dispatcher,
	})
	notificationService := service.NewNotificationService(notificationRepo, guard)
	projectService := service.NewProjectService(projectRepo, phaseRepo, taskRepo, memberRepo, tx, dispatcher)
	taskService := service.NewTaskService(service.TaskServiceConfig{
		TaskRepo:    taskRepo,
		ProjectRepo: projectRepo,
		PhaseRepo:   phaseRepo,
		MemberRepo:  memberRepo,
		Transactor:  tx,
		Guard:       guard,
		Notifier:    dispatcher,
	})

	// Router
	r := router.Setup(&router.Config{
		AuthHandler:         handler.NewAuthHandler(authService),
		UserHandler:         handler.NewUserHandler(userService),
		TeamHandler:         handler.NewTeamHandler(teamService),
		TeamMemberHandler:   handler.NewTeamMemberHandler(teamMemberService),
		ChannelHandler:      handler.NewChannelHandler(channelService),
		MessageHandler:      handler.NewMessageHandler(messageService, channelService, hub, log),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		ProjectHandler:      handler.NewProjectHandler(projectService),
		TaskHandler:         handler.NewTaskHandler(taskService),
		TokenManager:        jwtManager,
		Authorizer:          guard,
		RateLimiter:         cache.NewRateLimiter(redisCache),
		RateLimitPerMinute:  cfg.RateLimitPerMinute,
		Metrics:             httpMetrics,
		Gatherer:            registry,
		Logger:              log,
	})

	processor.Start(ctx)
	scheduler.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Drain HTTP first so no handler enqueues after the workers stop.
	log.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", "error", err)
	}

	scheduler.Stop()
	processor.Stop()
	cancel()

	log.Info("server shutdown complete")
	return nil
}
