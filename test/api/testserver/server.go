//go:build api

// Package testserver provides a fully wired test server for API integration tests.
package testserver

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"teamwork/internal/authz"
	"teamwork/internal/cache"
	"teamwork/internal/database"
	"teamwork/internal/handler"
	"teamwork/internal/middleware"
	"teamwork/internal/queue"
	"teamwork/internal/realtime"
	"teamwork/internal/repository"
	"teamwork/internal/router"
	"teamwork/internal/service"
	"teamwork/internal/storage"
	"teamwork/pkg/auth"
	"teamwork/test/api/testdb"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	// TestAccessTokenSecret is the JWT secret used in tests.
	TestAccessTokenSecret = "test-secret-key-for-api-tests"
	// TestAccessTokenExpiry is the access token expiry time used in tests.
	TestAccessTokenExpiry = 15 * time.Minute
	// TestRefreshTokenExpiry is the refresh token expiry time used in tests.
	TestRefreshTokenExpiry = 7 * 24 * time.Hour
	// TestDBName is the database name used in tests.
	TestDBName = "test_api"
	// TestRateLimitPerMinute keeps the auth limiter out of the way of
	// ordinary tests; Redis is flushed between tests.
	TestRateLimitPerMinute = 1000
)

// TestServer holds all dependencies for API integration tests.
type TestServer struct {
	// Router is the Gin engine for making HTTP requests.
	Router *gin.Engine

	// Containers
	MongoDB *testdb.MongoContainer
	Redis   *testdb.RedisContainer
	MinIO   *testdb.MinIOContainer

	// Repositories (for direct database access in tests)
	UserRepo         repository.UserRepository
	TeamRepo         repository.TeamRepository
	TeamMemberRepo   repository.TeamMemberRepository
	ChannelRepo      repository.ChannelRepository
	MessageRepo      repository.MessageRepository
	NotificationRepo repository.NotificationRepository
	ProjectRepo      repository.ProjectRepository
	TaskRepo         repository.TaskRepository

	// Services (for direct service access in tests)
	TeamMemberService service.TeamMemberServicer

	// Auth
	JWTManager *auth.JWTManager

	// Background workers
	NotificationQueue *queue.MemoryQueue
	Processor         *queue.Processor
	Scheduler         *queue.Scheduler
	Hub               *realtime.Hub

	Registry *prometheus.Registry

	cancel context.CancelFunc
}

// New creates a new test server with all dependencies wired up.
func New(ctx context.Context) (*TestServer, error) {
	gin.SetMode(gin.TestMode)

	// Start containers
	mongoDB, err := testdb.SetupMongoDB(ctx, TestDBName)
	if err != nil {
		return nil, err
	}

	redisContainer, err := testdb.SetupRedis(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		return nil, err
	}

	minioContainer, err := testdb.SetupMinIO(ctx)
	if err != nil {
		_ = mongoDB.Cleanup(ctx)
		_ = redisContainer.Cleanup(ctx)
		return nil, err
	}

	fail := func(err error) (*TestServer, error) {
		_ = minioContainer.Cleanup(ctx)
		_ = redisContainer.Cleanup(ctx)
		_ = mongoDB.Cleanup(ctx)
		return nil, err
	}

	db := mongoDB.Database
	if _, err := database.EnsureIndexes(ctx, db); err != nil {
		return fail(err)
	}

	// Create cache (uses real Redis)
	redisCache := cache.NewRedisFromClient(redisContainer.Client)

	// Create storage (uses real MinIO)
	s3Client, err := storage.NewS3Client(ctx, storage.S3Config{
		Endpoint:  minioContainer.Endpoint,
		AccessKey: testdb.MinIOAccessKey,
		SecretKey: testdb.MinIOSecretKey,
		Bucket:    minioContainer.Bucket,
	})
	if err != nil {
		return fail(err)
	}

	registry := prometheus.NewRegistry()
	httpMetrics, err := middleware.NewMetrics(registry)
	if err != nil {
		return fail(err)
	}

	jwtManager := auth.NewJWTManager(TestAccessTokenSecret, TestAccessTokenExpiry)

	// Repository layer
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
		return fail(err)
	}
	enforcer := authz.NewEnforcer(memberRepo)

	// Notifications and realtime
	notificationQueue := queue.NewMemoryQueue(100)
	if err := queue.RegisterMetrics(registry, notificationQueue); err != nil {
		return fail(err)
	}
	dispatcher := queue.NewDispatcher(notificationQueue)
	processor := queue.NewProcessor(notificationQueue, notificationRepo, 2)
	hub := realtime.NewHub()
	scheduler := queue.NewScheduler(queue.SchedulerConfig{
		Messages:        messageRepo,
		Publisher:       hub,
		Interval:        time.Hour,
		Tasks:           taskRepo,
		Notifier:        dispatcher,
		DueSoonInterval: time.Hour,
	})

	// Service layer
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:        userRepo,
		TokenStore:      cache.NewRefreshTokenStore(redisCache),
		JWTManager:      jwtManager,
		TokenGenerator:  auth.NewRefreshTokenGenerator(),
		RefreshTokenTTL: TestRefreshTokenExpiry,
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
		MessageHandler:      handler.NewMessageHandler(messageService, channelService, hub, slog.Default()),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		ProjectHandler:      handler.NewProjectHandler(projectService),
		TaskHandler:         handler.NewTaskHandler(taskService),
		TokenManager:        jwtManager,
		Authorizer:          guard,
		RateLimiter:         cache.NewRateLimiter(redisCache),
		RateLimitPerMinute:  TestRateLimitPerMinute,
		Metrics:             httpMetrics,
		Gatherer:            registry,
	})

	workerCtx, cancel := context.WithCancel(context.Background())
	processor.Start(workerCtx)

	return &TestServer{
		Router:            r,
		MongoDB:           mongoDB,
		Redis:             redisContainer,
		MinIO:             minioContainer,
		UserRepo:          userRepo,
		TeamRepo:          teamRepo,
		TeamMemberRepo:    memberRepo,
		ChannelRepo:       channelRepo,
		MessageRepo:       messageRepo,
		NotificationRepo:  notificationRepo,
		ProjectRepo:       projectRepo,
		TaskRepo:          taskRepo,
		TeamMemberService: teamMemberService,
		JWTManager:        jwtManager,
		NotificationQueue: notificationQueue,
		Processor:         processor,
		Scheduler:         scheduler,
		Hub:               hub,
		Registry:          registry,
		cancel:            cancel,
	}, nil
}

// Cleanup stops the workers and terminates all containers.
func (ts *TestServer) Cleanup(ctx context.Context) {
	ts.Processor.Stop()
	ts.Hub.Close()
	ts.cancel()

	if ts.MinIO != nil {
		_ = ts.MinIO.Cleanup(ctx)
	}
	if ts.Redis != nil {
		_ = ts.Redis.Cleanup(ctx)
	}
	if ts.MongoDB != nil {
		_ = ts.MongoDB.Cleanup(ctx)
	}
}

// CleanupBetweenTests empties every store so each test starts fresh.
// Flushing Redis also resets the auth rate limiter windows.
func (ts *TestServer) CleanupBetweenTests(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, ts.MongoDB.CleanupCollections(ctx), "failed to cleanup MongoDB collections")
	require.NoError(t, ts.Redis.FlushDB(ctx), "failed to flush Redis")
	require.NoError(t, ts.MinIO.ClearBucket(ctx), "failed to clear MinIO bucket")
}

// ReleaseScheduled delivers every pending message that is due. Tests call it
// instead of waiting for the scheduler's ticker.
func (ts *TestServer) ReleaseScheduled(ctx context.Context) (int, error) {
	return ts.Scheduler.ReleaseDue(ctx)
}

// NotifyDueSoon runs one due-soon sweep.
func (ts *TestServer) NotifyDueSoon(ctx context.Context) (int, error) {
	return ts.Scheduler.NotifyDueSoon(ctx)
}
