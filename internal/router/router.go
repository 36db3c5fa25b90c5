// Package router sets up HTTP routes for the API.
package router

import (
	"log/slog"
	"net/http"
	"time"

	_ "teamwork/swagger" // Import generated swagger docs

	"teamwork/internal/authz"
	"teamwork/internal/cache"
	"teamwork/internal/handler"
	"teamwork/internal/middleware"
	"teamwork/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config holds all dependencies needed to set up routes.
type Config struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	TeamHandler         *handler.TeamHandler
	TeamMemberHandler   *handler.TeamMemberHandler
	ChannelHandler      *handler.ChannelHandler
	MessageHandler      *handler.MessageHandler
	NotificationHandler *handler.NotificationHandler
	ProjectHandler      *handler.ProjectHandler
	TaskHandler         *handler.TaskHandler
	TokenManager        auth.TokenManager
	Authorizer          authz.Authorizer
	// RateLimiter guards the public auth routes. Nil disables limiting.
	RateLimiter        cache.RateLimiter
	RateLimitPerMinute int
	Metrics            *middleware.Metrics
	// Gatherer backs /metrics. Nil hides the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

// Setup creates and configures the Gin router.
func Setup(cfg *Config) *gin.Engine {
	r := gin.New()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Handler())
	}
	r.Use(middleware.CORS())

	// Swagger docs at /docs
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.Auth(cfg.TokenManager)
	anyMember := middleware.TeamAuthz(cfg.Authorizer, authz.AnyMember)
	contributor := middleware.TeamAuthz(cfg.Authorizer, authz.AdminOrMember)
	adminOnly := middleware.TeamAuthz(cfg.Authorizer, authz.AdminOnly)

	// API v1
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		authRoutes := v1.Group("/auth")
		authRoutes.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimitPerMinute, time.Minute, cfg.Metrics))
		{
			authRoutes.POST("/register", cfg.AuthHandler.Register)
			authRoutes.POST("/login", cfg.AuthHandler.Login)
			authRoutes.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Auth routes (protected)
		authProtected := v1.Group("/auth")
		authProtected.Use(requireAuth)
		{
			authProtected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User routes (protected)
		users := v1.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", cfg.UserHandler.GetAllUsers)
			users.GET("/:id", cfg.UserHandler.GetUser)
			users.PUT("/:id", cfg.UserHandler.UpdateUser)
			users.DELETE("/:id", cfg.UserHandler.DeleteUser)
		}

		// Notification routes (protected, caller-scoped)
		notifications := v1.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", cfg.NotificationHandler.ListNotifications)
			notifications.PUT("/read-all", cfg.NotificationHandler.MarkAllRead)
			notifications.PUT("/:id/read", cfg.NotificationHandler.MarkRead)
			notifications.DELETE("/:id", cfg.NotificationHandler.DeleteNotification)
		}

		// Team routes (protected)
		teams := v1.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.POST("", cfg.TeamHandler.CreateTeam)
			teams.GET("", cfg.TeamHandler.ListTeams)

			teamWithID := teams.Group("/:teamId")
			{
				teamWithID.GET("", anyMember, cfg.TeamHandler.GetTeam)
				teamWithID.PUT("", adminOnly, cfg.TeamHandler.UpdateTeam)
				teamWithID.DELETE("", adminOnly, cfg.TeamHandler.DeleteTeam)

				// Team members. Removal is open to any member so members can
				// remove themselves; the service rejects everything else.
				members := teamWithID.Group("/members")
				{
					members.GET("", anyMember, cfg.TeamMemberHandler.ListMembers)
					members.POST("", adminOnly, cfg.TeamMemberHandler.AddMember)
					members.PUT("/:userId/role", adminOnly, cfg.TeamMemberHandler.UpdateRole)
					members.DELETE("/:userId", anyMember, cfg.TeamMemberHandler.RemoveMember)
				}
				teamWithID.POST("/leave", middleware.TeamMember(cfg.Authorizer), cfg.TeamMemberHandler.LeaveTeam)

				// Channels and their messages
				channels := teamWithID.Group("/channels")
				{
					channels.POST("", anyMember, cfg.ChannelHandler.CreateChannel)
					channels.GET("", anyMember, cfg.ChannelHandler.ListChannels)
					channels.GET("/:channelId", anyMember, cfg.ChannelHandler.GetChannel)
					channels.PUT("/:channelId", adminOnly, cfg.ChannelHandler.UpdateChannel)
					channels.DELETE("/:channelId", adminOnly, cfg.ChannelHandler.DeleteChannel)

					channels.GET("/:channelId/stream", anyMember, cfg.MessageHandler.Stream)

					messages := channels.Group("/:channelId/messages", anyMember)
					{
						messages.POST("", cfg.MessageHandler.CreateMessage)
						messages.GET("", cfg.MessageHandler.ListMessages)
						messages.GET("/:messageId", cfg.MessageHandler.GetMessage)
						messages.PUT("/:messageId", cfg.MessageHandler.UpdateMessage)
						messages.DELETE("/:messageId", cfg.MessageHandler.DeleteMessage)
					}
				}

				// Projects and tasks
				projects := teamWithID.Group("/projects")
				{
					projects.POST("", contributor, cfg.ProjectHandler.CreateProject)
					projects.GET("", anyMember, cfg.ProjectHandler.ListProjects)
					projects.GET("/:projectId", anyMember, cfg.ProjectHandler.GetProject)
					projects.PUT("/:projectId", contributor, cfg.ProjectHandler.UpdateProject)
					projects.DELETE("/:projectId", adminOnly, cfg.ProjectHandler.DeleteProject)

					projects.GET("/:projectId/phases", anyMember, cfg.ProjectHandler.ListPhases)
					projects.POST("/:projectId/phases", contributor, cfg.ProjectHandler.CreatePhase)
					projects.GET("/:projectId/phases/:phaseId", anyMember, cfg.ProjectHandler.GetPhase)
					projects.PUT("/:projectId/phases/:phaseId", contributor, cfg.ProjectHandler.UpdatePhase)
					projects.DELETE("/:projectId/phases/:phaseId", contributor, cfg.ProjectHandler.DeletePhase)

					projects.POST("/:projectId/tasks", contributor, cfg.TaskHandler.CreateTask)
					projects.GET("/:projectId/tasks", anyMember, cfg.TaskHandler.ListTasks)
				}

				// Task deletion is decided by ownership in the service.
				tasks := teamWithID.Group("/tasks")
				{
					tasks.GET("/:taskId", anyMember, cfg.TaskHandler.GetTask)
					tasks.PUT("/:taskId", contributor, cfg.TaskHandler.UpdateTask)
					tasks.DELETE("/:taskId", anyMember, cfg.TaskHandler.DeleteTask)
				}
			}
		}
	}

	return r
}
