// Package service contains business logic for the application.
package service

import (
	"context"

	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthServicer defines the interface for authentication operations.
type AuthServicer interface {
	Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, req *models.RefreshRequest) (*models.RefreshResponse, error)
	Logout(ctx context.Context, req *models.LogoutRequest) error
}

// UserServicer defines the interface for user operations.
type UserServicer interface {
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, actorID, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, id primitive.ObjectID) error
}

// TeamServicer defines the interface for team operations.
type TeamServicer interface {
	CreateTeam(ctx context.Context, userID primitive.ObjectID, req *models.CreateTeamRequest) (*models.Team, error)
	ListTeams(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.TeamListResponse, error)
	GetTeam(ctx context.Context, teamID primitive.ObjectID) (*models.TeamDetails, error)
	UpdateTeam(ctx context.Context, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error)
	DeleteTeam(ctx context.Context, teamID primitive.ObjectID) error
}

// TeamMemberServicer defines the interface for team member operations.
type TeamMemberServicer interface {
	ListMembers(ctx context.Context, teamID primitive.ObjectID) (*models.TeamMemberListResponse, error)
	AddMember(ctx context.Context, teamID, actorID primitive.ObjectID, req *models.AddMemberRequest) (*models.TeamMember, error)
	UpdateRole(ctx context.Context, teamID, targetUserID, actorID primitive.ObjectID, newRole string) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, targetUserID, actorID primitive.ObjectID) error
	LeaveTeam(ctx context.Context, teamID, userID primitive.ObjectID) error
}

// ChannelServicer defines the interface for channel operations.
type ChannelServicer interface {
	CreateChannel(ctx context.Context, teamID, userID primitive.ObjectID, req *models.CreateChannelRequest) (*models.Channel, error)
	ListChannels(ctx context.Context, teamID primitive.ObjectID) (*models.ChannelListResponse, error)
	GetChannel(ctx context.Context, teamID, channelID primitive.ObjectID) (*models.Channel, error)
	UpdateChannel(ctx context.Context, teamID, channelID primitive.ObjectID, req *models.UpdateChannelRequest) (*models.Channel, error)
	DeleteChannel(ctx context.Context, teamID, channelID primitive.ObjectID) error
}

// MessageServicer defines the interface for message operations.
type MessageServicer interface {
	CreateMessage(ctx context.Context, teamID, channelID, userID primitive.ObjectID, req *models.CreateMessageRequest) (*models.MessageResponse, error)
	ListMessages(ctx context.Context, teamID, channelID primitive.ObjectID, opts models.MessageListOptions) (*models.MessageListResponse, error)
	GetMessage(ctx context.Context, teamID, channelID, messageID primitive.ObjectID) (*models.MessageResponse, error)
	UpdateMessage(ctx context.Context, teamID, channelID, messageID, userID primitive.ObjectID, req *models.UpdateMessageRequest) (*models.Message, error)
	DeleteMessage(ctx context.Context, teamID, channelID, messageID, userID primitive.ObjectID) error
}

// NotificationServicer defines the interface for notification operations.
type NotificationServicer interface {
	ListNotifications(ctx context.Context, userID primitive.ObjectID, opts models.NotificationListOptions) (*models.NotificationListResponse, error)
	MarkRead(ctx context.Context, notificationID, userID primitive.ObjectID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteNotification(ctx context.Context, notificationID, userID primitive.ObjectID) error
}

// ProjectServicer defines the interface for project operations.
type ProjectServicer interface {
	CreateProject(ctx context.Context, teamID, userID primitive.ObjectID, req *models.CreateProjectRequest) (*models.Project, error)
	ListProjects(ctx context.Context, teamID primitive.ObjectID, params models.ProjectListParams) (*models.ProjectListResponse, error)
	GetProject(ctx context.Context, teamID, projectID primitive.ObjectID) (*models.Project, error)
	UpdateProject(ctx context.Context, teamID, projectID, userID primitive.ObjectID, req *models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, teamID, projectID primitive.ObjectID) error
	ListPhases(ctx context.Context, teamID, projectID primitive.ObjectID) (*models.PhaseListResponse, error)
	GetPhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) (*models.ProjectPhase, error)
	CreatePhase(ctx context.Context, teamID, projectID primitive.ObjectID, req *models.CreatePhaseRequest) (*models.ProjectPhase, error)
	UpdatePhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID, req *models.UpdatePhaseRequest) (*models.ProjectPhase, error)
	DeletePhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) error
}

// TaskServicer defines the interface for task operations.
type TaskServicer interface {
	CreateTask(ctx context.Context, teamID, projectID, userID primitive.ObjectID, req *models.CreateTaskRequest) (*models.Task, error)
	ListTasks(ctx context.Context, teamID, projectID primitive.ObjectID, params models.TaskListParams) (*models.TaskListResponse, error)
	GetTask(ctx context.Context, teamID, taskID primitive.ObjectID) (*models.TaskWithSubtasks, error)
	UpdateTask(ctx context.Context, teamID, taskID, userID primitive.ObjectID, req *models.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, teamID, taskID, userID primitive.ObjectID) error
}

// Ensure concrete types implement interfaces
var (
	_ AuthServicer         = (*AuthService)(nil)
	_ UserServicer         = (*UserService)(nil)
	_ TeamServicer         = (*TeamService)(nil)
	_ TeamMemberServicer   = (*TeamMemberService)(nil)
	_ ChannelServicer      = (*ChannelService)(nil)
	_ MessageServicer      = (*MessageService)(nil)
	_ NotificationServicer = (*NotificationService)(nil)
	_ ProjectServicer      = (*ProjectService)(nil)
	_ TaskServicer         = (*TaskService)(nil)
)
