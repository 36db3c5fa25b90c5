// Package mocks provides mock implementations of service interfaces for testing.
package mocks

import (
	"context"

	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockAuthService is a mock implementation of AuthServicer.
type MockAuthService struct {
	RegisterFunc func(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error)
	LoginFunc    func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	RefreshFunc  func(ctx context.Context, req *models.RefreshRequest) (*models.RefreshResponse, error)
	LogoutFunc   func(ctx context.Context, req *models.LogoutRequest) error
}

func (m *MockAuthService) Register(ctx context.Context, req *models.CreateUserRequest) (*models.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Refresh(ctx context.Context, req *models.RefreshRequest) (*models.RefreshResponse, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockAuthService) Logout(ctx context.Context, req *models.LogoutRequest) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, req)
	}
	return nil
}

// MockUserService is a mock implementation of UserServicer.
type MockUserService struct {
	GetUserFunc     func(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetAllUsersFunc func(ctx context.Context) ([]models.User, error)
	UpdateUserFunc  func(ctx context.Context, actorID, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUserFunc  func(ctx context.Context, actorID, id primitive.ObjectID) error
}

func (m *MockUserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	if m.GetAllUsersFunc != nil {
		return m.GetAllUsersFunc(ctx)
	}
	return nil, nil
}

func (m *MockUserService) UpdateUser(ctx context.Context, actorID, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(ctx, actorID, id, req)
	}
	return nil, nil
}

func (m *MockUserService) DeleteUser(ctx context.Context, actorID, id primitive.ObjectID) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, actorID, id)
	}
	return nil
}

// MockTeamService is a mock implementation of TeamServicer.
type MockTeamService struct {
	CreateTeamFunc func(ctx context.Context, userID primitive.ObjectID, req *models.CreateTeamRequest) (*models.Team, error)
	ListTeamsFunc  func(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.TeamListResponse, error)
	GetTeamFunc    func(ctx context.Context, teamID primitive.ObjectID) (*models.TeamDetails, error)
	UpdateTeamFunc func(ctx context.Context, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error)
	DeleteTeamFunc func(ctx context.Context, teamID primitive.ObjectID) error
}

func (m *MockTeamService) CreateTeam(ctx context.Context, userID primitive.ObjectID, req *models.CreateTeamRequest) (*models.Team, error) {
	if m.CreateTeamFunc != nil {
		return m.CreateTeamFunc(ctx, userID, req)
	}
	return nil, nil
}

func (m *MockTeamService) ListTeams(ctx context.Context, userID primitive.ObjectID, page, limit int) (*models.TeamListResponse, error) {
	if m.ListTeamsFunc != nil {
		return m.ListTeamsFunc(ctx, userID, page, limit)
	}
	return nil, nil
}

func (m *MockTeamService) GetTeam(ctx context.Context, teamID primitive.ObjectID) (*models.TeamDetails, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *MockTeamService) UpdateTeam(ctx context.Context, teamID primitive.ObjectID, req *models.UpdateTeamRequest) (*models.Team, error) {
	if m.UpdateTeamFunc != nil {
		return m.UpdateTeamFunc(ctx, teamID, req)
	}
	return nil, nil
}

func (m *MockTeamService) DeleteTeam(ctx context.Context, teamID primitive.ObjectID) error {
	if m.DeleteTeamFunc != nil {
		return m.DeleteTeamFunc(ctx, teamID)
	}
	return nil
}

// MockTeamMemberService is a mock implementation of TeamMemberServicer.
type MockTeamMemberService struct {
	ListMembersFunc  func(ctx context.Context, teamID primitive.ObjectID) (*models.TeamMemberListResponse, error)
	AddMemberFunc    func(ctx context.Context, teamID, actorID primitive.ObjectID, req *models.AddMemberRequest) (*models.TeamMember, error)
	UpdateRoleFunc   func(ctx context.Context, teamID, targetUserID, actorID primitive.ObjectID, newRole string) (*models.TeamMember, error)
	RemoveMemberFunc func(ctx context.Context, teamID, targetUserID, actorID primitive.ObjectID) error
	LeaveTeamFunc    func(ctx context.Context, teamID, userID primitive.ObjectID) error
}

func (m *MockTeamMemberService) ListMembers(ctx context.Context, teamID primitive.ObjectID) (*models.TeamMemberListResponse, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *MockTeamMemberService) AddMember(ctx context.Context, teamID, actorID primitive.ObjectID, req *models.AddMemberRequest) (*models.TeamMember, error) {
	if m.AddMemberFunc != nil {
		return m.AddMemberFunc(ctx, teamID, actorID, req)
	}
	return nil, nil
}

func (m *MockTeamMemberService) UpdateRole(ctx context.Context, teamID, targetUserID, actorID primitive.ObjectID, newRole string) (*models.TeamMember, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, teamID, targetUserID, actorID, newRole)
	}
	return nil, nil
}

func (m *MockTeamMemberService) RemoveMember(ctx context.Context, teamID, targetUserID, actorID primitive.ObjectID) error {
	if m.RemoveMemberFunc != nil {
		return m.RemoveMemberFunc(ctx, teamID, targetUserID, actorID)
	}
	return nil
}

func (m *MockTeamMemberService) LeaveTeam(ctx context.Context, teamID, userID primitive.ObjectID) error {
	if m.LeaveTeamFunc != nil {
		return m.LeaveTeamFunc(ctx, teamID, userID)
	}
	return nil
}

// MockChannelService is a mock implementation of ChannelServicer.
type MockChannelService struct {
	CreateChannelFunc func(ctx context.Context, teamID, userID primitive.ObjectID, req *models.CreateChannelRequest) (*models.Channel, error)
	ListChannelsFunc  func(ctx context.Context, teamID primitive.ObjectID) (*models.ChannelListResponse, error)
	GetChannelFunc    func(ctx context.Context, teamID, channelID primitive.ObjectID) (*models.Channel, error)
	UpdateChannelFunc func(ctx context.Context, teamID, channelID primitive.ObjectID, req *models.UpdateChannelRequest) (*models.Channel, error)
	DeleteChannelFunc func(ctx context.Context, teamID, channelID primitive.ObjectID) error
}

func (m *MockChannelService) CreateChannel(ctx context.Context, teamID, userID primitive.ObjectID, req *models.CreateChannelRequest) (*models.Channel, error) {
	if m.CreateChannelFunc != nil {
		return m.CreateChannelFunc(ctx, teamID, userID, req)
	}
	return nil, nil
}

func (m *MockChannelService) ListChannels(ctx context.Context, teamID primitive.ObjectID) (*models.ChannelListResponse, error) {
	if m.ListChannelsFunc != nil {
		return m.ListChannelsFunc(ctx, teamID)
	}
	return nil, nil
}

func (m *MockChannelService) GetChannel(ctx context.Context, teamID, channelID primitive.ObjectID) (*models.Channel, error) {
	if m.GetChannelFunc != nil {
		return m.GetChannelFunc(ctx, teamID, channelID)
	}
	return nil, nil
}

func (m *MockChannelService) UpdateChannel(ctx context.Context, teamID, channelID primitive.ObjectID, req *models.UpdateChannelRequest) (*models.Channel, error) {
	if m.UpdateChannelFunc != nil {
		return m.UpdateChannelFunc(ctx, teamID, channelID, req)
	}
	return nil, nil
}

func (m *MockChannelService) DeleteChannel(ctx context.Context, teamID, channelID primitive.ObjectID) error {
	if m.DeleteChannelFunc != nil {
		return m.DeleteChannelFunc(ctx, teamID, channelID)
	}
	return nil
}

// MockMessageService is a mock implementation of MessageServicer.
type MockMessageService struct {
	CreateMessageFunc func(ctx context.Context, teamID, channelID, userID primitive.ObjectID, req *models.CreateMessageRequest) (*models.MessageResponse, error)
	ListMessagesFunc  func(ctx context.Context, teamID, channelID primitive.ObjectID, opts models.MessageListOptions) (*models.MessageListResponse, error)
	GetMessageFunc    func(ctx context.Context, teamID, channelID, messageID primitive.ObjectID) (*models.MessageResponse, error)
	UpdateMessageFunc func(ctx context.Context, teamID, channelID, messageID, userID primitive.ObjectID, req *models.UpdateMessageRequest) (*models.Message, error)
	DeleteMessageFunc func(ctx context.Context, teamID, channelID, messageID, userID primitive.ObjectID) error
}

func (m *MockMessageService) CreateMessage(ctx context.Context, teamID, channelID, userID primitive.ObjectID, req *models.CreateMessageRequest) (*models.MessageResponse, error) {
	if m.CreateMessageFunc != nil {
		return m.CreateMessageFunc(ctx, teamID, channelID, userID, req)
	}
	return nil, nil
}

func (m *MockMessageService) ListMessages(ctx context.Context, teamID, channelID primitive.ObjectID, opts models.MessageListOptions) (*models.MessageListResponse, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, teamID, channelID, opts)
	}
	return nil, nil
}

func (m *MockMessageService) GetMessage(ctx context.Context, teamID, channelID, messageID primitive.ObjectID) (*models.MessageResponse, error) {
	if m.GetMessageFunc != nil {
		return m.GetMessageFunc(ctx, teamID, channelID, messageID)
	}
	return nil, nil
}

func (m *MockMessageService) UpdateMessage(ctx context.Context, teamID, channelID, messageID, userID primitive.ObjectID, req *models.UpdateMessageRequest) (*models.Message, error) {
	if m.UpdateMessageFunc != nil {
		return m.UpdateMessageFunc(ctx, teamID, channelID, messageID, userID, req)
	}
	return nil, nil
}

func (m *MockMessageService) DeleteMessage(ctx context.Context, teamID, channelID, messageID, userID primitive.ObjectID) error {
	if m.DeleteMessageFunc != nil {
		return m.DeleteMessageFunc(ctx, teamID, channelID, messageID, userID)
	}
	return nil
}

// MockNotificationService is a mock implementation of NotificationServicer.
type MockNotificationService struct {
	ListNotificationsFunc  func(ctx context.Context, userID primitive.ObjectID, opts models.NotificationListOptions) (*models.NotificationListResponse, error)
	MarkReadFunc           func(ctx context.Context, notificationID, userID primitive.ObjectID) (*models.Notification, error)
	MarkAllReadFunc        func(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteNotificationFunc func(ctx context.Context, notificationID, userID primitive.ObjectID) error
}

func (m *MockNotificationService) ListNotifications(ctx context.Context, userID primitive.ObjectID, opts models.NotificationListOptions) (*models.NotificationListResponse, error) {
	if m.ListNotificationsFunc != nil {
		return m.ListNotificationsFunc(ctx, userID, opts)
	}
	return nil, nil
}

func (m *MockNotificationService) MarkRead(ctx context.Context, notificationID, userID primitive.ObjectID) (*models.Notification, error) {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, notificationID, userID)
	}
	return nil, nil
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationService) DeleteNotification(ctx context.Context, notificationID, userID primitive.ObjectID) error {
	if m.DeleteNotificationFunc != nil {
		return m.DeleteNotificationFunc(ctx, notificationID, userID)
	}
	return nil
}

// MockProjectService is a mock implementation of ProjectServicer.
type MockProjectService struct {
	CreateProjectFunc func(ctx context.Context, teamID, userID primitive.ObjectID, req *models.CreateProjectRequest) (*models.Project, error)
	ListProjectsFunc  func(ctx context.Context, teamID primitive.ObjectID, params models.ProjectListParams) (*models.ProjectListResponse, error)
	GetProjectFunc    func(ctx context.Context, teamID, projectID primitive.ObjectID) (*models.Project, error)
	UpdateProjectFunc func(ctx context.Context, teamID, projectID, userID primitive.ObjectID, req *models.UpdateProjectRequest) (*models.Project, error)
	DeleteProjectFunc func(ctx context.Context, teamID, projectID primitive.ObjectID) error
	ListPhasesFunc    func(ctx context.Context, teamID, projectID primitive.ObjectID) (*models.PhaseListResponse, error)
	GetPhaseFunc      func(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) (*models.ProjectPhase, error)
	CreatePhaseFunc   func(ctx context.Context, teamID, projectID primitive.ObjectID, req *models.CreatePhaseRequest) (*models.ProjectPhase, error)
	UpdatePhaseFunc   func(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID, req *models.UpdatePhaseRequest) (*models.ProjectPhase, error)
	DeletePhaseFunc   func(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) error
}

func (m *MockProjectService) CreateProject(ctx context.Context, teamID, userID primitive.ObjectID, req *models.CreateProjectRequest) (*models.Project, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, teamID, userID, req)
	}
	return nil, nil
}

func (m *MockProjectService) ListProjects(ctx context.Context, teamID primitive.ObjectID, params models.ProjectListParams) (*models.ProjectListResponse, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, teamID, params)
	}
	return nil, nil
}

func (m *MockProjectService) GetProject(ctx context.Context, teamID, projectID primitive.ObjectID) (*models.Project, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, teamID, projectID)
	}
	return nil, nil
}

func (m *MockProjectService) UpdateProject(ctx context.Context, teamID, projectID, userID primitive.ObjectID, req *models.UpdateProjectRequest) (*models.Project, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, teamID, projectID, userID, req)
	}
	return nil, nil
}

func (m *MockProjectService) DeleteProject(ctx context.Context, teamID, projectID primitive.ObjectID) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, teamID, projectID)
	}
	return nil
}

func (m *MockProjectService) ListPhases(ctx context.Context, teamID, projectID primitive.ObjectID) (*models.PhaseListResponse, error) {
	if m.ListPhasesFunc != nil {
		return m.ListPhasesFunc(ctx, teamID, projectID)
	}
	return nil, nil
}

func (m *MockProjectService) GetPhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) (*models.ProjectPhase, error) {
	if m.GetPhaseFunc != nil {
		return m.GetPhaseFunc(ctx, teamID, projectID, phaseID)
	}
	return nil, nil
}

func (m *MockProjectService) CreatePhase(ctx context.Context, teamID, projectID primitive.ObjectID, req *models.CreatePhaseRequest) (*models.ProjectPhase, error) {
	if m.CreatePhaseFunc != nil {
		return m.CreatePhaseFunc(ctx, teamID, projectID, req)
	}
	return nil, nil
}

func (m *MockProjectService) UpdatePhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID, req *models.UpdatePhaseRequest) (*models.ProjectPhase, error) {
	if m.UpdatePhaseFunc != nil {
		return m.UpdatePhaseFunc(ctx, teamID, projectID, phaseID, req)
	}
	return nil, nil
}

func (m *MockProjectService) DeletePhase(ctx context.Context, teamID, projectID, phaseID primitive.ObjectID) error {
	if m.DeletePhaseFunc != nil {
		return m.DeletePhaseFunc(ctx, teamID, projectID, phaseID)
	}
	return nil
}

// MockTaskService is a mock implementation of TaskServicer.
type MockTaskService struct {
	CreateTaskFunc func(ctx context.Context, teamID, projectID, userID primitive.ObjectID, req *models.CreateTaskRequest) (*models.Task, error)
	ListTasksFunc  func(ctx context.Context, teamID, projectID primitive.ObjectID, params models.TaskListParams) (*models.TaskListResponse, error)
	GetTaskFunc    func(ctx context.Context, teamID, taskID primitive.ObjectID) (*models.TaskWithSubtasks, error)
	UpdateTaskFunc func(ctx context.Context, teamID, taskID, userID primitive.ObjectID, req *models.UpdateTaskRequest) (*models.Task, error)
	DeleteTaskFunc func(ctx context.Context, teamID, taskID, userID primitive.ObjectID) error
}

func (m *MockTaskService) CreateTask(ctx context.Context, teamID, projectID, userID primitive.ObjectID, req *models.CreateTaskRequest) (*models.Task, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, teamID, projectID, userID, req)
	}
	return nil, nil
}

func (m *MockTaskService) ListTasks(ctx context.Context, teamID, projectID primitive.ObjectID, params models.TaskListParams) (*models.TaskListResponse, error) {
	if m.ListTasksFunc != nil {
		return m.ListTasksFunc(ctx, teamID, projectID, params)
	}
	return nil, nil
}

func (m *MockTaskService) GetTask(ctx context.Context, teamID, taskID primitive.ObjectID) (*models.TaskWithSubtasks, error) {
	if m.GetTaskFunc != nil {
		return m.GetTaskFunc(ctx, teamID, taskID)
	}
	return nil, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, teamID, taskID, userID primitive.ObjectID, req *models.UpdateTaskRequest) (*models.Task, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, teamID, taskID, userID, req)
	}
	return nil, nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, teamID, taskID, userID primitive.ObjectID) error {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, teamID, taskID, userID)
	}
	return nil
}
