// Package errors provides custom error types for the application.
package errors

import "errors"

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// Auth errors
var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrInvalidRefreshToken   = errors.New("invalid or expired refresh token")
	ErrRefreshTokenExpired   = errors.New("refresh token expired")
	ErrRefreshTokenReused    = errors.New("refresh token reuse detected, please log in again")
	ErrRateLimited           = errors.New("too many requests, please try again later")
	ErrCannotModifyOtherUser = errors.New("you can only modify your own account")
)

// Authorization errors. Every team-scoped deny decision is one of these.
var (
	ErrNotAuthenticated        = errors.New("authentication required")
	ErrTeamNotFound            = errors.New("team not found")
	ErrNotTeamMember           = errors.New("you are not a member of this team")
	ErrResourceNotFound        = errors.New("resource not found")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrLastAdmin               = errors.New("cannot remove the last admin of the team")
	ErrInvalidRole             = errors.New("invalid role, must be admin, member or guest")
)

// Request errors
var (
	ErrInvalidID = errors.New("invalid id format")
)

// Team membership errors
var (
	ErrAlreadyMember = errors.New("user is already a team member")
)

// Channel and message errors
var (
	ErrChannelNotFound     = errors.New("channel not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrInvalidChannelType  = errors.New("invalid channel type, must be direct, group or project")
	ErrInvalidMessageRange = errors.New("before and after cannot be used together")
)

// Notification errors
var (
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrNotificationQueueFull = errors.New("notification queue is full")
)

// Project and task errors
var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrParentTaskNotFound = errors.New("parent task not found")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrAssigneeNotMember  = errors.New("assignee is not a member of this team")
	ErrInvalidParentTask  = errors.New("parent task must belong to the same project")
	ErrNestedSubtask      = errors.New("a subtask cannot have subtasks")
	ErrPhaseNotFound      = errors.New("phase not found")
	ErrInvalidPhase       = errors.New("phase must belong to the same project")
)
