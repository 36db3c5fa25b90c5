package errors

import (
	"errors"
	"net/http"
)

var statusByError = []struct {
	err    error
	status int
}{
	{ErrNotAuthenticated, http.StatusUnauthorized},
	{ErrInvalidToken, http.StatusUnauthorized},
	{ErrTokenExpired, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrInvalidRefreshToken, http.StatusUnauthorized},
	{ErrRefreshTokenExpired, http.StatusUnauthorized},
	{ErrRefreshTokenReused, http.StatusUnauthorized},

	{ErrInsufficientPermissions, http.StatusForbidden},
	{ErrCannotModifyOtherUser, http.StatusForbidden},

	{ErrTeamNotFound, http.StatusNotFound},
	{ErrNotTeamMember, http.StatusNotFound},
	{ErrResourceNotFound, http.StatusNotFound},
	{ErrUserNotFound, http.StatusNotFound},
	{ErrChannelNotFound, http.StatusNotFound},
	{ErrMessageNotFound, http.StatusNotFound},
	{ErrNotificationNotFound, http.StatusNotFound},
	{ErrProjectNotFound, http.StatusNotFound},
	{ErrTaskNotFound, http.StatusNotFound},
	{ErrParentTaskNotFound, http.StatusNotFound},
	{ErrPhaseNotFound, http.StatusNotFound},

	{ErrLastAdmin, http.StatusBadRequest},
	{ErrInvalidRole, http.StatusBadRequest},
	{ErrInvalidID, http.StatusBadRequest},
	{ErrInvalidChannelType, http.StatusBadRequest},
	{ErrInvalidMessageRange, http.StatusBadRequest},
	{ErrInvalidDateRange, http.StatusBadRequest},
	{ErrPasswordTooLong, http.StatusBadRequest},
	{ErrAssigneeNotMember, http.StatusBadRequest},
	{ErrInvalidParentTask, http.StatusBadRequest},
	{ErrNestedSubtask, http.StatusBadRequest},
	{ErrInvalidPhase, http.StatusBadRequest},

	{ErrAlreadyMember, http.StatusConflict},
	{ErrUserAlreadyExists, http.StatusConflict},

	{ErrRateLimited, http.StatusTooManyRequests},
	{ErrNotificationQueueFull, http.StatusServiceUnavailable},
}

// HTTPStatus maps an application error to its HTTP status code. Wrapped
// errors are matched with errors.Is; anything unknown is a 500.
func HTTPStatus(err error) int {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// IsKnown reports whether err is one of the application errors.
func IsKnown(err error) bool {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return true
		}
	}
	return false
}
