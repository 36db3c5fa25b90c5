package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{ErrNotAuthenticated, http.StatusUnauthorized},
		{ErrTeamNotFound, http.StatusNotFound},
		{ErrNotTeamMember, http.StatusNotFound},
		{ErrResourceNotFound, http.StatusNotFound},
		{ErrInsufficientPermissions, http.StatusForbidden},
		{ErrLastAdmin, http.StatusBadRequest},
		{ErrInvalidRole, http.StatusBadRequest},
		{ErrAlreadyMember, http.StatusConflict},
		{ErrMessageNotFound, http.StatusNotFound},
		{ErrInvalidMessageRange, http.StatusBadRequest},
		{ErrRateLimited, http.StatusTooManyRequests},
		{ErrRefreshTokenReused, http.StatusUnauthorized},
		{ErrPhaseNotFound, http.StatusNotFound},
		{ErrInvalidPhase, http.StatusBadRequest},
		{ErrNestedSubtask, http.StatusBadRequest},
		{fmt.Errorf("remove member: %w", ErrLastAdmin), http.StatusBadRequest},
		{errors.New("mongo: connection refused"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(ErrTaskNotFound))
	assert.True(t, IsKnown(fmt.Errorf("wrap: %w", ErrInvalidID)))
	assert.False(t, IsKnown(errors.New("boom")))
	assert.False(t, IsKnown(nil))
}
