package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizationErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrNotAuthenticated", ErrNotAuthenticated, "authentication required"},
		{"ErrTeamNotFound", ErrTeamNotFound, "team not found"},
		{"ErrNotTeamMember", ErrNotTeamMember, "you are not a member of this team"},
		{"ErrResourceNotFound", ErrResourceNotFound, "resource not found"},
		{"ErrInsufficientPermissions", ErrInsufficientPermissions, "insufficient permissions"},
		{"ErrLastAdmin", ErrLastAdmin, "cannot remove the last admin of the team"},
		{"ErrInvalidRole", ErrInvalidRole, "invalid role, must be admin, member or guest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAuthErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrInvalidToken", ErrInvalidToken, "invalid token"},
		{"ErrTokenExpired", ErrTokenExpired, "token expired"},
		{"ErrCannotModifyOtherUser", ErrCannotModifyOtherUser, "you can only modify your own account"},
		{"ErrInvalidRefreshToken", ErrInvalidRefreshToken, "invalid or expired refresh token"},
		{"ErrRefreshTokenReused", ErrRefreshTokenReused, "refresh token reuse detected, please log in again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDenyErrorsAreDistinct(t *testing.T) {
	denials := []error{
		ErrNotAuthenticated,
		ErrTeamNotFound,
		ErrNotTeamMember,
		ErrResourceNotFound,
		ErrInsufficientPermissions,
		ErrLastAdmin,
		ErrInvalidRole,
	}

	for i, a := range denials {
		for j, b := range denials {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
		}
	}
}

func TestWrappedErrorsMatch(t *testing.T) {
	wrapped := fmt.Errorf("demote member: %w", ErrLastAdmin)

	assert.True(t, errors.Is(wrapped, ErrLastAdmin))
	assert.False(t, errors.Is(wrapped, ErrInsufficientPermissions))
}
