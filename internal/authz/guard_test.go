package authz

import (
	"context"
	"errors"
	"testing"

	apperrors "teamwork/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGuard_Authorize(t *testing.T) {
	store := newMemStore()
	teamID := store.addTeam()
	admin := store.addMember(teamID, RoleAdmin)
	member := store.addMember(teamID, RoleMember)
	guest := store.addMember(teamID, RoleGuest)
	outsider := primitive.NewObjectID()
	guard := NewGuard(store, store)
	ctx := context.Background()

	tests := []struct {
		name     string
		teamID   primitive.ObjectID
		userID   primitive.ObjectID
		required RoleSet
		wantErr  error
	}{
		{"admin passes admin only", teamID, admin, AdminOnly, nil},
		{"member passes admin or member", teamID, member, AdminOrMember, nil},
		{"guest passes any member", teamID, guest, AnyMember, nil},
		{"guest denied admin or member", teamID, guest, AdminOrMember, apperrors.ErrInsufficientPermissions},
		{"member denied admin only", teamID, member, AdminOnly, apperrors.ErrInsufficientPermissions},
		{"outsider is not a member", teamID, outsider, AnyMember, apperrors.ErrNotTeamMember},
		{"missing team", primitive.NewObjectID(), admin, AnyMember, apperrors.ErrTeamNotFound},
		{"anonymous caller", teamID, primitive.NilObjectID, AnyMember, apperrors.ErrNotAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := guard.Authorize(ctx, tt.teamID, tt.userID, tt.required)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.userID, m.UserID)
			assert.Equal(t, tt.teamID, m.TeamID)
		})
	}
}

func TestGuard_Authorize_Idempotent(t *testing.T) {
	store := newMemStore()
	teamID := store.addTeam()
	guest := store.addMember(teamID, RoleGuest)
	guard := NewGuard(store, store)

	for i := 0; i < 3; i++ {
		_, err := guard.Authorize(context.Background(), teamID, guest, AdminOrMember)
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	}
}

func TestGuard_Authorize_StoreError(t *testing.T) {
	store := newMemStore()
	teamID := store.addTeam()
	userID := store.addMember(teamID, RoleAdmin)
	store.err = errors.New("connection reset")
	guard := NewGuard(store, store)

	_, err := guard.Authorize(context.Background(), teamID, userID, AnyMember)

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	assert.NotErrorIs(t, err, apperrors.ErrNotTeamMember)
}

func TestGuard_Authorize_ReadsCurrentRole(t *testing.T) {
	store := newMemStore()
	teamID := store.addTeam()
	userID := store.addMember(teamID, RoleMember)
	guard := NewGuard(store, store)
	ctx := context.Background()

	_, err := guard.Authorize(ctx, teamID, userID, AdminOnly)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	store.updateRole(teamID, userID, RoleAdmin)

	_, err = guard.Authorize(ctx, teamID, userID, AdminOnly)
	assert.NoError(t, err)
}

func TestGuard_RecordsDecisions(t *testing.T) {
	store := newMemStore()
	teamID := store.addTeam()
	admin := store.addMember(teamID, RoleAdmin)
	guest := store.addMember(teamID, RoleGuest)
	guard := NewGuard(store, store)
	reg := prometheus.NewRegistry()
	require.NoError(t, guard.RegisterMetrics(reg))
	ctx := context.Background()

	_, _ = guard.Authorize(ctx, teamID, admin, AdminOnly)
	_, _ = guard.Authorize(ctx, teamID, guest, AdminOnly)
	_, _ = guard.Authorize(ctx, teamID, guest, AdminOnly)

	assert.Equal(t, 1.0, testutil.ToFloat64(guard.decisions.WithLabelValues("membership", outcomeAllowed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(guard.decisions.WithLabelValues("membership", outcomeForbidden)))

	// A second guard on the same registry shares the collector.
	other := NewGuard(store, store)
	require.NoError(t, other.RegisterMetrics(reg))
	_, _ = other.Authorize(ctx, teamID, admin, AdminOnly)
	assert.Equal(t, 2.0, testutil.ToFloat64(guard.decisions.WithLabelValues("membership", outcomeAllowed)))
}
