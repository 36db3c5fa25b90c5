package authz

import (
	"context"
	"sync"
	"testing"

	apperrors "teamwork/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnforcer_CheckRoleChange(t *testing.T) {
	ctx := context.Background()

	t.Run("demoting sole admin is rejected", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		admin := store.addMember(teamID, RoleAdmin)
		store.addMember(teamID, RoleMember)
		target, _ := store.FindByTeamAndUser(ctx, teamID, admin)

		for _, newRole := range []Role{RoleMember, RoleGuest} {
			err := NewEnforcer(store).CheckRoleChange(ctx, target, newRole)
			assert.ErrorIs(t, err, apperrors.ErrLastAdmin)
		}
	})

	t.Run("demoting one of two admins is allowed", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		a1 := store.addMember(teamID, RoleAdmin)
		store.addMember(teamID, RoleAdmin)
		target, _ := store.FindByTeamAndUser(ctx, teamID, a1)

		assert.NoError(t, NewEnforcer(store).CheckRoleChange(ctx, target, RoleMember))
	})

	t.Run("sole admin keeping admin is allowed", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		admin := store.addMember(teamID, RoleAdmin)
		target, _ := store.FindByTeamAndUser(ctx, teamID, admin)

		assert.NoError(t, NewEnforcer(store).CheckRoleChange(ctx, target, RoleAdmin))
	})

	t.Run("non-admin changes skip the count", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		member := store.addMember(teamID, RoleMember)
		target, _ := store.FindByTeamAndUser(ctx, teamID, member)

		assert.NoError(t, NewEnforcer(store).CheckRoleChange(ctx, target, RoleGuest))
		assert.NoError(t, NewEnforcer(store).CheckRoleChange(ctx, target, RoleAdmin))
	})

	t.Run("unknown role", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		member := store.addMember(teamID, RoleMember)
		target, _ := store.FindByTeamAndUser(ctx, teamID, member)

		assert.ErrorIs(t, NewEnforcer(store).CheckRoleChange(ctx, target, "owner"), apperrors.ErrInvalidRole)
	})
}

func TestEnforcer_CheckRemoval(t *testing.T) {
	ctx := context.Background()

	t.Run("sole admin may remove themselves", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		admin := store.addMember(teamID, RoleAdmin)
		target, _ := store.FindByTeamAndUser(ctx, teamID, admin)

		assert.NoError(t, NewEnforcer(store).CheckRemoval(ctx, target, admin))
	})

	t.Run("guest may remove themselves", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		guest := store.addMember(teamID, RoleGuest)
		target, _ := store.FindByTeamAndUser(ctx, teamID, guest)

		assert.NoError(t, NewEnforcer(store).CheckRemoval(ctx, target, guest))
	})

	t.Run("member cannot remove others", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		member := store.addMember(teamID, RoleMember)
		guest := store.addMember(teamID, RoleGuest)
		target, _ := store.FindByTeamAndUser(ctx, teamID, guest)

		assert.ErrorIs(t, NewEnforcer(store).CheckRemoval(ctx, target, member), apperrors.ErrInsufficientPermissions)
	})

	t.Run("outsider cannot remove members", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		guest := store.addMember(teamID, RoleGuest)
		target, _ := store.FindByTeamAndUser(ctx, teamID, guest)

		err := NewEnforcer(store).CheckRemoval(ctx, target, primitive.NewObjectID())
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})

	t.Run("admin removes another admin when two remain", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		a1 := store.addMember(teamID, RoleAdmin)
		a2 := store.addMember(teamID, RoleAdmin)
		target, _ := store.FindByTeamAndUser(ctx, teamID, a2)

		assert.NoError(t, NewEnforcer(store).CheckRemoval(ctx, target, a1))
	})

	t.Run("admin cannot remove the last counted admin", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		a1 := store.addMember(teamID, RoleAdmin)
		a2 := store.addMember(teamID, RoleAdmin)
		target, _ := store.FindByTeamAndUser(ctx, teamID, a2)

		err := NewEnforcer(fixedAdminCount{store, 1}).CheckRemoval(ctx, target, a1)

		assert.ErrorIs(t, err, apperrors.ErrLastAdmin)
	})

	t.Run("admin removing a member skips the count", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		admin := store.addMember(teamID, RoleAdmin)
		member := store.addMember(teamID, RoleMember)
		target, _ := store.FindByTeamAndUser(ctx, teamID, member)

		assert.NoError(t, NewEnforcer(fixedAdminCount{store, 0}).CheckRemoval(ctx, target, admin))
	})

	t.Run("anonymous actor", func(t *testing.T) {
		store := newMemStore()
		teamID := store.addTeam()
		guest := store.addMember(teamID, RoleGuest)
		target, _ := store.FindByTeamAndUser(ctx, teamID, guest)

		err := NewEnforcer(store).CheckRemoval(ctx, target, primitive.NilObjectID)
		assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	})
}

// Walks a team of U1 (admin), U2 (member), U3 (guest) through the
// permission matrix and the admin-preserving transitions.
func TestMembershipScenario(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	teamID := store.addTeam()
	u1 := store.addMember(teamID, RoleAdmin)
	u2 := store.addMember(teamID, RoleMember)
	u3 := store.addMember(teamID, RoleGuest)
	guard := NewGuard(store, store)
	enforcer := NewEnforcer(store)

	_, err := guard.Authorize(ctx, teamID, u3, AdminOrMember)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions, "guest cannot create a project")

	_, err = guard.Authorize(ctx, teamID, u2, AdminOrMember)
	assert.NoError(t, err, "member can create a project")

	_, err = guard.Authorize(ctx, teamID, u2, AdminOnly)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions, "member cannot delete the project")

	_, err = guard.Authorize(ctx, teamID, u1, AdminOnly)
	assert.NoError(t, err, "admin can delete the project")

	target, _ := store.FindByTeamAndUser(ctx, teamID, u1)
	assert.ErrorIs(t, enforcer.CheckRoleChange(ctx, target, RoleMember), apperrors.ErrLastAdmin)

	_, err = guard.Authorize(ctx, teamID, u1, AdminOnly)
	require.NoError(t, err)
	promote, _ := store.FindByTeamAndUser(ctx, teamID, u2)
	require.NoError(t, enforcer.CheckRoleChange(ctx, promote, RoleAdmin))
	store.updateRole(teamID, u2, RoleAdmin)

	target, _ = store.FindByTeamAndUser(ctx, teamID, u1)
	require.NoError(t, enforcer.CheckRoleChange(ctx, target, RoleMember))
	store.updateRole(teamID, u1, RoleMember)

	_, err = guard.Authorize(ctx, teamID, u1, AdminOnly)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	_, err = guard.Authorize(ctx, teamID, u2, AdminOnly)
	assert.NoError(t, err)

	self, _ := store.FindByTeamAndUser(ctx, teamID, u3)
	require.NoError(t, enforcer.CheckRemoval(ctx, self, u3))
	store.remove(teamID, u3)

	_, err = guard.Authorize(ctx, teamID, u3, AnyMember)
	assert.ErrorIs(t, err, apperrors.ErrNotTeamMember)
}

func TestEnforcer_ConcurrentDemotionsKeepAnAdmin(t *testing.T) {
	ctx := context.Background()

	for run := 0; run < 50; run++ {
		store := newMemStore()
		teamID := store.addTeam()
		a1 := store.addMember(teamID, RoleAdmin)
		a2 := store.addMember(teamID, RoleAdmin)
		enforcer := NewEnforcer(store)

		demote := func(userID primitive.ObjectID) error {
			return store.withTeamLock(teamID, func() error {
				target, err := store.FindByTeamAndUser(ctx, teamID, userID)
				if err != nil {
					return err
				}
				if err := enforcer.CheckRoleChange(ctx, target, RoleMember); err != nil {
					return err
				}
				store.updateRole(teamID, userID, RoleMember)
				return nil
			})
		}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, id := range []primitive.ObjectID{a1, a2} {
			wg.Add(1)
			go func(i int, id primitive.ObjectID) {
				defer wg.Done()
				errs[i] = demote(id)
			}(i, id)
		}
		wg.Wait()

		failures := 0
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, apperrors.ErrLastAdmin)
				failures++
			}
		}
		assert.Equal(t, 1, failures, "exactly one demotion must fail")

		admins, _ := store.CountByRole(ctx, teamID, RoleAdmin)
		assert.Equal(t, int64(1), admins)
	}
}
