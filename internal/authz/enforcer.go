package authz

import (
	"context"
	"errors"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enforcer keeps every team with at least one admin. Its checks read the
// current admin count, so callers must run check and write inside the same
// per-team transaction.
type Enforcer struct {
	members MembershipStore
}

// NewEnforcer creates a new Enforcer.
func NewEnforcer(members MembershipStore) *Enforcer {
	return &Enforcer{members: members}
}

// CheckRoleChange rejects demoting the team's only admin.
func (e *Enforcer) CheckRoleChange(ctx context.Context, target *models.TeamMember, newRole Role) error {
	if !IsValidRole(newRole) {
		return apperrors.ErrInvalidRole
	}
	if !IsAdmin(target.Role) || IsAdmin(newRole) {
		return nil
	}
	return e.requireOtherAdmin(ctx, target.TeamID)
}

// CheckRemoval decides whether actorID may remove target. Members may always
// remove themselves, even the only admin. Removing anyone else requires the
// actor to be an admin and the team to keep at least one admin afterwards.
func (e *Enforcer) CheckRemoval(ctx context.Context, target *models.TeamMember, actorID primitive.ObjectID) error {
	if actorID.IsZero() {
		return apperrors.ErrNotAuthenticated
	}
	if actorID == target.UserID {
		return nil
	}

	actor, err := e.members.FindByTeamAndUser(ctx, target.TeamID, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotTeamMember) {
			return apperrors.ErrInsufficientPermissions
		}
		return err
	}
	if !IsAdmin(actor.Role) {
		return apperrors.ErrInsufficientPermissions
	}

	if IsAdmin(target.Role) {
		return e.requireOtherAdmin(ctx, target.TeamID)
	}
	return nil
}

func (e *Enforcer) requireOtherAdmin(ctx context.Context, teamID primitive.ObjectID) error {
	admins, err := e.members.CountByRole(ctx, teamID, RoleAdmin)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return apperrors.ErrLastAdmin
	}
	return nil
}
