package authz

import (
	"context"
	"errors"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Guard answers "may this user do this in this team". It holds no state of
// its own; every decision reads the current membership.
type Guard struct {
	members   MembershipStore
	teams     TeamFinder
	decisions *prometheus.CounterVec
}

// NewGuard creates a new Guard.
func NewGuard(members MembershipStore, teams TeamFinder) *Guard {
	return &Guard{
		members:   members,
		teams:     teams,
		decisions: newDecisionCounter(),
	}
}

// Authorize returns the caller's membership if their role is in required.
//
// Deny results are apperrors.ErrNotAuthenticated for a missing caller,
// apperrors.ErrTeamNotFound or apperrors.ErrNotTeamMember when the caller
// has no membership, and apperrors.ErrInsufficientPermissions when the role
// is not permitted. Any other error comes from the store.
func (g *Guard) Authorize(ctx context.Context, teamID, userID primitive.ObjectID, required RoleSet) (*models.TeamMember, error) {
	if userID.IsZero() {
		g.record("membership", outcomeUnauthenticated)
		return nil, apperrors.ErrNotAuthenticated
	}

	member, err := g.members.FindByTeamAndUser(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotTeamMember) {
			return nil, g.denyNonMember(ctx, teamID)
		}
		return nil, err
	}

	if !Decide(required, member.Role) {
		g.record("membership", outcomeForbidden)
		return nil, apperrors.ErrInsufficientPermissions
	}

	g.record("membership", outcomeAllowed)
	return member, nil
}

// denyNonMember tells a missing team apart from a missing membership.
func (g *Guard) denyNonMember(ctx context.Context, teamID primitive.ObjectID) error {
	exists, err := g.teams.Exists(ctx, teamID)
	if err != nil {
		return err
	}
	if !exists {
		g.record("membership", outcomeTeamNotFound)
		return apperrors.ErrTeamNotFound
	}
	g.record("membership", outcomeNotMember)
	return apperrors.ErrNotTeamMember
}
