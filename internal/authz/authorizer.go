// Package authz decides who may act inside a team.
//
// Every team-scoped check goes through a Guard: membership lookups, role
// comparisons and ownership checks live here so call sites never compare
// role strings themselves.
package authz

import (
	"context"

	"teamwork/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

//go:generate mockgen -destination=mocks/mock_authz.go -package=mocks teamwork/internal/authz Authorizer

// Authorizer makes team-scoped allow/deny decisions. Guard is the
// implementation; the interface exists for HTTP middleware and tests.
type Authorizer interface {
	Authorize(ctx context.Context, teamID, userID primitive.ObjectID, required RoleSet) (*models.TeamMember, error)
	AuthorizeByOwnership(ctx context.Context, res OwnedResource, userID primitive.ObjectID, fallback RoleSet, teamID primitive.ObjectID) error
}

var _ Authorizer = (*Guard)(nil)

// MembershipStore is the membership lookup the guard and enforcer depend on.
// FindByTeamAndUser must return apperrors.ErrNotTeamMember when no
// membership exists.
type MembershipStore interface {
	FindByTeamAndUser(ctx context.Context, teamID, userID primitive.ObjectID) (*models.TeamMember, error)
	CountByRole(ctx context.Context, teamID primitive.ObjectID, role models.Role) (int64, error)
}

// TeamFinder reports whether a team exists.
type TeamFinder interface {
	Exists(ctx context.Context, teamID primitive.ObjectID) (bool, error)
}

// OwnedResource is any resource with a single owning user.
type OwnedResource interface {
	GetOwnerID() primitive.ObjectID
}
