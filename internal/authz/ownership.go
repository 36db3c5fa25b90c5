package authz

import (
	"context"
	"errors"
	"reflect"

	apperrors "teamwork/internal/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthorizeByOwnership allows the owner of res, or failing that any member
// of teamID whose role is in fallback. An empty fallback allows the owner
// only.
//
// A nil res yields apperrors.ErrResourceNotFound. A caller without
// membership in the fallback path is forbidden rather than not found, since
// the resource itself exists.
func (g *Guard) AuthorizeByOwnership(ctx context.Context, res OwnedResource, userID primitive.ObjectID, fallback RoleSet, teamID primitive.ObjectID) error {
	if isNilResource(res) {
		g.record("ownership", outcomeResourceMissing)
		return apperrors.ErrResourceNotFound
	}
	if userID.IsZero() {
		g.record("ownership", outcomeUnauthenticated)
		return apperrors.ErrNotAuthenticated
	}
	if res.GetOwnerID() == userID {
		g.record("ownership", outcomeOwner)
		return nil
	}
	if len(fallback) == 0 {
		g.record("ownership", outcomeForbidden)
		return apperrors.ErrInsufficientPermissions
	}

	_, err := g.Authorize(ctx, teamID, userID, fallback)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrNotTeamMember), errors.Is(err, apperrors.ErrTeamNotFound):
		return apperrors.ErrInsufficientPermissions
	default:
		return err
	}
}

func isNilResource(res OwnedResource) bool {
	if res == nil {
		return true
	}
	v := reflect.ValueOf(res)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
