package repository

import (
	"context"
	"fmt"

	apperrors "teamwork/internal/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs functions inside MongoDB transactions. Repository calls
// made with the context passed to fn join the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	WithTeamLock(ctx context.Context, teamID primitive.ObjectID, fn func(ctx context.Context) error) error
}

type mongoTransactor struct {
	client *mongo.Client
	teams  *mongo.Collection
}

// NewTransactor creates a Transactor. The deployment must be a replica set
// or sharded cluster.
func NewTransactor(db *mongo.Database) Transactor {
	return &mongoTransactor{
		client: db.Client(),
		teams:  db.Collection("teams"),
	}
}

// WithTransaction runs fn in a transaction. Transient errors are retried by
// the driver, so fn may run more than once.
func (t *mongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// WithTeamLock runs fn in a transaction that first bumps the team's
// membershipVersion. Two such transactions on the same team write the same
// document, so one of them conflicts and is retried after the other commits.
// It returns apperrors.ErrTeamNotFound if the team does not exist.
func (t *mongoTransactor) WithTeamLock(ctx context.Context, teamID primitive.ObjectID, fn func(ctx context.Context) error) error {
	return t.WithTransaction(ctx, func(tx context.Context) error {
		res, err := t.teams.UpdateOne(tx,
			bson.M{"_id": teamID},
			bson.M{"$inc": bson.M{"membershipVersion": 1}},
		)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return apperrors.ErrTeamNotFound
		}
		return fn(tx)
	})
}
