package service

import (
	"context"
	"errors"
	"testing"

	"teamwork/internal/models"
	repomocks "teamwork/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

// runTransactions makes the mock transactor run callbacks inline.
func runTransactions(tx *repomocks.MockTransactor) {
	tx.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
	tx.EXPECT().
		WithTeamLock(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ primitive.ObjectID, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		AnyTimes()
}

func TestParseObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	got, err := parseObjectID(id.Hex())
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseObjectID("not-an-id")
	assert.Error(t, err)
}

func TestMemberIDsExcept(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	members := []models.TeamMember{{UserID: a}, {UserID: b}, {UserID: c}}

	assert.Equal(t, []primitive.ObjectID{a, c}, memberIDsExcept(members, b))
	assert.Equal(t, []primitive.ObjectID{c}, memberIDsExcept(members, a, b))
	assert.Len(t, memberIDsExcept(members), 3)
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
