package repository

import (
	"context"
	"testing"

	apperrors "teamwork/internal/errors"
	"teamwork/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestPhaseRepository(t *testing.T) {
	tdb := SetupTestDB(t)
	defer tdb.Cleanup(t)

	repo := NewPhaseRepository(tdb.Database)
	ctx := context.Background()

	t.Run("lists a project's phases by order", func(t *testing.T) {
		tdb.ClearCollection(t, "phases")
		teamID, projectID := primitive.NewObjectID(), primitive.NewObjectID()

		for _, p := range []models.ProjectPhase{
			{TeamID: teamID, ProjectID: projectID, Name: "Launch", Order: 2},
			{TeamID: teamID, ProjectID: projectID, Name: "Discovery", Order: 0},
			{TeamID: teamID, ProjectID: projectID, Name: "Build", Order: 1},
			{TeamID: teamID, ProjectID: primitive.NewObjectID(), Name: "Elsewhere", Order: 0},
		} {
			p := p
			require.NoError(t, repo.Create(ctx, &p))
		}

		phases, err := repo.FindByProjectID(ctx, projectID)
		require.NoError(t, err)
		require.Len(t, phases, 3)
		assert.Equal(t, []string{"Discovery", "Build", "Launch"}, []string{phases[0].Name, phases[1].Name, phases[2].Name})

		none, err := repo.FindByProjectID(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("updates and deletes", func(t *testing.T) {
		tdb.ClearCollection(t, "phases")
		p := &models.ProjectPhase{TeamID: primitive.NewObjectID(), ProjectID: primitive.NewObjectID(), Name: "Draft"}
		require.NoError(t, repo.Create(ctx, p))

		p.Name = "Review"
		p.Order = 3
		require.NoError(t, repo.Update(ctx, p))
		found, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Review", found.Name)
		assert.Equal(t, 3, found.Order)

		require.NoError(t, repo.Delete(ctx, p.ID))
		_, err = repo.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, apperrors.ErrPhaseNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, p.ID), apperrors.ErrPhaseNotFound)
		assert.ErrorIs(t, repo.Update(ctx, p), apperrors.ErrPhaseNotFound)
	})

	t.Run("bulk deletes by project and team", func(t *testing.T) {
		tdb.ClearCollection(t, "phases")
		teamID, projectID, otherProject := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		require.NoError(t, repo.Create(ctx, &models.ProjectPhase{TeamID: teamID, ProjectID: projectID, Name: "a"}))
		require.NoError(t, repo.Create(ctx, &models.ProjectPhase{TeamID: teamID, ProjectID: otherProject, Name: "b"}))

		require.NoError(t, repo.DeleteAllByProjectID(ctx, projectID))
		left, err := repo.FindByProjectID(ctx, otherProject)
		require.NoError(t, err)
		assert.Len(t, left, 1)

		require.NoError(t, repo.DeleteAllByTeamID(ctx, teamID))
		left, err = repo.FindByProjectID(ctx, otherProject)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}
