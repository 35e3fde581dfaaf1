package repository

import (
	"context"
	"testing"
	"time"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackRepo_ListByPhaseFiltersWorkflow(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteFeedbackRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestFeedback(proj.ID, domain.WorkflowDesign, 2, "paleta")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestFeedback(proj.ID, domain.WorkflowPlanning, 2, "alcance")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestFeedback(proj.ID, "", 2, "general")))
	require.NoError(t, repo.Create(ctx, testutil.NewTestFeedback(proj.ID, domain.WorkflowDesign, 3, "otra fase")))

	design, err := repo.ListByPhase(ctx, proj.ID, domain.WorkflowDesign, 2)
	require.NoError(t, err)
	var bodies []string
	for _, f := range design {
		bodies = append(bodies, f.Body)
	}
	assert.ElementsMatch(t, []string{"paleta", "general"}, bodies)

	all, err := repo.ListByPhase(ctx, proj.ID, "", 2)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFeedbackRepo_UpdateBody(t *testing.T) {
	db := testutil.NewTestDB(t)
	proj := seedProject(t, NewSQLiteProjectRepo(db))
	repo := NewSQLiteFeedbackRepo(db)
	ctx := context.Background()

	fb := testutil.NewTestFeedback(proj.ID, domain.WorkflowDesign, 1, "borrador")
	require.NoError(t, repo.Create(ctx, fb))
	require.NoError(t, repo.UpdateBody(ctx, fb.ID, "final", time.Now()))

	got, err := repo.GetByID(ctx, fb.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Body)
	assert.Equal(t, "Prof. Ruiz", got.Author)

	assert.ErrorIs(t, repo.UpdateBody(ctx, "missing", "x", time.Now()), domain.ErrNotFound)
}
