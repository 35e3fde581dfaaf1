package service

import (
	"context"
	"testing"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/repository"
	"github.com/al211185/edumobile/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	projects ProjectService
	phases   PhaseService
	kanban   KanbanService
	feedback FeedbackService
}

func newTestServices(t *testing.T, observers ...UseCaseObserver) testServices {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestRunner(database)
	projects := repository.NewSQLiteProjectRepo(database)
	records := repository.NewSQLitePhaseRecordRepo(database)
	return testServices{
		projects: NewProjectService(projects, observers...),
		phases:   NewPhaseService(projects, records, uow, observers...),
		kanban:   NewKanbanService(records, repository.NewSQLiteKanbanRepo(database), uow, observers...),
		feedback: NewFeedbackService(projects, repository.NewSQLiteFeedbackRepo(database), observers...),
	}
}

func (s testServices) seedProject(t *testing.T, shortID string) *domain.Project {
	t.Helper()
	p := &domain.Project{Name: "Proyecto " + shortID, ShortID: shortID}
	require.NoError(t, s.projects.Create(context.Background(), p))
	return p
}
