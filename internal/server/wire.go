package server

import (
	"database/sql"

	"github.com/al211185/edumobile/internal/db"
	"github.com/al211185/edumobile/internal/repository"
	"github.com/al211185/edumobile/internal/service"
)

// NewServices wires the SQLite repositories into the service layer.
func NewServices(database *sql.DB, observers ...service.UseCaseObserver) Services {
	uow := db.NewTxRunner(database)
	projects := repository.NewSQLiteProjectRepo(database)
	records := repository.NewSQLitePhaseRecordRepo(database)
	return Services{
		Projects: service.NewProjectService(projects, observers...),
		Phases:   service.NewPhaseService(projects, records, uow, observers...),
		Kanban:   service.NewKanbanService(records, repository.NewSQLiteKanbanRepo(database), uow, observers...),
		Feedback: service.NewFeedbackService(projects, repository.NewSQLiteFeedbackRepo(database), observers...),
	}
}
