package db

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func migrated(t *testing.T, stmts ...string) *sql.DB {
	t.Helper()
	database, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	for _, s := range stmts {
		_, err := database.Exec(s)
		require.NoError(t, err, s)
	}
	return database
}

const (
	seedProject = `INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'Web', 'now', 'now')`
	seedDev     = `INSERT INTO phase_records (id, project_id, workflow, created_at, updated_at) VALUES ('dev1', 'p1', 'development', 'now', 'now')`
)

func TestMigrate_ReplayIsHarmless(t *testing.T) {
	database := migrated(t)

	require.NoError(t, Migrate(database))
	require.NoError(t, Migrate(database))
}

func TestMigrate_Schema(t *testing.T) {
	database := migrated(t)

	objects := map[string][]string{
		"table": {"projects", "phase_records", "phase_data", "kanban_items", "feedback"},
		"index": {"idx_projects_short_id", "idx_kanban_items_column", "idx_feedback_project_phase"},
	}
	for kind, names := range objects {
		for _, name := range names {
			var n int
			require.NoError(t, database.QueryRow(
				`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?`, kind, name).Scan(&n))
			assert.Equal(t, 1, n, "%s %s", kind, name)
		}
	}
}

func TestMigrate_FeedbackCarriesWorkflow(t *testing.T) {
	migrated(t, seedProject,
		`INSERT INTO feedback (id, project_id, phase, body, workflow, created_at, updated_at)
		 VALUES ('f1', 'p1', 2, 'ok', 'design', 'now', 'now')`)
}

func TestMigrate_WorkflowCheck(t *testing.T) {
	database := migrated(t, seedProject)

	_, err := database.Exec(`INSERT INTO phase_records (id, project_id, workflow, created_at, updated_at)
		VALUES ('r1', 'p1', 'deployment', 'now', 'now')`)
	assert.Error(t, err)
}

func TestMigrate_RenumbersSparseColumns(t *testing.T) {
	card := func(id, status string, pos int) string {
		return fmt.Sprintf(`INSERT INTO kanban_items (id, development_phase_id, title, status, position, created_at, updated_at)
			VALUES ('%s', 'dev1', '%s', '%s', %d, 'now', 'now')`, id, id, status, pos)
	}
	database := migrated(t, seedProject, seedDev,
		card("a", "Todo", 4),
		card("b", "Todo", 9),
		card("c", "Done", 0),
	)

	require.NoError(t, Migrate(database))

	rows, err := database.Query(`SELECT id, position FROM kanban_items`)
	require.NoError(t, err)
	defer rows.Close()
	got := map[string]int{}
	for rows.Next() {
		var (
			id  string
			pos int
		)
		require.NoError(t, rows.Scan(&id, &pos))
		got[id] = pos
	}
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 0}, got)
}

func TestMigrate_ProjectDeleteCascades(t *testing.T) {
	database := migrated(t, seedProject, seedDev,
		`INSERT INTO phase_data (record_id, phase, data, updated_at) VALUES ('dev1', 1, '{}', 'now')`,
		`DELETE FROM projects WHERE id = 'p1'`,
	)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM phase_data`).Scan(&n))
	assert.Zero(t, n)
}
