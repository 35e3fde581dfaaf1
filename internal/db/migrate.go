package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent so the
// whole list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateCompactPositions(db); err != nil {
		return fmt.Errorf("compacting kanban positions: %w", err)
	}
	return nil
}

// migrateCompactPositions renumbers each board column to 0..n-1. Columns
// that are already dense are left untouched.
func migrateCompactPositions(db *sql.DB) error {
	ctx := context.Background()

	rows, err := db.QueryContext(ctx, `
		SELECT development_phase_id, status
		FROM kanban_items
		GROUP BY development_phase_id, status
		HAVING MAX(position) != COUNT(*) - 1 OR MIN(position) != 0`)
	if err != nil {
		return fmt.Errorf("finding sparse columns: %w", err)
	}
	type column struct{ devID, status string }
	var sparse []column
	for rows.Next() {
		var c column
		if err := rows.Scan(&c.devID, &c.status); err != nil {
			rows.Close()
			return fmt.Errorf("scanning sparse column: %w", err)
		}
		sparse = append(sparse, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, c := range sparse {
		if err := compactColumn(ctx, db, c.devID, c.status); err != nil {
			return fmt.Errorf("compacting %s/%s: %w", c.devID, c.status, err)
		}
	}
	return nil
}

func compactColumn(ctx context.Context, db *sql.DB, devID, status string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id FROM kanban_items
		WHERE development_phase_id = ? AND status = ?
		ORDER BY position, created_at, id`, devID, status)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, `UPDATE kanban_items SET position = ? WHERE id = ?`, i, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		short_id   TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		course     TEXT NOT NULL DEFAULT '',
		student    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS phase_records (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		workflow      TEXT NOT NULL
		              CHECK(workflow IN ('planning','design','development','evaluation')),
		current_phase INTEGER NOT NULL DEFAULT 1 CHECK(current_phase >= 1),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		UNIQUE(project_id, workflow)
	)`,

	`CREATE TABLE IF NOT EXISTS phase_data (
		record_id  TEXT NOT NULL REFERENCES phase_records(id) ON DELETE CASCADE,
		phase      INTEGER NOT NULL CHECK(phase >= 1),
		data       TEXT NOT NULL DEFAULT '{}',
		updated_at TEXT NOT NULL,
		PRIMARY KEY(record_id, phase)
	)`,

	`CREATE TABLE IF NOT EXISTS kanban_items (
		id                   TEXT PRIMARY KEY,
		development_phase_id TEXT NOT NULL REFERENCES phase_records(id) ON DELETE CASCADE,
		title                TEXT NOT NULL,
		description          TEXT NOT NULL DEFAULT '',
		status               TEXT NOT NULL DEFAULT 'Backlog'
		                     CHECK(status IN ('Backlog','Todo','InProgress','Done')),
		position             INTEGER NOT NULL DEFAULT 0,
		created_at           TEXT NOT NULL,
		updated_at           TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_kanban_items_column ON kanban_items(development_phase_id, status, position)`,

	`CREATE TABLE IF NOT EXISTS feedback (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		phase      INTEGER NOT NULL CHECK(phase >= 1),
		author     TEXT NOT NULL DEFAULT '',
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_project_phase ON feedback(project_id, phase)`,

	// Feedback was originally phase-only; scope it to a workflow.
	`ALTER TABLE feedback ADD COLUMN workflow TEXT NOT NULL DEFAULT ''`,
}
