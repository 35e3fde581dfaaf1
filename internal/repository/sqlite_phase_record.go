package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/al211185/edumobile/internal/db"
	"github.com/al211185/edumobile/internal/domain"
)

// SQLitePhaseRecordRepo stores workflow records and their per-phase data.
// Phase data lives in its own table, one JSON document per phase.
type SQLitePhaseRecordRepo struct {
	db db.DBTX
}

func NewSQLitePhaseRecordRepo(conn db.DBTX) *SQLitePhaseRecordRepo {
	return &SQLitePhaseRecordRepo{db: conn}
}

const recordColumns = `id, project_id, workflow, current_phase, created_at, updated_at`

func (r *SQLitePhaseRecordRepo) Create(ctx context.Context, rec *domain.PhaseRecord) error {
	query := `INSERT INTO phase_records (` + recordColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	current := rec.CurrentPhase
	if current < 1 {
		current = 1
	}
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.ProjectID,
		string(rec.Workflow),
		current,
		formatTime(rec.CreatedAt),
		formatTime(rec.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting %s record: %w", rec.Workflow, err)
	}
	for n, data := range rec.Phases {
		if err := r.SavePhase(ctx, rec.ID, n, data, rec.UpdatedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLitePhaseRecordRepo) GetByID(ctx context.Context, id string) (*domain.PhaseRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM phase_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, notFound(err, "phase record", id)
	}
	if err := r.loadPhases(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLitePhaseRecordRepo) GetByProject(ctx context.Context, projectID string, workflow domain.Workflow) (*domain.PhaseRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM phase_records WHERE project_id = ? AND workflow = ?`,
		projectID, string(workflow))
	rec, err := scanRecord(row)
	if err != nil {
		return nil, notFound(err, string(workflow)+" record for project", projectID)
	}
	if err := r.loadPhases(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLitePhaseRecordRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.PhaseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM phase_records WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing phase records: %w", err)
	}
	var records []*domain.PhaseRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning phase record row: %w", err)
		}
		records = append(records, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phase records: %w", err)
	}

	for _, rec := range records {
		if err := r.loadPhases(ctx, rec); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// SavePhase replaces the stored data of one phase and bumps the record's
// updated_at.
func (r *SQLitePhaseRecordRepo) SavePhase(ctx context.Context, recordID string, phase int, data domain.Draft, at time.Time) error {
	doc, err := encodeDraft(data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO phase_data (record_id, phase, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(record_id, phase) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		recordID, phase, doc, formatTime(at))
	if err != nil {
		return fmt.Errorf("saving phase %d: %w", phase, err)
	}
	res, err := r.db.ExecContext(ctx, `UPDATE phase_records SET updated_at = ? WHERE id = ?`, formatTime(at), recordID)
	if err != nil {
		return fmt.Errorf("touching phase record: %w", err)
	}
	return requireAffected(res, "phase record", recordID)
}

func (r *SQLitePhaseRecordRepo) SetCurrentPhase(ctx context.Context, recordID string, phase int, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE phase_records SET current_phase = ?, updated_at = ? WHERE id = ?`,
		phase, formatTime(at), recordID)
	if err != nil {
		return fmt.Errorf("setting current phase: %w", err)
	}
	return requireAffected(res, "phase record", recordID)
}

func (r *SQLitePhaseRecordRepo) loadPhases(ctx context.Context, rec *domain.PhaseRecord) error {
	rows, err := r.db.QueryContext(ctx, `SELECT phase, data FROM phase_data WHERE record_id = ? ORDER BY phase`, rec.ID)
	if err != nil {
		return fmt.Errorf("loading phase data: %w", err)
	}
	defer rows.Close()

	rec.Phases = make(map[int]domain.Draft)
	for rows.Next() {
		var n int
		var doc string
		if err := rows.Scan(&n, &doc); err != nil {
			return fmt.Errorf("scanning phase data: %w", err)
		}
		d, err := decodeDraft(doc)
		if err != nil {
			return fmt.Errorf("phase %d: %w", n, err)
		}
		rec.Phases[n] = d
	}
	return rows.Err()
}

func scanRecord(s scanner) (*domain.PhaseRecord, error) {
	var rec domain.PhaseRecord
	var workflow, created, updated string
	if err := s.Scan(&rec.ID, &rec.ProjectID, &workflow, &rec.CurrentPhase, &created, &updated); err != nil {
		return nil, err
	}
	rec.Workflow = domain.Workflow(workflow)
	var err error
	if rec.CreatedAt, rec.UpdatedAt, err = parseTimestamps(created, updated); err != nil {
		return nil, err
	}
	return &rec, nil
}
