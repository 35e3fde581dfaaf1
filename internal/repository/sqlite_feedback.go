package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/al211185/edumobile/internal/db"
	"github.com/al211185/edumobile/internal/domain"
)

// SQLiteFeedbackRepo implements FeedbackRepo.
type SQLiteFeedbackRepo struct {
	db db.DBTX
}

func NewSQLiteFeedbackRepo(conn db.DBTX) *SQLiteFeedbackRepo {
	return &SQLiteFeedbackRepo{db: conn}
}

const feedbackColumns = `id, project_id, phase, workflow, author, body, created_at, updated_at`

func (r *SQLiteFeedbackRepo) Create(ctx context.Context, f *domain.Feedback) error {
	query := `INSERT INTO feedback (` + feedbackColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		f.ID,
		f.ProjectID,
		f.Phase,
		string(f.Workflow),
		f.Author,
		f.Body,
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

func (r *SQLiteFeedbackRepo) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+feedbackColumns+` FROM feedback WHERE id = ?`, id)
	f, err := scanFeedback(row)
	if err != nil {
		return nil, notFound(err, "feedback", id)
	}
	return f, nil
}

// ListByPhase returns feedback for one phase, oldest first. An empty
// workflow matches entries of every workflow, including legacy rows that
// carry none.
func (r *SQLiteFeedbackRepo) ListByPhase(ctx context.Context, projectID string, workflow domain.Workflow, phase int) ([]*domain.Feedback, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback WHERE project_id = ? AND phase = ?`
	args := []any{projectID, phase}
	if workflow != "" {
		query += ` AND (workflow = ? OR workflow = '')`
		args = append(args, string(workflow))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing feedback: %w", err)
	}
	defer rows.Close()

	var out []*domain.Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning feedback row: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feedback: %w", err)
	}
	return out, nil
}

func (r *SQLiteFeedbackRepo) UpdateBody(ctx context.Context, id, body string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE feedback SET body = ?, updated_at = ? WHERE id = ?`, body, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("updating feedback: %w", err)
	}
	return requireAffected(res, "feedback", id)
}

func scanFeedback(s scanner) (*domain.Feedback, error) {
	var f domain.Feedback
	var workflow, created, updated string
	if err := s.Scan(&f.ID, &f.ProjectID, &f.Phase, &workflow, &f.Author, &f.Body, &created, &updated); err != nil {
		return nil, err
	}
	f.Workflow = domain.Workflow(workflow)
	var err error
	if f.CreatedAt, f.UpdatedAt, err = parseTimestamps(created, updated); err != nil {
		return nil, err
	}
	return &f, nil
}
