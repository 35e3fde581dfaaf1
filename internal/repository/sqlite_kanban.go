package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/al211185/edumobile/internal/db"
	"github.com/al211185/edumobile/internal/domain"
)

// SQLiteKanbanRepo implements KanbanRepo.
type SQLiteKanbanRepo struct {
	db db.DBTX
}

func NewSQLiteKanbanRepo(conn db.DBTX) *SQLiteKanbanRepo {
	return &SQLiteKanbanRepo{db: conn}
}

const kanbanColumns = `id, development_phase_id, title, description, status, position, created_at, updated_at`

// kanbanOrder sorts rows into board order: column, then position.
const kanbanOrder = `ORDER BY CASE status
		WHEN 'Backlog' THEN 0 WHEN 'Todo' THEN 1 WHEN 'InProgress' THEN 2 ELSE 3 END,
		position, created_at, id`

func (r *SQLiteKanbanRepo) Create(ctx context.Context, item *domain.KanbanItem) error {
	query := `INSERT INTO kanban_items (` + kanbanColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.DevelopmentPhaseID,
		item.Title,
		item.Description,
		string(item.Status),
		item.Position,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting kanban item: %w", err)
	}
	return nil
}

func (r *SQLiteKanbanRepo) GetByID(ctx context.Context, id string) (*domain.KanbanItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+kanbanColumns+` FROM kanban_items WHERE id = ?`, id)
	item, err := scanKanbanItem(row)
	if err != nil {
		return nil, notFound(err, "kanban item", id)
	}
	return item, nil
}

func (r *SQLiteKanbanRepo) ListByPhase(ctx context.Context, developmentPhaseID string) ([]*domain.KanbanItem, error) {
	return r.list(ctx,
		`SELECT `+kanbanColumns+` FROM kanban_items WHERE development_phase_id = ? `+kanbanOrder,
		developmentPhaseID)
}

func (r *SQLiteKanbanRepo) ListColumn(ctx context.Context, developmentPhaseID string, status domain.KanbanStatus) ([]*domain.KanbanItem, error) {
	return r.list(ctx,
		`SELECT `+kanbanColumns+` FROM kanban_items WHERE development_phase_id = ? AND status = ? `+kanbanOrder,
		developmentPhaseID, string(status))
}

func (r *SQLiteKanbanRepo) SetPlacement(ctx context.Context, id string, status domain.KanbanStatus, position int, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE kanban_items SET status = ?, position = ?, updated_at = ? WHERE id = ?`,
		string(status), position, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("placing kanban item: %w", err)
	}
	return requireAffected(res, "kanban item", id)
}

func (r *SQLiteKanbanRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM kanban_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting kanban item: %w", err)
	}
	return nil
}

func (r *SQLiteKanbanRepo) list(ctx context.Context, query string, args ...any) ([]*domain.KanbanItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing kanban items: %w", err)
	}
	defer rows.Close()

	var items []*domain.KanbanItem
	for rows.Next() {
		item, err := scanKanbanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning kanban item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating kanban items: %w", err)
	}
	return items, nil
}

func scanKanbanItem(s scanner) (*domain.KanbanItem, error) {
	var it domain.KanbanItem
	var status, created, updated string
	if err := s.Scan(&it.ID, &it.DevelopmentPhaseID, &it.Title, &it.Description, &status, &it.Position, &created, &updated); err != nil {
		return nil, err
	}
	it.Status = domain.KanbanStatus(status)
	var err error
	if it.CreatedAt, it.UpdatedAt, err = parseTimestamps(created, updated); err != nil {
		return nil, err
	}
	return &it, nil
}
