package repository

import (
	"context"
	"fmt"

	"github.com/al211185/edumobile/internal/db"
	"github.com/al211185/edumobile/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo. Short IDs match
// case-insensitively; the unique index only covers non-empty ones.
type SQLiteProjectRepo struct {
	db db.DBTX
}

func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const selectProject = `SELECT id, short_id, name, course, student, created_at, updated_at FROM projects`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, short_id, name, course, student, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ShortID, p.Name, p.Course, p.Student,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.Ref(), err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return r.one(ctx, `WHERE id = ?`, id)
}

func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	return r.one(ctx, `WHERE short_id != '' AND UPPER(short_id) = UPPER(?)`, shortID)
}

func (r *SQLiteProjectRepo) one(ctx context.Context, where, key string) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, selectProject+" "+where, key))
	if err != nil {
		return nil, notFound(err, "project", key)
	}
	return p, nil
}

// List returns projects oldest first.
func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, selectProject+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes the project; its records, cards and feedback cascade.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return requireAffected(res, "project", id)
}

func scanProject(s scanner) (*domain.Project, error) {
	var (
		p                domain.Project
		created, updated string
	)
	if err := s.Scan(&p.ID, &p.ShortID, &p.Name, &p.Course, &p.Student, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	p.CreatedAt, p.UpdatedAt, err = parseTimestamps(created, updated)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
