package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/al211185/edumobile/internal/domain"
)

// timeLayout keeps sub-second precision so rows created in the same second
// still sort in insertion order.
const timeLayout = time.RFC3339Nano

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	c, err := parseTime("created_at", created)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	u, err := parseTime("updated_at", updated)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return c, u, nil
}

// notFound converts sql.ErrNoRows into domain.ErrNotFound.
func notFound(err error, what, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, key, domain.ErrNotFound)
	}
	return fmt.Errorf("scanning %s: %w", what, err)
}

func encodeDraft(d domain.Draft) (string, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encoding phase data: %w", err)
	}
	return string(b), nil
}

func decodeDraft(s string) (domain.Draft, error) {
	var d domain.Draft
	if err := json.Unmarshal([]byte(s), &d); err != nil {
		return nil, fmt.Errorf("decoding phase data: %w", err)
	}
	if d == nil {
		d = domain.Draft{}
	}
	return d, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// requireAffected reports domain.ErrNotFound when an UPDATE matched no row.
func requireAffected(res sql.Result, what, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, key, domain.ErrNotFound)
	}
	return nil
}
