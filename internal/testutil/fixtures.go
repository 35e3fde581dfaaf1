package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/google/uuid"
)

// Fixtures are built in memory with fresh UUIDs and the current time;
// callers persist them through a repository.

var courseSeq atomic.Int64

// nextCourseCode hands out TST01, TST02, ... so fixtures never collide on
// the short ID index.
func nextCourseCode() string {
	return fmt.Sprintf("TST%02d", courseSeq.Add(1))
}

func stamp() (string, time.Time) {
	return uuid.New().String(), time.Now().UTC()
}

type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) { p.ShortID = id }
}

func WithStudent(name string) ProjectOption {
	return func(p *domain.Project) { p.Student = name }
}

// NewTestProject is a "Desarrollo Web" project with a unique course code.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	id, now := stamp()
	p := &domain.Project{ID: id, ShortID: nextCourseCode(), Name: name, Course: "Desarrollo Web", CreatedAt: now, UpdatedAt: now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type RecordOption func(*domain.PhaseRecord)

func WithCurrentPhase(n int) RecordOption {
	return func(r *domain.PhaseRecord) { r.CurrentPhase = n }
}

// WithPhaseData merges data into phase n as a save would.
func WithPhaseData(n int, data domain.Draft) RecordOption {
	return func(r *domain.PhaseRecord) { r.MergePhase(n, data) }
}

// NewTestRecord starts at phase 1 with no saved answers.
func NewTestRecord(projectID string, workflow domain.Workflow, opts ...RecordOption) *domain.PhaseRecord {
	id, now := stamp()
	r := &domain.PhaseRecord{ID: id, ProjectID: projectID, Workflow: workflow, CurrentPhase: 1, CreatedAt: now, UpdatedAt: now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func NewTestItem(developmentPhaseID, title string, status domain.KanbanStatus, position int) *domain.KanbanItem {
	id, now := stamp()
	return &domain.KanbanItem{
		ID:                 id,
		DevelopmentPhaseID: developmentPhaseID,
		Title:              title,
		Status:             status,
		Position:           position,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// NewTestFeedback is a note from the course professor.
func NewTestFeedback(projectID string, workflow domain.Workflow, phase int, body string) *domain.Feedback {
	id, now := stamp()
	return &domain.Feedback{
		ID:        id,
		ProjectID: projectID,
		Workflow:  workflow,
		Phase:     phase,
		Author:    "Prof. Ruiz",
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
