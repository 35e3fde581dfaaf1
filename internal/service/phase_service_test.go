package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseService_CreateIsIdempotent(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	p := svc.seedProject(t, "WEB01")

	first, err := svc.phases.Create(ctx, p.ID, domain.WorkflowDesign)
	require.NoError(t, err)
	second, err := svc.phases.Create(ctx, "WEB01", domain.WorkflowDesign)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, first.CurrentPhase)
}

func TestPhaseService_CreateUnknownProject(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.phases.Create(context.Background(), "missing", domain.WorkflowDesign)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhaseService_SavePhaseAdvancesCurrentPhase(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	p := svc.seedProject(t, "WEB01")
	rec, err := svc.phases.Create(ctx, p.ID, domain.WorkflowDesign)
	require.NoError(t, err)

	got, err := svc.phases.SavePhase(ctx, domain.WorkflowDesign, rec.ID, 2, domain.Draft{"wireframes": "w.png"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentPhase)
	assert.Equal(t, "w.png", got.Phase(2).String("wireframes"))

	// Saving an earlier phase never moves the pointer back.
	got, err = svc.phases.SavePhase(ctx, domain.WorkflowDesign, rec.ID, 1, domain.Draft{"siteMap": "m.png"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentPhase)
	assert.Equal(t, "m.png", got.Phase(1).String("siteMap"))
	assert.Equal(t, "w.png", got.Phase(2).String("wireframes"))
}

func TestPhaseService_SavePhaseBounds(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	p := svc.seedProject(t, "WEB01")
	rec, err := svc.phases.Create(ctx, p.ID, domain.WorkflowPlanning)
	require.NoError(t, err)

	_, err = svc.phases.SavePhase(ctx, domain.WorkflowPlanning, rec.ID, 4, domain.Draft{"a": 1})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.phases.SavePhase(ctx, domain.WorkflowPlanning, rec.ID, 0, domain.Draft{"a": 1})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestPhaseService_SavePhaseWrongWorkflow(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	p := svc.seedProject(t, "WEB01")
	rec, err := svc.phases.Create(ctx, p.ID, domain.WorkflowPlanning)
	require.NoError(t, err)

	_, err = svc.phases.SavePhase(ctx, domain.WorkflowDesign, rec.ID, 1, domain.Draft{"a": 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhaseService_ObservesUseCases(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestServices(t, NewLogUseCaseObserver(&buf))
	ctx := context.Background()
	p := svc.seedProject(t, "WEB01")
	rec, err := svc.phases.Create(ctx, p.ID, domain.WorkflowDesign)
	require.NoError(t, err)

	_, err = svc.phases.SavePhase(ctx, domain.WorkflowDesign, rec.ID, 1, domain.Draft{"siteMap": "m.png"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "use_case=create-record")
	assert.Contains(t, out, "use_case=save-phase")
	assert.Contains(t, out, "current_phase=1")
}

func TestPhaseService_RefusedSaveLogsWarn(t *testing.T) {
	var buf bytes.Buffer
	svc := newTestServices(t, NewLogUseCaseObserver(&buf))

	_, err := svc.phases.SavePhase(context.Background(), domain.WorkflowDesign, "missing", 1, domain.Draft{"siteMap": "m.png"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "success=false")
}
