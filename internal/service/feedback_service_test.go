package service

import (
	"context"
	"testing"

	"github.com/al211185/edumobile/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_CreateAndList(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	p := svc.seedProject(t, "WEB01")

	fb := &domain.Feedback{ProjectID: "WEB01", Workflow: domain.WorkflowDesign, Phase: 2, Author: "Prof. Ruiz", Body: "Revisar contraste"}
	require.NoError(t, svc.feedback.Create(ctx, fb))
	assert.Equal(t, p.ID, fb.ProjectID)

	list, err := svc.feedback.List(ctx, p.ID, domain.WorkflowDesign, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Revisar contraste", list[0].Body)

	list, err = svc.feedback.List(ctx, p.ID, domain.WorkflowDesign, 3)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFeedbackService_Validation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	svc.seedProject(t, "WEB01")

	assert.ErrorIs(t, svc.feedback.Create(ctx, &domain.Feedback{ProjectID: "WEB01", Phase: 1}), domain.ErrInvalid)
	assert.ErrorIs(t, svc.feedback.Create(ctx, &domain.Feedback{ProjectID: "WEB01", Phase: 0, Body: "x"}), domain.ErrInvalid)
	assert.ErrorIs(t, svc.feedback.Create(ctx, &domain.Feedback{ProjectID: "WEB01", Phase: 1, Body: "x", Workflow: "qa"}), domain.ErrInvalid)
	assert.ErrorIs(t, svc.feedback.Create(ctx, &domain.Feedback{ProjectID: "NONE01", Phase: 1, Body: "x"}), domain.ErrNotFound)
}

func TestFeedbackService_UpdateBody(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	svc.seedProject(t, "WEB01")

	fb := &domain.Feedback{ProjectID: "WEB01", Phase: 1, Body: "borrador"}
	require.NoError(t, svc.feedback.Create(ctx, fb))

	got, err := svc.feedback.UpdateBody(ctx, fb.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", got.Body)

	_, err = svc.feedback.UpdateBody(ctx, "missing", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.feedback.UpdateBody(ctx, fb.ID, " ")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}
