package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWorkflow(t *testing.T) {
	w, err := ParseWorkflow(" Design ")
	require.NoError(t, err)
	assert.Equal(t, WorkflowDesign, w)

	_, err = ParseWorkflow("deploy")
	assert.Error(t, err)
}

func TestDraftMerge_DoesNotMutateReceiver(t *testing.T) {
	base := Draft{"title": "Portafolio", "done": false}
	merged := base.Merge(Draft{"done": true, "notes": "ok"})

	assert.Equal(t, false, base["done"])
	assert.Equal(t, true, merged["done"])
	assert.Equal(t, "Portafolio", merged["title"])
	assert.Equal(t, "ok", merged["notes"])
}

func TestDraftIsBlank(t *testing.T) {
	d := Draft{
		"empty":  "",
		"text":   "x",
		"unset":  nil,
		"false":  false,
		"list":   []any{},
		"filled": []any{"a"},
	}
	assert.True(t, d.IsBlank("empty"))
	assert.False(t, d.IsBlank("text"))
	assert.True(t, d.IsBlank("unset"))
	assert.True(t, d.IsBlank("missing"))
	assert.True(t, d.IsBlank("false"))
	assert.True(t, d.IsBlank("list"))
	assert.False(t, d.IsBlank("filled"))
}

func TestPhaseRecord_MergePhaseAndClone(t *testing.T) {
	r := &PhaseRecord{ID: "rec-1"}
	r.MergePhase(2, Draft{"siteMap": "map.png"})
	r.MergePhase(2, Draft{"checklist": []any{true, false}})

	clone := r.Clone()
	clone.MergePhase(2, Draft{"siteMap": "other.png"})

	assert.Equal(t, "map.png", r.Phase(2).String("siteMap"))
	assert.Equal(t, "other.png", clone.Phase(2).String("siteMap"))
	assert.Len(t, r.Phase(2), 2)
	assert.Nil(t, r.Phase(3))
}

func TestKanbanStatusValid(t *testing.T) {
	for _, c := range KanbanColumns {
		assert.True(t, c.Valid())
	}
	assert.False(t, KanbanStatus("Blocked").Valid())
	assert.Equal(t, "In Progress", KanbanInProgress.Label())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Phase: 1, Missing: []string{"objective", "audience"}}
	assert.Equal(t, "phase 1: required fields missing: objective, audience", err.Error())
	assert.True(t, IsValidation(err))
}
