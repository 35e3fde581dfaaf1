package domain

import (
	"fmt"
	"strings"
)

// Workflow names one stage of a project's lifecycle. Each workflow owns a
// single PhaseRecord per project and is split into numbered sub-phases.
type Workflow string

const (
	WorkflowPlanning    Workflow = "planning"
	WorkflowDesign      Workflow = "design"
	WorkflowDevelopment Workflow = "development"
	WorkflowEvaluation  Workflow = "evaluation"
)

// Workflows lists every workflow in lifecycle order.
var Workflows = []Workflow{
	WorkflowPlanning,
	WorkflowDesign,
	WorkflowDevelopment,
	WorkflowEvaluation,
}

// ParseWorkflow resolves a workflow name case-insensitively.
func ParseWorkflow(s string) (Workflow, error) {
	w := Workflow(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Workflows {
		if w == known {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown workflow %q (want one of planning, design, development, evaluation)", s)
}

// Label returns the display name for the workflow.
func (w Workflow) Label() string {
	switch w {
	case WorkflowPlanning:
		return "Planning"
	case WorkflowDesign:
		return "Design"
	case WorkflowDevelopment:
		return "Development"
	case WorkflowEvaluation:
		return "Evaluation"
	default:
		return string(w)
	}
}
