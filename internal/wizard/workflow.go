package wizard

import (
	"fmt"

	"github.com/al211185/edumobile/internal/domain"
)

// FieldKind selects the input widget used for a field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldTextArea
	FieldCheckbox
	FieldChecklist
)

// Field is one input of a phase form.
type Field struct {
	Key     string
	Label   string
	Kind    FieldKind
	Options []string // checklist items
}

// Step is one numbered sub-phase of a workflow.
type Step struct {
	Number   int
	Title    string
	Fields   []Field
	Required []string
}

// Workflow is an ordered list of steps sharing one PhaseRecord.
type Workflow struct {
	Name  domain.Workflow
	Steps []Step
}

// Len returns the number of steps.
func (w Workflow) Len() int { return len(w.Steps) }

// Step returns step n (1-based).
func (w Workflow) Step(n int) (Step, bool) {
	if n < 1 || n > len(w.Steps) {
		return Step{}, false
	}
	return w.Steps[n-1], true
}

// Validate lists required fields of step n that are blank in draft.
func (w Workflow) Validate(n int, draft domain.Draft) error {
	step, ok := w.Step(n)
	if !ok {
		return fmt.Errorf("%s has no phase %d", w.Name, n)
	}
	var missing []string
	for _, key := range step.Required {
		if draft.IsBlank(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Phase: n, Missing: missing}
	}
	return nil
}

// Planning is the three-step planning workflow.
var Planning = Workflow{
	Name: domain.WorkflowPlanning,
	Steps: []Step{
		{
			Number: 1,
			Title:  "Project definition",
			Fields: []Field{
				{Key: "objective", Label: "Objective", Kind: FieldTextArea},
				{Key: "audience", Label: "Target audience", Kind: FieldText},
				{Key: "scope", Label: "Scope", Kind: FieldTextArea},
			},
			Required: []string{"objective", "audience"},
		},
		{
			Number: 2,
			Title:  "Requirements",
			Fields: []Field{
				{Key: "functional", Label: "Functional requirements", Kind: FieldTextArea},
				{Key: "nonFunctional", Label: "Non-functional requirements", Kind: FieldTextArea},
			},
			Required: []string{"functional"},
		},
		{
			Number: 3,
			Title:  "Schedule",
			Fields: []Field{
				{Key: "milestones", Label: "Milestones", Kind: FieldTextArea},
				{Key: "risks", Label: "Risks", Kind: FieldTextArea},
			},
			Required: []string{"milestones"},
		},
	},
}

// Design is the four-step design workflow.
var Design = Workflow{
	Name: domain.WorkflowDesign,
	Steps: []Step{
		{
			Number: 1,
			Title:  "Site map",
			Fields: []Field{
				{Key: "siteMap", Label: "Site map file", Kind: FieldText},
				{Key: "checklist", Label: "Site map checklist", Kind: FieldChecklist, Options: []string{
					"Home page identified",
					"Navigation hierarchy defined",
					"Every page reachable",
					"Reviewed with client",
				}},
			},
			Required: []string{"siteMap"},
		},
		{
			Number: 2,
			Title:  "Wireframes",
			Fields: []Field{
				{Key: "wireframes", Label: "Wireframe files", Kind: FieldText},
				{Key: "layoutNotes", Label: "Layout notes", Kind: FieldTextArea},
				{Key: "responsive", Label: "Covers mobile layout", Kind: FieldCheckbox},
			},
			Required: []string{"wireframes"},
		},
		{
			Number: 3,
			Title:  "Visual design",
			Fields: []Field{
				{Key: "palette", Label: "Color palette", Kind: FieldText},
				{Key: "typography", Label: "Typography", Kind: FieldText},
			},
			Required: []string{"palette", "typography"},
		},
		{
			Number: 4,
			Title:  "Prototype",
			Fields: []Field{
				{Key: "prototypeUrl", Label: "Prototype URL", Kind: FieldText},
				{Key: "notes", Label: "Notes", Kind: FieldTextArea},
			},
			Required: []string{"prototypeUrl"},
		},
	},
}

// ForName returns the workflow definition with a stepped wizard.
func ForName(name domain.Workflow) (Workflow, error) {
	switch name {
	case domain.WorkflowPlanning:
		return Planning, nil
	case domain.WorkflowDesign:
		return Design, nil
	default:
		return Workflow{}, fmt.Errorf("workflow %q has no phase wizard", name)
	}
}
