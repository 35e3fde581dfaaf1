package cli

import (
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/wizard"
	"github.com/charmbracelet/huh"
)

// phaseForm binds one workflow step to a huh form. Values live behind
// pointers so the current draft can be read after every update.
type phaseForm struct {
	step    wizard.Step
	initial domain.Draft
	texts   map[string]*string
	bools   map[string]*bool
	lists   map[string]*[]string
	form    *huh.Form
}

func newPhaseForm(step wizard.Step, draft domain.Draft) *phaseForm {
	f := &phaseForm{
		step:    step,
		initial: draft.Clone(),
		texts:   make(map[string]*string),
		bools:   make(map[string]*bool),
		lists:   make(map[string]*[]string),
	}
	if f.initial == nil {
		f.initial = domain.Draft{}
	}

	fields := make([]huh.Field, 0, len(step.Fields))
	for _, fd := range step.Fields {
		fields = append(fields, f.field(fd))
	}
	f.form = huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(huhTheme()).
		WithShowHelp(false)
	return f
}

func (f *phaseForm) field(fd wizard.Field) huh.Field {
	title := fd.Label
	if f.required(fd.Key) {
		title += " *"
	}

	switch fd.Kind {
	case wizard.FieldTextArea:
		v := f.initial.String(fd.Key)
		f.texts[fd.Key] = &v
		return huh.NewText().Key(fd.Key).Title(title).Lines(3).Value(&v)
	case wizard.FieldCheckbox:
		v := f.initial.Bool(fd.Key)
		f.bools[fd.Key] = &v
		return huh.NewConfirm().Key(fd.Key).Title(title).Affirmative("Yes").Negative("No").Value(&v)
	case wizard.FieldChecklist:
		v := stringList(f.initial[fd.Key])
		f.lists[fd.Key] = &v
		return huh.NewMultiSelect[string]().Key(fd.Key).Title(title).
			Options(huh.NewOptions(fd.Options...)...).
			Value(&v)
	default:
		v := f.initial.String(fd.Key)
		f.texts[fd.Key] = &v
		return huh.NewInput().Key(fd.Key).Title(title).Value(&v)
	}
}

func (f *phaseForm) required(key string) bool {
	for _, k := range f.step.Required {
		if k == key {
			return true
		}
	}
	return false
}

// Draft returns the form's current values layered over the initial draft.
// Blank values are left out unless the key was already present, so an
// untouched form reproduces its initial draft exactly.
func (f *phaseForm) Draft() domain.Draft {
	out := f.initial.Clone()
	set := func(key string, v any, blank bool) {
		if _, had := f.initial[key]; blank && !had {
			return
		}
		out[key] = v
	}
	for k, v := range f.texts {
		set(k, *v, *v == "")
	}
	for k, v := range f.bools {
		set(k, *v, !*v)
	}
	for k, v := range f.lists {
		list := append([]string{}, (*v)...)
		set(k, list, len(list) == 0)
	}
	return out
}

// stringList converts a JSON-decoded list into strings.
func stringList(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
