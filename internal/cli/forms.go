package cli

import (
	"errors"
	"strings"

	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errTaskTitle = errors.New("task title is required")

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// huhTheme colours huh forms with the board palette: orange for the
// focused field, dim grey for the rest.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	f := &t.Focused
	f.Title = fg(formatter.ColorHeader).Bold(true)
	f.Description = fg(formatter.ColorDim)
	f.ErrorMessage = fg(formatter.ColorRed)
	f.SelectSelector = fg(formatter.ColorHeader)
	f.SelectedOption = fg(formatter.ColorGreen)
	f.UnselectedOption = fg(formatter.ColorFg)
	f.MultiSelectSelector = fg(formatter.ColorHeader)
	f.SelectedPrefix = fg(formatter.ColorGreen).SetString("[x] ")
	f.UnselectedPrefix = fg(formatter.ColorDim).SetString("[ ] ")
	f.FocusedButton = fg(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	f.BlurredButton = fg(formatter.ColorDim).Padding(0, 1)
	f.TextInput.Cursor = fg(formatter.ColorHeader)
	f.TextInput.Prompt = fg(formatter.ColorHeader)
	f.TextInput.Text = fg(formatter.ColorFg)
	f.TextInput.Placeholder = fg(formatter.ColorDim)

	b := &t.Blurred
	for _, s := range []*lipgloss.Style{&b.Title, &b.SelectSelector, &b.SelectedOption, &b.UnselectedOption, &b.TextInput.Prompt, &b.TextInput.Text} {
		*s = fg(formatter.ColorDim)
	}
	return t
}

// newItemForm asks for a card title and the column it starts in.
func newItemForm(title, column *string) *huh.Form {
	columns := make([]huh.Option[string], len(domain.KanbanColumns))
	for i, status := range domain.KanbanColumns {
		columns[i] = huh.NewOption(status.Label(), string(status))
	}
	if *column == "" {
		*column = string(domain.KanbanBacklog)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Placeholder("Build the contact form").
				Value(title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errTaskTitle
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Column").Options(columns...).Value(column),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

// formView puts a one-shot huh form on the view stack. Submitting runs
// submit and pops the view; esc pops it with a "Cancelled." line.
type formView struct {
	state  *SharedState
	title  string
	form   *huh.Form
	submit func() tea.Cmd
}

func newFormView(state *SharedState, title string, form *huh.Form, submit func() tea.Cmd) *formView {
	return &formView{state: state, title: title, form: form, submit: submit}
}

func (v *formView) Init() tea.Cmd { return v.form.Init() }

func (v *formView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		return v, finishForm(outputCmd(formatter.Dim("Cancelled.")))
	}

	next, cmd := v.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State != huh.StateCompleted {
		return v, cmd
	}

	var then tea.Cmd
	if v.submit != nil {
		then = v.submit()
	}
	return v, finishForm(then)
}

func (v *formView) View() string { return v.form.View() }

// CapturesInput keeps q and the board letters inside the form.
func (v *formView) CapturesInput() bool { return true }

func (v *formView) ID() ViewID    { return ViewForm }
func (v *formView) Title() string { return v.title }

func (v *formView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}
