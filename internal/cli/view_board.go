package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/al211185/edumobile/internal/cli/formatter"
	"github.com/al211185/edumobile/internal/domain"
	"github.com/al211185/edumobile/internal/kanban"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var boardKeys = struct {
	Left, Right, Up, Down, Grab, New, Reload key.Binding
}{
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→", "column")),
	Right:  key.NewBinding(key.WithKeys("right", "l")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "card")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Grab:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "grab/drop")),
	New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
	Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
}

type boardMoveMsg struct {
	move kanban.PendingMove
	err  error
}

type boardLoadedMsg struct {
	items []domain.KanbanItem
	err   error
	note  string
}

// boardView renders the development board and turns keyboard grab, move
// and drop into drag events. Moves are applied locally at once and
// persisted in the background; a failed request rolls the board back.
type boardView struct {
	state *SharedState
	board *kanban.Board
	ctx   context.Context

	col, idx int
	grabbed  *kanban.Location
	grabID   string
	status   string
	inflight int
}

func newBoardView(state *SharedState, board *kanban.Board) *boardView {
	return &boardView{state: state, board: board, ctx: context.Background()}
}

func (v *boardView) Init() tea.Cmd { return nil }

func (v *boardView) columns() [][]domain.KanbanItem {
	out := make([][]domain.KanbanItem, len(domain.KanbanColumns))
	for i, status := range domain.KanbanColumns {
		out[i] = v.board.Column(status)
	}
	return out
}

// slots is the number of cursor positions in column c. A grabbed card may
// also target the empty slot after the last card of another column.
func (v *boardView) slots(c int) int {
	n := len(v.board.Column(domain.KanbanColumns[c]))
	if v.grabbed != nil && domain.KanbanColumns[c] != v.grabbed.Column {
		return n + 1
	}
	return n
}

func (v *boardView) clampCursor() {
	v.col = min(max(v.col, 0), len(domain.KanbanColumns)-1)
	v.idx = min(v.idx, v.slots(v.col)-1)
	v.idx = max(v.idx, 0)
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardMoveMsg:
		v.inflight--
		if msg.err != nil {
			v.status = errorLine(msg.err)
			v.clampCursor()
			return v, nil
		}
		if v.inflight == 0 {
			v.status = formatter.StyleGreen.Render("✔ ") + formatter.Dim("Saved")
		}
		return v, nil

	case boardLoadedMsg:
		if msg.err != nil {
			v.status = errorLine(msg.err)
			return v, nil
		}
		v.board.Reset(msg.items)
		v.clampCursor()
		v.status = msg.note
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *boardView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc && v.grabbed != nil {
		return v.drop(true)
	}

	switch {
	case key.Matches(msg, boardKeys.Left):
		v.col--
		v.clampCursor()
	case key.Matches(msg, boardKeys.Right):
		v.col++
		v.clampCursor()
	case key.Matches(msg, boardKeys.Up):
		v.idx--
		v.clampCursor()
	case key.Matches(msg, boardKeys.Down):
		v.idx++
		v.clampCursor()
	case key.Matches(msg, boardKeys.Grab):
		if v.grabbed != nil {
			return v.drop(false)
		}
		return v.grab()
	case key.Matches(msg, boardKeys.New):
		if v.grabbed == nil {
			return v.newItem()
		}
	case key.Matches(msg, boardKeys.Reload):
		if v.grabbed == nil {
			return v.reload("")
		}
	}
	return nil
}

func (v *boardView) grab() tea.Cmd {
	if v.board.ReadOnly() {
		v.status = errorLine(kanban.ErrReadOnly)
		return nil
	}
	column := v.board.Column(domain.KanbanColumns[v.col])
	if v.idx >= len(column) {
		return nil
	}
	v.grabbed = &kanban.Location{Column: domain.KanbanColumns[v.col], Index: v.idx}
	v.grabID = column[v.idx].ID
	v.status = formatter.StyleYellow.Render("Moving ") + column[v.idx].Title
	return nil
}

// drop ends the drag at the cursor, or cancels it.
func (v *boardView) drop(cancel bool) tea.Cmd {
	ev := kanban.DragEvent{ItemID: v.grabID, Source: *v.grabbed}
	if !cancel {
		ev.Destination = &kanban.Location{Column: domain.KanbanColumns[v.col], Index: v.idx}
	}
	v.grabbed = nil
	v.grabID = ""
	v.status = ""

	m, moved, err := v.board.Apply(ev)
	if err != nil {
		v.status = errorLine(err)
		return nil
	}
	if !moved {
		v.clampCursor()
		return nil
	}
	v.col = indexOfColumn(m.To.Column)
	v.idx = m.To.Index
	v.inflight++
	v.status = formatter.Dim("Saving…")

	board, ctx := v.board, v.ctx
	return func() tea.Msg {
		return boardMoveMsg{move: m, err: board.Commit(ctx, m)}
	}
}

func (v *boardView) reload(note string) tea.Cmd {
	api, ctx, devID := v.state.App.Board, v.ctx, v.board.DevelopmentPhaseID()
	return func() tea.Msg {
		items, err := api.ListItems(ctx, devID)
		return boardLoadedMsg{items: items, err: err, note: note}
	}
}

func (v *boardView) newItem() tea.Cmd {
	if v.board.ReadOnly() {
		v.status = errorLine(kanban.ErrReadOnly)
		return nil
	}
	var title, column string
	column = string(domain.KanbanColumns[v.col])
	form := newItemForm(&title, &column)
	return pushView(newFormView(v.state, "New task", form, func() tea.Cmd {
		api, ctx, devID := v.state.App.Board, v.ctx, v.board.DevelopmentPhaseID()
		return func() tea.Msg {
			item := domain.KanbanItem{Title: strings.TrimSpace(title), Status: domain.KanbanStatus(column)}
			if _, err := api.CreateItem(ctx, devID, item); err != nil {
				return boardLoadedMsg{err: err}
			}
			items, err := api.ListItems(ctx, devID)
			return boardLoadedMsg{items: items, err: err, note: formatter.StyleGreen.Render("✔ ") + "Added " + item.Title}
		}
	}))
}

func (v *boardView) View() string {
	cursor := formatter.CardCursor{Column: v.col, Index: v.idx, Grabbed: v.grabbed != nil}

	items := v.board.Items()
	done := len(v.board.Column(domain.KanbanDone))

	var b strings.Builder
	b.WriteString(formatter.WorkflowBadge(domain.WorkflowDevelopment) + "  " + formatter.RenderProgress(done, len(items), 12))
	if v.board.ReadOnly() {
		b.WriteString("  " + formatter.StyleYellow.Render("read-only"))
	}
	b.WriteString("\n\n")
	b.WriteString(formatter.FormatBoard(v.columns(), cursor, v.state.Width))
	if v.grabbed != nil {
		b.WriteString("\n\n" + formatter.Dim(fmt.Sprintf("drop into %s at #%d · esc cancels", domain.KanbanColumns[v.col].Label(), v.idx+1)))
	}
	if v.status != "" {
		b.WriteString("\n\n" + v.status)
	}
	return b.String()
}

// CapturesInput keeps esc and q inside the view while a card is grabbed.
func (v *boardView) CapturesInput() bool { return v.grabbed != nil }

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "Board" }
func (v *boardView) ShortHelp() []key.Binding {
	return []key.Binding{boardKeys.Left, boardKeys.Up, boardKeys.Grab, boardKeys.New, boardKeys.Reload}
}

func indexOfColumn(status domain.KanbanStatus) int {
	for i, s := range domain.KanbanColumns {
		if s == status {
			return i
		}
	}
	return 0
}
