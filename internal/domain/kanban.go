package domain

import "time"

// KanbanStatus is the column a task card sits in.
type KanbanStatus string

const (
	KanbanBacklog    KanbanStatus = "Backlog"
	KanbanTodo       KanbanStatus = "Todo"
	KanbanInProgress KanbanStatus = "InProgress"
	KanbanDone       KanbanStatus = "Done"
)

// KanbanColumns is the fixed, ordered set of board columns.
var KanbanColumns = []KanbanStatus{
	KanbanBacklog,
	KanbanTodo,
	KanbanInProgress,
	KanbanDone,
}

// Valid reports whether s is one of the declared columns.
func (s KanbanStatus) Valid() bool {
	for _, c := range KanbanColumns {
		if s == c {
			return true
		}
	}
	return false
}

// Label returns the column heading shown on the board.
func (s KanbanStatus) Label() string {
	if s == KanbanInProgress {
		return "In Progress"
	}
	return string(s)
}

// KanbanItem is one task card on a development-phase board.
type KanbanItem struct {
	ID                 string       `json:"id"`
	DevelopmentPhaseID string       `json:"developmentPhaseId"`
	Title              string       `json:"title"`
	Description        string       `json:"description,omitempty"`
	Status             KanbanStatus `json:"status"`
	Position           int          `json:"position"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// KanbanMove is the body of a single-item move request.
type KanbanMove struct {
	Status KanbanStatus `json:"status"`
	Order  int          `json:"order"`
}
