package api

import (
	"github.com/al211185/edumobile/internal/kanban"
	"github.com/al211185/edumobile/internal/wizard"
)

// Compile-time verification that Client backs the wizard and the board.
var (
	_ wizard.PhaseStore    = (*Client)(nil)
	_ wizard.FeedbackStore = (*Client)(nil)
	_ kanban.ItemStore     = (*Client)(nil)
)
