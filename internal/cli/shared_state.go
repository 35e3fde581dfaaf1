package cli

import "github.com/al211185/edumobile/internal/domain"

// Rows taken by the header (title, rule) and status bar (rule, status, hints).
const (
	headerRows = 2
	footerRows = 3
)

// SharedState is the one copy of session context every view points at:
// the app ports, the open project and the terminal size.
type SharedState struct {
	App     *App
	Project *domain.Project
	// ReadOnly is set for professor review; views never write.
	ReadOnly bool

	Width, Height int
}

// ContentHeight is the number of rows a view may fill, never below one.
func (s *SharedState) ContentHeight() int {
	return max(s.Height-headerRows-footerRows, 1)
}
