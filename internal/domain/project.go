package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Course codes look like WEB01 or DISE0234.
var courseCode = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project is one student's course project. ShortID is the course code the
// student types on the command line; ID is the backend's UUID.
type Project struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Name      string    `json:"name"`
	Course    string    `json:"course,omitempty"`
	Student   string    `json:"student,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize trims free text and upper-cases the short ID.
func (p *Project) Normalize() {
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	p.Name = strings.TrimSpace(p.Name)
	p.Course = strings.TrimSpace(p.Course)
	p.Student = strings.TrimSpace(p.Student)
}

// Validate reports a missing name or a short ID that is not a course code.
// An empty short ID is allowed; the project is then addressed by UUID.
// Errors wrap ErrInvalid.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is required: %w", ErrInvalid)
	}
	if p.ShortID != "" && !courseCode.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q is not a course code like WEB01: %w", p.ShortID, ErrInvalid)
	}
	return nil
}

// Ref is how the project is shown and typed back: the short ID when set,
// otherwise the first block of the UUID.
func (p *Project) Ref() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	head, _, _ := strings.Cut(p.ID, "-")
	return head
}
