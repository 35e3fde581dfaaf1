package domain

import "time"

// Feedback is a professor's comment on one phase of a project.
type Feedback struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Phase     int       `json:"phase"`
	Workflow  Workflow  `json:"workflow"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
