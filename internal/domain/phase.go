package domain

import "time"

// PhaseRecord is the server-persisted state of one workflow for one
// project. Sub-phase data is keyed by phase number (1-based).
type PhaseRecord struct {
	ID           string        `json:"id"`
	ProjectID    string        `json:"projectId"`
	Workflow     Workflow      `json:"workflow"`
	CurrentPhase int           `json:"currentPhase"`
	Phases       map[int]Draft `json:"phases"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Phase returns a copy of the stored data for phase n, or nil.
func (r *PhaseRecord) Phase(n int) Draft {
	if r == nil || r.Phases == nil {
		return nil
	}
	return r.Phases[n].Clone()
}

// MergePhase folds data into phase n, creating the map when needed.
func (r *PhaseRecord) MergePhase(n int, data Draft) {
	if r.Phases == nil {
		r.Phases = make(map[int]Draft)
	}
	r.Phases[n] = r.Phases[n].Merge(data)
}

// Clone returns a copy of r whose phase map can be mutated independently.
func (r *PhaseRecord) Clone() *PhaseRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Phases != nil {
		out.Phases = make(map[int]Draft, len(r.Phases))
		for n, d := range r.Phases {
			out.Phases[n] = d.Clone()
		}
	}
	return &out
}
