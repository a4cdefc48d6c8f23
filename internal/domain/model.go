package domain

import (
	"encoding/json"
	"time"
)

// Service-side records. The scoring result graph lives in score.go; these
// types describe what the HTTP service persists.

// Site is a geographic location under assessment.
type Site struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// AssessmentKind selects which scoring strategy an assessment runs.
type AssessmentKind string

const (
	// AssessmentSnapshot runs the simple per-country 0-10 scorer over flat
	// records, no phase dimension.
	AssessmentSnapshot AssessmentKind = "snapshot"
	// AssessmentPhases runs the four-phase SLRI analysis.
	AssessmentPhases AssessmentKind = "phases"
)

// Assessment statuses follow the job lifecycle.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Assessment is one scoring run over a snapshot of measurements.
type Assessment struct {
	ID          string          `json:"id"`
	SiteID      *string         `json:"site_id,omitempty"`
	Country     string          `json:"country"`
	Kind        AssessmentKind  `json:"kind"`
	ProjectType string          `json:"project_type"`
	Collect     bool            `json:"collect"`
	Status      string          `json:"status"`
	Progress    float64         `json:"progress"`
	Degraded    bool            `json:"degraded"`
	Input       json.RawMessage `json:"input,omitempty"`
	Result      json.RawMessage `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
