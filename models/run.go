package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// SyncRun records one catalog sync from the upstream store into the local one
type SyncRun struct {
	ID         int64      `json:"id" db:"id"`
	Source     string     `json:"source" db:"source"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at" db:"finished_at"`
	Status     RunStatus  `json:"status" db:"status"`
	Fetched    int        `json:"fetched" db:"fetched"`
	Upserted   int        `json:"upserted" db:"upserted"`
	Skipped    int        `json:"skipped" db:"skipped"`
	Deleted    int        `json:"deleted" db:"deleted"`
	Error      string     `json:"error,omitempty" db:"error"`
}

// Duration is zero while the run is still going
func (r *SyncRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
