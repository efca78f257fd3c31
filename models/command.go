package models

import "time"

type CommandType string

const (
	CmdSyncNow         CommandType = "sync_now"
	CmdInvalidateCache CommandType = "invalidate_cache"
)

// Command is queued by the CLI and picked up by a running server
type Command struct {
	ID          int64       `json:"id" db:"id"`
	Command     CommandType `json:"command" db:"command"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	ProcessedAt *time.Time  `json:"processed_at" db:"processed_at"`
}
