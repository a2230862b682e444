package cyclelog

import "time"

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Record is one scheduler cycle's bookkeeping row. It powers the ops status
// endpoint and the daily summary; it carries no delivery state of its own.
type Record struct {
	ID               string
	Trigger          string
	StartedAt        time.Time
	FinishedAt       *time.Time
	FixturesExamined int
	FixturesAnalyzed int
	BetsDetected     int
	AlertsSent       int
	AlertsFailed     int
	SkippedNoData    int
	Status           Status
	ErrorMessage     string
}

const (
	TriggerInterval = "interval"
	TriggerManual   = "manual"
	TriggerStartup  = "startup"
)
