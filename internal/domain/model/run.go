package model

import "time"

// RunStatus is the terminal outcome of an analysis run.
type RunStatus string

const (
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// AnalysisRun is one entry in the analysis history. It is an audit record
// only; the panel never restores its state from it.
type AnalysisRun struct {
	ID           int64
	VideoID      string
	PageURL      string
	Status       RunStatus
	ErrorKind    string
	ErrorMessage string
	CommentCount int
	Counts       SentimentCounts
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns how long the run took.
func (r AnalysisRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
