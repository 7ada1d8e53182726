package driven

import (
	"context"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// BackendHealth is the backend's own view of its components.
type BackendHealth struct {
	Status     string
	Components map[string]bool
	Timestamp  string
}

// AnalyzerClient defines the driven port for the external comment analysis
// service. Sentiment classification and summarisation happen behind it.
type AnalyzerClient interface {
	// Analyze requests analysis of up to maxComments comments for videoID.
	// Network failures and non-success statuses return *model.TransportError.
	// A success response that cannot be decoded or lacks required fields
	// returns an error wrapping model.ErrMalformedResponse.
	Analyze(ctx context.Context, videoID string, maxComments int) (*model.AnalysisPayload, error)

	// Health reports whether the backend and its components are up.
	Health(ctx context.Context) (*BackendHealth, error)

	// SampleData returns the backend's canned demo payload.
	SampleData(ctx context.Context) (*model.AnalysisPayload, error)
}
