package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// ErrRunNotFound indicates the requested analysis run does not exist.
var ErrRunNotFound = errors.New("analysis run not found")

// RunStore defines the driven port for the analysis run history.
// Get returns ErrRunNotFound if no run has the given ID.
type RunStore interface {
	Record(ctx context.Context, run model.AnalysisRun) (int64, error)
	Get(ctx context.Context, id int64) (*model.AnalysisRun, error)
	ListRecent(ctx context.Context, limit int) ([]model.AnalysisRun, error)
}
