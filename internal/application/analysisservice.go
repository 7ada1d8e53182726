package application

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

// DefaultMaxComments is the number of comments requested per analysis.
const DefaultMaxComments = 100

// Outcome describes what a call to Analyze did.
type Outcome struct {
	// Dropped is set when another analysis was already in flight and this
	// trigger was ignored. Nothing else in the outcome is populated then.
	Dropped bool
	VideoID string
	RunID   int64
	Stats   Stats
}

// AnalysisService runs analysis requests against the backend and feeds the
// results into the controller. At most one analysis runs at a time.
type AnalysisService struct {
	controller  *AnalysisController
	client      driven.AnalyzerClient
	runStore    driven.RunStore
	maxComments int
	analyzing   atomic.Bool
	now         func() time.Time
	logger      *slog.Logger
}

// NewAnalysisService creates an AnalysisService. runStore may be nil, in which
// case runs are not recorded.
func NewAnalysisService(
	controller *AnalysisController,
	client driven.AnalyzerClient,
	runStore driven.RunStore,
	maxComments int,
	logger *slog.Logger,
) *AnalysisService {
	if maxComments <= 0 {
		maxComments = DefaultMaxComments
	}
	return &AnalysisService{
		controller:  controller,
		client:      client,
		runStore:    runStore,
		maxComments: maxComments,
		now:         time.Now,
		logger:      logger,
	}
}

// IsAnalyzing reports whether an analysis is currently in flight.
func (s *AnalysisService) IsAnalyzing() bool {
	return s.analyzing.Load()
}

// Analyze extracts the video id from pageURL, requests its analysis and
// ingests the result. A call made while another analysis is in flight is
// dropped and returns Outcome{Dropped: true} with a nil error.
//
// Once started, the request is not cancelled by ctx; it runs until the
// transport completes or fails. On any failure the controller's data is left
// as it was, the status moves to failed, and the error is returned.
func (s *AnalysisService) Analyze(ctx context.Context, pageURL string) (Outcome, error) {
	return s.run(ctx, pageURL, func(ctx context.Context) (string, *model.AnalysisPayload, error) {
		videoID, err := ExtractVideoID(pageURL)
		if err != nil {
			return "", nil, err
		}
		s.logger.Info("analyzing video", "video_id", videoID)

		payload, err := s.client.Analyze(ctx, videoID, s.maxComments)
		return videoID, payload, err
	})
}

// LoadSample ingests the backend's canned demo payload through the same path
// as a real analysis.
func (s *AnalysisService) LoadSample(ctx context.Context) (Outcome, error) {
	return s.run(ctx, "", func(ctx context.Context) (string, *model.AnalysisPayload, error) {
		payload, err := s.client.SampleData(ctx)
		if err != nil {
			return "", nil, err
		}
		return payload.VideoID, payload, nil
	})
}

// BackendHealth passes through the backend's health report.
func (s *AnalysisService) BackendHealth(ctx context.Context) (*driven.BackendHealth, error) {
	return s.client.Health(ctx)
}

type fetchFunc func(ctx context.Context) (videoID string, payload *model.AnalysisPayload, err error)

func (s *AnalysisService) run(ctx context.Context, pageURL string, fetch fetchFunc) (Outcome, error) {
	if !s.analyzing.CompareAndSwap(false, true) {
		s.logger.Debug("analysis already in progress, trigger dropped")
		return Outcome{Dropped: true}, nil
	}
	defer s.analyzing.Store(false)

	ctx = context.WithoutCancel(ctx)
	started := s.now()
	s.controller.SetStatus(model.PhaseAnalyzing, "ANALYZING COMMENTS...")

	videoID, payload, err := fetch(ctx)
	if err == nil {
		err = s.controller.Ingest(payload)
	}

	run := model.AnalysisRun{
		VideoID:    videoID,
		PageURL:    pageURL,
		StartedAt:  started,
		FinishedAt: s.now(),
	}

	if err != nil {
		s.logger.Error("analysis failed", "video_id", videoID, "kind", model.ErrorKind(err), "error", err)
		s.controller.SetStatus(model.PhaseFailed, "ANALYSIS FAILED")

		run.Status = model.RunStatusFailed
		run.ErrorKind = model.ErrorKind(err)
		run.ErrorMessage = err.Error()
		s.record(ctx, run)

		return Outcome{VideoID: videoID}, err
	}

	s.controller.SetStatus(model.PhaseComplete, "ANALYSIS COMPLETE")

	stats := s.controller.DerivedStats()
	run.Status = model.RunStatusComplete
	run.CommentCount = stats.Total
	run.Counts = stats.Counts
	runID := s.record(ctx, run)

	s.logger.Info("analysis complete",
		"video_id", videoID,
		"comments", stats.Total,
		"engagement", stats.Engagement,
		"duration", run.Duration().Round(time.Millisecond),
	)

	return Outcome{VideoID: videoID, RunID: runID, Stats: stats}, nil
}

// record persists a run. History is best-effort: a store failure is logged
// and never changes the analysis outcome.
func (s *AnalysisService) record(ctx context.Context, run model.AnalysisRun) int64 {
	if s.runStore == nil {
		return 0
	}

	id, err := s.runStore.Record(ctx, run)
	if err != nil {
		s.logger.Error("failed to record analysis run", "video_id", run.VideoID, "error", err)
		return 0
	}
	return id
}
