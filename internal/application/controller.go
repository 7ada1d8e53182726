// Package application contains the panel's state controller and the
// use-case services that drive it.
package application

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// MaxVisibleComments caps how many filtered comments are surfaced for
// rendering. It limits presentation only; match counts use the full set.
const MaxVisibleComments = 8

// Status is the analysis status signal.
type Status struct {
	Phase   model.Phase
	Message string
	Since   time.Time
}

// Summary holds the backend's free-text summary and keywords for the last
// successful run. Both are empty when the backend supplied none.
type Summary struct {
	Text     string
	Keywords []string
}

// Reported holds figures the backend reports about its own run. They are shown
// for reference and never feed derived statistics.
type Reported struct {
	VideoID              string
	TotalComments        *int
	SentimentPercentages map[model.Sentiment]float64
	AnalyzedAt           string
}

// Snapshot is an immutable copy of the controller state. Slices and maps are
// owned by the snapshot, so callers may read it without holding any lock.
type Snapshot struct {
	Comments        []model.Comment
	SentimentCounts model.SentimentCounts
	EmotionCounts   model.EmotionCounts
	HasAnalysisData bool
	CurrentFilter   model.Filter
	ChartMode       model.ChartMode
	Summary         Summary
	Reported        Reported
	Status          Status
	IngestedAt      time.Time
}

// FilterResult is the answer to a filter query.
type FilterResult struct {
	Filter model.Filter
	// Visible holds at most MaxVisibleComments matches, head first.
	Visible []model.Comment
	// MatchCount is the size of the full filtered set.
	MatchCount int
}

// AnalysisController owns the single source of truth for ingested analysis
// data. Each successful ingest replaces the whole result; failed runs leave it
// untouched. All methods are safe for concurrent use.
type AnalysisController struct {
	mu     sync.RWMutex
	state  Snapshot
	now    func() time.Time
	logger *slog.Logger
}

// NewAnalysisController creates a controller in the empty pre-analysis state:
// no comments, zero counts, filter "all", pie chart, status ready.
func NewAnalysisController(logger *slog.Logger) *AnalysisController {
	return newAnalysisController(logger, time.Now)
}

func newAnalysisController(logger *slog.Logger, now func() time.Time) *AnalysisController {
	return &AnalysisController{
		state: Snapshot{
			Comments:      []model.Comment{},
			EmotionCounts: model.NewEmotionCounts(),
			CurrentFilter: model.FilterAll,
			ChartMode:     model.ChartPie,
			Summary:       Summary{Keywords: []string{}},
			Status:        Status{Phase: model.PhaseReady, Since: now()},
		},
		now:    now,
		logger: logger,
	}
}

// Ingest converts a decoded analysis payload into state. On a validation
// failure the previous state is left intact and an error wrapping
// model.ErrMalformedResponse is returned.
//
// Sentiment counts are taken from the payload as reported; emotion counts are
// recomputed from the comments.
func (c *AnalysisController) Ingest(payload *model.AnalysisPayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}

	now := c.now()

	comments := make([]model.Comment, 0, len(payload.Comments))
	for _, raw := range payload.Comments {
		comments = append(comments, toComment(raw, now))
	}

	emotions := countEmotions(comments)
	counts := *payload.SentimentCounts

	summary := Summary{Keywords: []string{}}
	if payload.HasSummary() {
		summary.Text = payload.Summary
		summary.Keywords = append(summary.Keywords, payload.Keywords...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Comments = comments
	c.state.SentimentCounts = counts
	c.state.EmotionCounts = emotions
	c.state.HasAnalysisData = true
	c.state.Summary = summary
	c.state.Reported = Reported{
		VideoID:              payload.VideoID,
		TotalComments:        payload.TotalComments,
		SentimentPercentages: copyPercentages(payload.SentimentPercentages),
		AnalyzedAt:           payload.AnalyzedAt,
	}
	c.state.IngestedAt = now

	if counts.Total() != len(comments) {
		c.logger.Warn("reported sentiment counts disagree with comment list",
			"reported_total", counts.Total(),
			"comments", len(comments),
		)
	}

	return nil
}

// Filter moves the filter cursor and returns the matching comments. It never
// modifies the comment list.
func (c *AnalysisController) Filter(f model.Filter) FilterResult {
	c.mu.Lock()
	c.state.CurrentFilter = f
	comments := c.state.Comments
	c.mu.Unlock()

	return FilterComments(comments, f)
}

// SetChartMode changes how the sentiment chart is drawn.
func (c *AnalysisController) SetChartMode(mode model.ChartMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ChartMode = mode
}

// SetStatus records a new status signal stamped with the current time.
func (c *AnalysisController) SetStatus(phase model.Phase, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Status = Status{Phase: phase, Message: message, Since: c.now()}
}

// DerivedStats computes statistics from the current state.
func (c *AnalysisController) DerivedStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ComputeStats(len(c.state.Comments), c.state.SentimentCounts)
}

// Snapshot returns a deep copy of the current state.
func (c *AnalysisController) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state
	s.Comments = append([]model.Comment(nil), c.state.Comments...)
	s.EmotionCounts = make(model.EmotionCounts, len(c.state.EmotionCounts))
	for k, v := range c.state.EmotionCounts {
		s.EmotionCounts[k] = v
	}
	s.Summary.Keywords = append([]string{}, c.state.Summary.Keywords...)
	s.Reported.SentimentPercentages = copyPercentages(c.state.Reported.SentimentPercentages)
	return s
}

// FilterComments returns the comments matching f in their original order,
// with at most MaxVisibleComments surfaced.
func FilterComments(comments []model.Comment, f model.Filter) FilterResult {
	matched := make([]model.Comment, 0, len(comments))
	for _, cm := range comments {
		if f.Matches(cm.Sentiment) {
			matched = append(matched, cm)
		}
	}

	visible := matched
	if len(visible) > MaxVisibleComments {
		visible = visible[:MaxVisibleComments]
	}

	return FilterResult{
		Filter:     f,
		Visible:    visible,
		MatchCount: len(matched),
	}
}

func toComment(raw model.RawComment, now time.Time) model.Comment {
	published, err := time.Parse(time.RFC3339, raw.PublishedAt)
	if err != nil {
		published = time.Time{}
	}

	return model.Comment{
		ID:          raw.ID,
		Text:        raw.Text,
		Sentiment:   raw.Sentiment,
		Emotion:     model.EmotionFor(raw.Sentiment),
		Timestamp:   model.RelativeTimestamp(published, now),
		Author:      raw.Author,
		LikeCount:   raw.LikeCount,
		PublishedAt: published,
		Scores:      raw.Scores,
	}
}

func countEmotions(comments []model.Comment) model.EmotionCounts {
	counts := model.NewEmotionCounts()
	for _, cm := range comments {
		counts[cm.Emotion]++
	}
	return counts
}

func copyPercentages(src map[model.Sentiment]float64) map[model.Sentiment]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[model.Sentiment]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
