package viewmodel

import (
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

// StatusHold is how long a finished run's status label stays up before the
// panel reads "READY TO ANALYZE" again.
const StatusHold = 3 * time.Second

// Default chart canvas, in pixels.
const (
	ChartWidth  = 200.0
	ChartHeight = 150.0
)

const (
	labelReady     = "READY TO ANALYZE"
	labelAnalyzing = "ANALYZING COMMENTS..."

	unknownClass = "unknown"

	emptyBeforeAnalysis = `Click "ANALYZE NOW" to load comments`
	placeholderSummary  = `Click "ANALYZE NOW" to generate an AI-powered summary of the video's comment sentiment and key themes.`
)

// Input is the state a Popup is built from.
type Input struct {
	Snapshot application.Snapshot
	Stats    application.Stats
	Pulse    application.Pulse
	Now      time.Time
	// Backend is the outcome of a health check, or nil when none was made.
	Backend *BackendCheck
}

// BackendCheck is the result of asking the analysis backend for its health.
type BackendCheck struct {
	Health *driven.BackendHealth
	Err    error
}

// Build maps controller state onto the popup view model. It is pure: the same
// input always yields the same output.
func Build(in Input) Popup {
	snap := in.Snapshot
	filtered := application.FilterComments(snap.Comments, snap.CurrentFilter)

	return Popup{
		Status:     buildStatus(snap.Status, in.Now),
		Stats:      buildStats(in.Stats, snap.Reported.TotalComments),
		Emotions:   buildEmotions(snap.EmotionCounts, in.Pulse),
		Comments:   buildComments(filtered, snap.HasAnalysisData),
		Summary:    buildSummary(snap, in.Stats),
		Chart:      buildChart(snap, in.Now),
		Filters:    filterOptions(snap.CurrentFilter),
		ChartModes: chartModeOptions(snap.ChartMode),
		LastUpdate: formatLastUpdate(in.Pulse.LastUpdate),
		VideoID:    snap.Reported.VideoID,
		Backend:    buildBackend(in.Backend),
	}
}

func buildBackend(c *BackendCheck) *BackendViewModel {
	switch {
	case c == nil:
		return nil
	case c.Err != nil || c.Health == nil:
		return &BackendViewModel{State: BackendDown, Label: "BACKEND UNREACHABLE"}
	case c.Health.Status == "healthy":
		return &BackendViewModel{State: BackendUp, Label: "BACKEND ONLINE"}
	default:
		return &BackendViewModel{State: BackendDegraded, Label: "BACKEND " + strings.ToUpper(c.Health.Status)}
	}
}

func buildStatus(s application.Status, now time.Time) StatusViewModel {
	switch s.Phase {
	case model.PhaseAnalyzing:
		return StatusViewModel{Phase: string(s.Phase), Label: labelAnalyzing, Busy: true}
	case model.PhaseComplete, model.PhaseFailed:
		if now.Sub(s.Since) < StatusHold {
			return StatusViewModel{Phase: string(s.Phase), Label: s.Message}
		}
	}
	return StatusViewModel{Phase: string(model.PhaseReady), Label: labelReady}
}

func buildStats(stats application.Stats, reportedTotal *int) StatsViewModel {
	cards := make([]SentimentCard, 0, len(model.Sentiments))
	for _, s := range model.Sentiments {
		cards = append(cards, SentimentCard{
			Sentiment: string(s),
			Label:     strings.ToUpper(string(s)),
			Icon:      model.SentimentIcon(s),
			Color:     model.SentimentColor(s),
			Count:     stats.Counts.Get(s),
			Percent:   stats.Percentages[s],
			Meter:     min(max(stats.Percentages[s], 0), 100),
		})
	}

	return StatsViewModel{
		Total:          stats.Total,
		Cards:          cards,
		Average:        stats.Average,
		Engagement:     string(stats.Engagement),
		CountsMismatch: stats.CountsMismatch,
		ReportedTotal:  reportedTotal,
	}
}

func buildEmotions(counts model.EmotionCounts, pulse application.Pulse) []EmotionBubble {
	bubbles := make([]EmotionBubble, 0, len(model.BubbleEmotions))
	for _, e := range model.BubbleEmotions {
		bubbles = append(bubbles, EmotionBubble{
			Emotion: string(e),
			Count:   counts[e],
			Pulsing: !pulse.LastUpdate.IsZero() && pulse.Emotion == e,
		})
	}
	return bubbles
}

func buildComments(res application.FilterResult, hasData bool) CommentListViewModel {
	list := CommentListViewModel{
		Filter:     string(res.Filter),
		Items:      make([]CommentViewModel, 0, len(res.Visible)),
		MatchCount: res.MatchCount,
	}

	switch {
	case !hasData:
		list.EmptyMessage = emptyBeforeAnalysis
		return list
	case len(res.Visible) == 0:
		list.EmptyMessage = fmt.Sprintf("No %s comments found", res.Filter)
		return list
	}

	for _, c := range res.Visible {
		list.Items = append(list.Items, CommentViewModel{
			ID:        c.ID,
			Sentiment: string(c.Sentiment),
			Class:     sentimentClass(c.Sentiment),
			Icon:      model.SentimentIcon(c.Sentiment),
			Text:      c.Text,
			TextHTML:  SanitizeText(c.Text),
			Meta:      c.Timestamp + " • " + string(c.Emotion),
			Author:    c.Author,
			LikeCount: c.LikeCount,
		})
	}
	return list
}

func sentimentClass(s model.Sentiment) string {
	if s.Valid() {
		return string(s)
	}
	return unknownClass
}

func buildSummary(snap application.Snapshot, stats application.Stats) SummaryViewModel {
	switch {
	case !snap.HasAnalysisData:
		return SummaryViewModel{Kind: SummaryPlaceholder, Message: placeholderSummary, Keywords: []string{}}
	case snap.Summary.Text != "":
		return SummaryViewModel{
			Kind:     SummaryBackend,
			Message:  snap.Summary.Text,
			HTML:     RenderMarkdown(snap.Summary.Text),
			Keywords: append([]string{}, snap.Summary.Keywords...),
		}
	default:
		return SummaryViewModel{
			Kind:            SummaryFallback,
			Keywords:        []string{},
			Tone:            string(stats.Tone),
			PositivePercent: stats.Percentages[model.SentimentPositive],
			NegativePercent: stats.Percentages[model.SentimentNegative],
			CommentCount:    stats.Total,
		}
	}
}

func buildChart(snap application.Snapshot, now time.Time) ChartViewModel {
	g := application.ComputeChart(snap.ChartMode, snap.SentimentCounts, ChartWidth, ChartHeight, application.WavePhase(now))
	return ChartViewModel{Mode: string(g.Mode), Geometry: g}
}

func filterOptions(current model.Filter) []Option {
	filters := []model.Filter{model.FilterAll, model.FilterPositive, model.FilterNegative, model.FilterNeutral}
	opts := make([]Option, 0, len(filters))
	for _, f := range filters {
		opts = append(opts, Option{Value: string(f), Label: strings.ToUpper(string(f)), Active: f == current})
	}
	return opts
}

func chartModeOptions(current model.ChartMode) []Option {
	opts := make([]Option, 0, len(model.ChartModes))
	for _, m := range model.ChartModes {
		opts = append(opts, Option{Value: string(m), Label: strings.ToUpper(string(m)), Active: m == current})
	}
	return opts
}

func formatLastUpdate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04:05")
}

// Current builds the popup from the live controller state. live and backend
// may be nil.
func Current(c *application.AnalysisController, live *application.LiveUpdater, backend *BackendCheck, now time.Time) Popup {
	snap := c.Snapshot()
	in := Input{
		Snapshot: snap,
		Stats:    application.ComputeStats(len(snap.Comments), snap.SentimentCounts),
		Now:      now,
		Backend:  backend,
	}
	if live != nil {
		in.Pulse = live.Current()
	}
	return Build(in)
}
