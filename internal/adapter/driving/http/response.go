package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// AnalyzeRequest is the JSON body for the analyze endpoint. Sample loads the
// backend's demo payload and ignores URL.
type AnalyzeRequest struct {
	URL    string `json:"url"`
	Sample bool   `json:"sample"`
}

// AnalyzeResponse reports a completed analysis.
type AnalyzeResponse struct {
	VideoID string        `json:"video_id"`
	RunID   int64         `json:"run_id,omitempty"`
	Stats   StatsResponse `json:"stats"`
}

// StatsResponse is the JSON representation of derived statistics.
type StatsResponse struct {
	Total          int            `json:"total"`
	Counts         CountsResponse `json:"counts"`
	Percentages    map[string]int `json:"percentages"`
	Average        string         `json:"average"`
	Engagement     string         `json:"engagement"`
	Tone           string         `json:"tone"`
	CountsMismatch bool           `json:"counts_mismatch"`
}

// CountsResponse is the JSON representation of sentiment counts.
type CountsResponse struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// BusyResponse is returned when an analysis trigger was dropped because
// another one was in flight.
type BusyResponse struct {
	Status string `json:"status"`
}

// FilterRequest is the JSON body for the filter endpoint.
type FilterRequest struct {
	Filter string `json:"filter"`
}

// FilterResponse lists the comments visible under the new filter.
type FilterResponse struct {
	Filter     string            `json:"filter"`
	MatchCount int               `json:"match_count"`
	Comments   []CommentResponse `json:"comments"`
}

// CommentResponse is the JSON representation of a processed comment.
type CommentResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	Emotion   string `json:"emotion"`
	Timestamp string `json:"timestamp"`
	Author    string `json:"author,omitempty"`
	LikeCount int64  `json:"like_count"`
}

// ChartRequest is the JSON body for the chart endpoint, echoed on success.
type ChartRequest struct {
	Mode string `json:"mode"`
}

// RunResponse is the JSON representation of one analysis run.
type RunResponse struct {
	ID           int64          `json:"id"`
	VideoID      string         `json:"video_id"`
	PageURL      string         `json:"page_url,omitempty"`
	Status       string         `json:"status"`
	ErrorKind    string         `json:"error_kind,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CommentCount int            `json:"comment_count"`
	Counts       CountsResponse `json:"counts"`
	StartedAt    string         `json:"started_at"`
	FinishedAt   string         `json:"finished_at"`
	DurationMS   int64          `json:"duration_ms"`
}

// BackendHealthResponse is the backend's health report.
type BackendHealthResponse struct {
	Status     string          `json:"status"`
	Components map[string]bool `json:"components"`
	Timestamp  string          `json:"timestamp,omitempty"`
}

func toCountsResponse(c model.SentimentCounts) CountsResponse {
	return CountsResponse{Positive: c.Positive, Negative: c.Negative, Neutral: c.Neutral}
}

func toStatsResponse(s application.Stats) StatsResponse {
	pcts := make(map[string]int, len(s.Percentages))
	for k, v := range s.Percentages {
		pcts[string(k)] = v
	}

	return StatsResponse{
		Total:          s.Total,
		Counts:         toCountsResponse(s.Counts),
		Percentages:    pcts,
		Average:        s.Average,
		Engagement:     string(s.Engagement),
		Tone:           string(s.Tone),
		CountsMismatch: s.CountsMismatch,
	}
}

func toAnalyzeResponse(o application.Outcome) AnalyzeResponse {
	return AnalyzeResponse{
		VideoID: o.VideoID,
		RunID:   o.RunID,
		Stats:   toStatsResponse(o.Stats),
	}
}

func toFilterResponse(res application.FilterResult) FilterResponse {
	comments := make([]CommentResponse, 0, len(res.Visible))
	for _, c := range res.Visible {
		comments = append(comments, CommentResponse{
			ID:        c.ID,
			Text:      c.Text,
			Sentiment: string(c.Sentiment),
			Emotion:   string(c.Emotion),
			Timestamp: c.Timestamp,
			Author:    c.Author,
			LikeCount: c.LikeCount,
		})
	}

	return FilterResponse{
		Filter:     string(res.Filter),
		MatchCount: res.MatchCount,
		Comments:   comments,
	}
}

func toRunResponse(r model.AnalysisRun) RunResponse {
	return RunResponse{
		ID:           r.ID,
		VideoID:      r.VideoID,
		PageURL:      r.PageURL,
		Status:       string(r.Status),
		ErrorKind:    r.ErrorKind,
		ErrorMessage: r.ErrorMessage,
		CommentCount: r.CommentCount,
		Counts:       toCountsResponse(r.Counts),
		StartedAt:    r.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt:   r.FinishedAt.UTC().Format(time.RFC3339),
		DurationMS:   r.Duration().Milliseconds(),
	}
}
