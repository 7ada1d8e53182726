// Package viewmodel defines presentation-ready structs for the popup and the
// pure mapping that builds them from controller state. View models decouple
// rendering (HTML, JSON, terminal) from domain and application types.
package viewmodel

import "github.com/ericfisherdev/commentpanel/internal/application"

// Summary kinds.
const (
	SummaryPlaceholder = "placeholder"
	SummaryBackend     = "backend"
	SummaryFallback    = "fallback"
)

// Popup is everything the panel shows at one instant.
type Popup struct {
	Status     StatusViewModel      `json:"status"`
	Stats      StatsViewModel       `json:"stats"`
	Emotions   []EmotionBubble      `json:"emotions"`
	Comments   CommentListViewModel `json:"comments"`
	Summary    SummaryViewModel     `json:"summary"`
	Chart      ChartViewModel       `json:"chart"`
	Filters    []Option             `json:"filters"`
	ChartModes []Option             `json:"chart_modes"`
	LastUpdate string               `json:"last_update,omitempty"`
	VideoID    string               `json:"video_id,omitempty"`
	// Backend is nil when no health check was made for this render.
	Backend *BackendViewModel `json:"backend,omitempty"`
}

// Backend indicator states.
const (
	BackendUp       = "up"
	BackendDegraded = "degraded"
	BackendDown     = "down"
)

// BackendViewModel is the analysis backend indicator in the footer.
type BackendViewModel struct {
	State string `json:"state"`
	Label string `json:"label"`
}

// StatusViewModel is the status signal next to the analyze button.
type StatusViewModel struct {
	Phase string `json:"phase"`
	Label string `json:"label"`
	Busy  bool   `json:"busy"`
}

// StatsViewModel holds the header total and the sentiment cards.
type StatsViewModel struct {
	Total          int             `json:"total"`
	Cards          []SentimentCard `json:"cards"`
	Average        string          `json:"average"`
	Engagement     string          `json:"engagement"`
	CountsMismatch bool            `json:"counts_mismatch"`
	// ReportedTotal is the backend's own comment total, shown for reference.
	ReportedTotal *int `json:"reported_total,omitempty"`
}

// SentimentCard is one sentiment's count and percentage. Percent is shown as
// computed and can exceed 100 when the reported counts outnumber the
// comments; Meter is the same value clamped to 0..100 for drawing.
type SentimentCard struct {
	Sentiment string `json:"sentiment"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	Count     int    `json:"count"`
	Percent   int    `json:"percent"`
	Meter     int    `json:"meter"`
}

// EmotionBubble is one emotion counter. Pulsing marks the bubble picked by the
// live updater.
type EmotionBubble struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
	Pulsing bool   `json:"pulsing"`
}

// CommentListViewModel is the filtered comment list.
type CommentListViewModel struct {
	Filter     string             `json:"filter"`
	Items      []CommentViewModel `json:"items"`
	MatchCount int                `json:"match_count"`
	// EmptyMessage is set when Items is empty.
	EmptyMessage string `json:"empty_message,omitempty"`
}

// CommentViewModel is one rendered comment. TextHTML is the comment text with
// all markup stripped and entities escaped; it is safe to emit as HTML. Class
// is the sentiment when it is a known one and "unknown" otherwise.
type CommentViewModel struct {
	ID        string `json:"id"`
	Sentiment string `json:"sentiment"`
	Class     string `json:"class"`
	Icon      string `json:"icon"`
	Text      string `json:"text"`
	TextHTML  string `json:"text_html"`
	Meta      string `json:"meta"`
	Author    string `json:"author,omitempty"`
	LikeCount int64  `json:"like_count"`
}

// SummaryViewModel is the summary panel. Kind selects which fields apply:
// placeholder uses Message; backend uses HTML and Keywords, with the raw
// summary in Message; fallback uses Tone, the two percentages and CommentCount.
type SummaryViewModel struct {
	Kind            string   `json:"kind"`
	Message         string   `json:"message,omitempty"`
	HTML            string   `json:"html,omitempty"`
	Keywords        []string `json:"keywords"`
	Tone            string   `json:"tone,omitempty"`
	PositivePercent int      `json:"positive_percent"`
	NegativePercent int      `json:"negative_percent"`
	CommentCount    int      `json:"comment_count"`
}

// ChartViewModel wraps the computed chart geometry.
type ChartViewModel struct {
	Mode     string                    `json:"mode"`
	Geometry application.ChartGeometry `json:"geometry"`
}

// Option is a selectable filter or chart mode.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}
