package model

import (
	"fmt"
	"time"
)

// Comment is a single analyzed comment as held in the panel's state.
type Comment struct {
	ID        string
	Text      string
	Sentiment Sentiment
	Emotion   Emotion
	// Timestamp is computed once at ingestion and not refreshed until the next run.
	Timestamp   string
	Author      string
	LikeCount   int64
	PublishedAt time.Time
	Scores      *SentimentScores
}

// SentimentScores are the per-class model scores the backend attaches to a
// comment. Any of them may be missing.
type SentimentScores struct {
	Positive *float64
	Negative *float64
	Neutral  *float64
}

// unknownTimestamp is shown when a comment's publish time cannot be parsed.
const unknownTimestamp = "unknown"

// RelativeTimestamp renders the elapsed time between published and now using
// the largest unit that fits: minutes under an hour, hours under a day, days
// otherwise. Division always truncates. A publish time in the future renders
// as "0m ago".
func RelativeTimestamp(published, now time.Time) string {
	if published.IsZero() {
		return unknownTimestamp
	}

	elapsed := now.Sub(published)
	if elapsed < 0 {
		elapsed = 0
	}

	mins := int64(elapsed / time.Minute)
	hours := int64(elapsed / time.Hour)
	days := int64(elapsed / (24 * time.Hour))

	switch {
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", days)
	}
}

// SentimentIcon returns the glyph shown beside a comment.
func SentimentIcon(s Sentiment) string {
	switch s {
	case SentimentPositive:
		return "✓"
	case SentimentNegative:
		return "✕"
	default:
		return "○"
	}
}

// SentimentColor returns the chart colour for a sentiment.
func SentimentColor(s Sentiment) string {
	switch s {
	case SentimentPositive:
		return "#00ff66"
	case SentimentNegative:
		return "#ff4444"
	default:
		return "#666666"
	}
}
