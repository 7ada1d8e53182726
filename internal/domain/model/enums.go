package model

import "fmt"

// Sentiment is the coarse polarity assigned to a comment by the analysis backend.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Sentiments lists every sentiment in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

// Valid reports whether s is one of the three known sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	default:
		return false
	}
}

// Emotion is the secondary category shown in the emotion bubbles. In this
// system it is always derived from Sentiment, never classified independently.
type Emotion string

const (
	EmotionJoy      Emotion = "joy"
	EmotionAnger    Emotion = "anger"
	EmotionSurprise Emotion = "surprise"
	EmotionSadness  Emotion = "sadness"
	EmotionNeutral  Emotion = "neutral"
)

// Emotions lists every emotion in display order.
var Emotions = []Emotion{EmotionJoy, EmotionAnger, EmotionSurprise, EmotionSadness, EmotionNeutral}

// BubbleEmotions are the emotions rendered as bubbles. Neutral is counted but
// has no bubble.
var BubbleEmotions = []Emotion{EmotionJoy, EmotionAnger, EmotionSurprise, EmotionSadness}

// EmotionFor maps a sentiment onto its emotion. Unrecognised sentiments fall
// back to EmotionNeutral.
func EmotionFor(s Sentiment) Emotion {
	switch s {
	case SentimentPositive:
		return EmotionJoy
	case SentimentNegative:
		return EmotionAnger
	default:
		return EmotionNeutral
	}
}

// Filter selects which comments are listed.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterPositive Filter = Filter(SentimentPositive)
	FilterNegative Filter = Filter(SentimentNegative)
	FilterNeutral  Filter = Filter(SentimentNeutral)
)

// ParseFilter validates a user-supplied filter value.
func ParseFilter(v string) (Filter, error) {
	f := Filter(v)
	switch f {
	case FilterAll, FilterPositive, FilterNegative, FilterNeutral:
		return f, nil
	default:
		return "", fmt.Errorf("invalid filter %q: must be all, positive, negative, or neutral", v)
	}
}

// Matches reports whether a comment with sentiment s passes the filter.
func (f Filter) Matches(s Sentiment) bool {
	return f == FilterAll || Sentiment(f) == s
}

// ChartMode selects how sentiment counts are charted.
type ChartMode string

const (
	ChartPie  ChartMode = "pie"
	ChartBar  ChartMode = "bar"
	ChartWave ChartMode = "wave"
)

// ChartModes lists every chart mode in toggle order.
var ChartModes = []ChartMode{ChartPie, ChartBar, ChartWave}

// ParseChartMode validates a user-supplied chart mode.
func ParseChartMode(v string) (ChartMode, error) {
	m := ChartMode(v)
	switch m {
	case ChartPie, ChartBar, ChartWave:
		return m, nil
	default:
		return "", fmt.Errorf("invalid chart mode %q: must be pie, bar, or wave", v)
	}
}

// Engagement is the categorical label derived from the number of analyzed comments.
type Engagement string

const (
	EngagementNone   Engagement = "NONE"
	EngagementLow    Engagement = "LOW"
	EngagementMedium Engagement = "MEDIUM"
	EngagementHigh   Engagement = "HIGH"
)

// ClassifyEngagement returns the engagement label for total comments.
// Boundaries are strict less-than: 0 is NONE, <10 LOW, <50 MEDIUM, else HIGH.
func ClassifyEngagement(total int) Engagement {
	switch {
	case total <= 0:
		return EngagementNone
	case total < 10:
		return EngagementLow
	case total < 50:
		return EngagementMedium
	default:
		return EngagementHigh
	}
}

// Phase is the analysis status signal shown next to the analyze button.
type Phase string

const (
	PhaseReady     Phase = "ready"
	PhaseAnalyzing Phase = "analyzing"
	PhaseComplete  Phase = "complete"
	PhaseFailed    Phase = "failed"
)
