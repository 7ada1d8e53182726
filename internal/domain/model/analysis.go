package model

import "fmt"

// SentimentCounts maps each sentiment onto a comment count.
type SentimentCounts struct {
	Positive int
	Negative int
	Neutral  int
}

// Get returns the count for s. Unknown sentiments count as zero.
func (c SentimentCounts) Get(s Sentiment) int {
	switch s {
	case SentimentPositive:
		return c.Positive
	case SentimentNegative:
		return c.Negative
	case SentimentNeutral:
		return c.Neutral
	default:
		return 0
	}
}

// Total returns the sum of all three counts.
func (c SentimentCounts) Total() int {
	return c.Positive + c.Negative + c.Neutral
}

// Validate rejects negative counts.
func (c SentimentCounts) Validate() error {
	for _, s := range Sentiments {
		if c.Get(s) < 0 {
			return fmt.Errorf("sentiment_counts.%s is negative (%d)", s, c.Get(s))
		}
	}
	return nil
}

// EmotionCounts maps each emotion onto a comment count.
type EmotionCounts map[Emotion]int

// NewEmotionCounts returns a zeroed count for every known emotion.
func NewEmotionCounts() EmotionCounts {
	counts := make(EmotionCounts, len(Emotions))
	for _, e := range Emotions {
		counts[e] = 0
	}
	return counts
}

// Total returns the sum over all emotions.
func (c EmotionCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// RawComment is one comment as reported by the analysis backend, before the
// panel derives emotion and a display timestamp.
type RawComment struct {
	ID          string
	Text        string
	Sentiment   Sentiment
	Author      string
	LikeCount   int64
	PublishedAt string
	Scores      *SentimentScores
}

// AnalysisPayload is a decoded analysis response. Comments and
// SentimentCounts are required; nil means the backend omitted them.
type AnalysisPayload struct {
	VideoID         string
	Comments        []RawComment
	SentimentCounts *SentimentCounts
	Summary         string
	Keywords        []string
	AnalyzedAt      string

	// Reported by the backend for display only; derived statistics never use them.
	TotalComments        *int
	SentimentPercentages map[Sentiment]float64
}

// Validate checks the required fields and count constraints. Failures wrap
// ErrMalformedResponse.
func (p *AnalysisPayload) Validate() error {
	if p == nil {
		return fmt.Errorf("empty payload: %w", ErrMalformedResponse)
	}
	if p.Comments == nil {
		return fmt.Errorf("missing comments: %w", ErrMalformedResponse)
	}
	if p.SentimentCounts == nil {
		return fmt.Errorf("missing sentiment_counts: %w", ErrMalformedResponse)
	}
	if err := p.SentimentCounts.Validate(); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), ErrMalformedResponse)
	}
	return nil
}

// HasSummary reports whether the backend supplied both a summary and keywords.
func (p *AnalysisPayload) HasSummary() bool {
	return p.Summary != "" && p.Keywords != nil
}
