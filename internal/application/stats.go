package application

import (
	"fmt"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// Tone is the coarse overall reading shown when the backend supplied no summary.
type Tone string

const (
	TonePositive Tone = "Positive"
	ToneCritical Tone = "Critical"
	ToneMixed    Tone = "Mixed"
)

// Stats are the figures derived from the current state for presentation.
type Stats struct {
	Total           int
	Counts          model.SentimentCounts
	Percentages     map[model.Sentiment]int
	// AverageHundreds is the average sentiment ×100, rounded half away from
	// zero.
	AverageHundreds int
	Average         string
	Engagement      model.Engagement
	Tone            Tone
	// CountsMismatch is set when the reported sentiment counts do not add up
	// to the number of comments held.
	CountsMismatch bool
}

// ComputeStats derives percentages, average sentiment, engagement and tone
// from the number of comments held and the reported sentiment counts. Every
// ratio uses total as its denominator and is zero when total is zero.
func ComputeStats(total int, counts model.SentimentCounts) Stats {
	pcts := make(map[model.Sentiment]int, len(model.Sentiments))
	for _, s := range model.Sentiments {
		pcts[s] = roundedRatio(counts.Get(s)*100, total)
	}

	diff := counts.Positive - counts.Negative
	avg := roundedRatio(abs(diff)*100, total)
	if diff < 0 {
		avg = -avg
	}

	return Stats{
		Total:           total,
		Counts:          counts,
		Percentages:     pcts,
		AverageHundreds: avg,
		Average:         formatAverage(avg, diff, total),
		Engagement:      model.ClassifyEngagement(total),
		Tone:            toneFor(pcts[model.SentimentPositive], pcts[model.SentimentNegative]),
		CountsMismatch:  counts.Total() != total,
	}
}

// roundedRatio returns num/den rounded half toward positive infinity, or 0
// when den is not positive. Integer arithmetic keeps ties exact.
func roundedRatio(num, den int) int {
	if den <= 0 {
		return 0
	}
	return floorDiv(2*num+den, 2*den)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// formatAverage renders hundredths as a two-decimal string signed by diff, so
// a negative average that rounds to zero still reads "-0.00". An empty result
// set renders "0.00".
func formatAverage(hundredths, diff, total int) string {
	if total <= 0 {
		return "0.00"
	}

	sign := "+"
	if diff < 0 {
		sign = "-"
	}
	hundredths = abs(hundredths)
	return fmt.Sprintf("%s%d.%02d", sign, hundredths/100, hundredths%100)
}

func toneFor(positivePct, negativePct int) Tone {
	switch {
	case positivePct > 60:
		return TonePositive
	case negativePct > 40:
		return ToneCritical
	default:
		return ToneMixed
	}
}
