package application_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

func TestComputeChart_EmptyDrawsNothing(t *testing.T) {
	for _, mode := range model.ChartModes {
		t.Run(string(mode), func(t *testing.T) {
			g := application.ComputeChart(mode, model.SentimentCounts{}, 200, 150, 0)
			assert.True(t, g.Empty)
			assert.Empty(t, g.Slices)
			assert.Empty(t, g.Bars)
			assert.Empty(t, g.Waves)
		})
	}
}

func TestComputeChart_Pie(t *testing.T) {
	counts := model.SentimentCounts{Positive: 2, Negative: 1, Neutral: 1}
	g := application.ComputeChart(model.ChartPie, counts, 200, 150, 0)

	require.False(t, g.Empty)
	assert.Equal(t, application.Point{X: 100, Y: 75}, g.Center)
	assert.InDelta(t, 50.0, g.Radius, 1e-9)
	assert.InDelta(t, 20.0, g.InnerRadius, 1e-9)
	require.Len(t, g.Slices, 3)

	assert.InDelta(t, -math.Pi/2, g.Slices[0].StartAngle, 1e-9)
	assert.InDelta(t, math.Pi/2, g.Slices[0].EndAngle, 1e-9)
	assert.Equal(t, "#00ff66", g.Slices[0].Color)
	assert.InDelta(t, g.Slices[0].EndAngle, g.Slices[1].StartAngle, 1e-9)
	assert.InDelta(t, 3*math.Pi/2, g.Slices[2].EndAngle, 1e-9)
}

func TestComputeChart_PieSkipsZeroSlices(t *testing.T) {
	g := application.ComputeChart(model.ChartPie, model.SentimentCounts{Negative: 3}, 200, 150, 0)

	require.Len(t, g.Slices, 1)
	assert.Equal(t, model.SentimentNegative, g.Slices[0].Sentiment)
	assert.InDelta(t, 2*math.Pi, g.Slices[0].EndAngle-g.Slices[0].StartAngle, 1e-9)
}

func TestComputeChart_Bar(t *testing.T) {
	counts := model.SentimentCounts{Positive: 4, Negative: 2, Neutral: 0}
	g := application.ComputeChart(model.ChartBar, counts, 200, 150, 0)

	require.Len(t, g.Bars, 3)
	// Three 50px bars with 15px gaps are 180px wide, centred in 200px.
	assert.InDelta(t, 10.0, g.Bars[0].X, 1e-9)
	assert.InDelta(t, 75.0, g.Bars[1].X, 1e-9)
	assert.InDelta(t, 140.0, g.Bars[2].X, 1e-9)

	assert.InDelta(t, 80.0, g.Bars[0].Height, 1e-9)
	assert.InDelta(t, 40.0, g.Bars[1].Height, 1e-9)
	assert.InDelta(t, 0.0, g.Bars[2].Height, 1e-9)

	assert.InDelta(t, 150.0-30-80, g.Bars[0].Y, 1e-9)
	assert.Equal(t, "#666666", g.Bars[2].Color)
}

func TestComputeChart_Wave(t *testing.T) {
	counts := model.SentimentCounts{Positive: 2, Negative: 1}
	g := application.ComputeChart(model.ChartWave, counts, 100, 150, 0)

	require.Len(t, g.Waves, 3)
	for i, w := range g.Waves {
		require.Len(t, w.Points, 100)
		assert.InDelta(t, 30.0+float64(i)*35, w.Points[0].Y, 1e-9, "wave %d starts on its offset at phase 0", i)
	}

	// Neutral has no amplitude: a flat line.
	for _, p := range g.Waves[2].Points {
		assert.InDelta(t, 100.0, p.Y, 1e-9)
	}

	// Positive is the maximum and swings the full 20px.
	maxY := 0.0
	for _, p := range g.Waves[0].Points {
		maxY = math.Max(maxY, p.Y-30)
	}
	assert.InDelta(t, 20.0, maxY, 0.1)
}

func TestWavePhase(t *testing.T) {
	p := application.WavePhase(time.UnixMilli(1000))
	assert.InDelta(t, 2.0, p, 1e-9)

	p = application.WavePhase(time.Now())
	assert.GreaterOrEqual(t, p, 0.0)
	assert.Less(t, p, 2*math.Pi)
}
