package application

import (
	"math"
	"time"

	"github.com/ericfisherdev/commentpanel/internal/domain/model"
)

// Chart layout constants, in canvas pixels.
const (
	pieRadius      = 50.0
	pieInnerRadius = 20.0
	barWidth       = 50.0
	barSpacing     = 15.0
	barMaxHeight   = 80.0
	barBaseline    = 30.0
	waveAmplitude  = 20.0
	waveFrequency  = 0.03
	waveTopOffset  = 30.0
	waveRowGap     = 35.0
	wavePhaseRate  = 0.002 // radians per millisecond
)

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// PieSlice is one sentiment's wedge. Angles are radians, clockwise from the
// positive x axis, starting at twelve o'clock.
type PieSlice struct {
	Sentiment  model.Sentiment
	Color      string
	StartAngle float64
	EndAngle   float64
}

// Bar is one sentiment's bar, anchored above the baseline.
type Bar struct {
	Sentiment model.Sentiment
	Color     string
	X, Y      float64
	Width     float64
	Height    float64
}

// Wave is one sentiment's sine line.
type Wave struct {
	Sentiment model.Sentiment
	Color     string
	Points    []Point
}

// ChartGeometry is everything a renderer needs to draw the sentiment chart.
// Empty is set when every count is zero; nothing should be drawn then.
type ChartGeometry struct {
	Mode        model.ChartMode
	Width       float64
	Height      float64
	Empty       bool
	Center      Point
	Radius      float64
	InnerRadius float64
	Slices      []PieSlice
	Bars        []Bar
	Waves       []Wave
}

// ComputeChart lays out the chart for mode on a width×height canvas. phase
// only affects the wave mode; see WavePhase.
func ComputeChart(mode model.ChartMode, counts model.SentimentCounts, width, height, phase float64) ChartGeometry {
	g := ChartGeometry{Mode: mode, Width: width, Height: height}

	maxValue := 0
	for _, s := range model.Sentiments {
		if v := counts.Get(s); v > maxValue {
			maxValue = v
		}
	}
	if maxValue <= 0 {
		g.Empty = true
		return g
	}

	switch mode {
	case model.ChartBar:
		g.Bars = layoutBars(counts, maxValue, width, height)
	case model.ChartWave:
		g.Waves = layoutWaves(counts, maxValue, width, phase)
	default:
		g.Mode = model.ChartPie
		g.Center = Point{X: width / 2, Y: height / 2}
		g.Radius = pieRadius
		g.InnerRadius = pieInnerRadius
		g.Slices = layoutPie(counts)
	}

	return g
}

// WavePhase converts a wall-clock instant into the wave animation phase.
func WavePhase(t time.Time) float64 {
	return math.Mod(float64(t.UnixMilli())*wavePhaseRate, 2*math.Pi)
}

func layoutPie(counts model.SentimentCounts) []PieSlice {
	total := float64(counts.Total())
	angle := -math.Pi / 2

	slices := make([]PieSlice, 0, len(model.Sentiments))
	for _, s := range model.Sentiments {
		v := counts.Get(s)
		if v <= 0 {
			continue
		}
		sweep := float64(v) / total * 2 * math.Pi
		slices = append(slices, PieSlice{
			Sentiment:  s,
			Color:      model.SentimentColor(s),
			StartAngle: angle,
			EndAngle:   angle + sweep,
		})
		angle += sweep
	}
	return slices
}

func layoutBars(counts model.SentimentCounts, maxValue int, width, height float64) []Bar {
	n := float64(len(model.Sentiments))
	startX := (width - (n*barWidth + (n-1)*barSpacing)) / 2

	bars := make([]Bar, 0, len(model.Sentiments))
	for i, s := range model.Sentiments {
		h := float64(counts.Get(s)) / float64(maxValue) * barMaxHeight
		x := startX + float64(i)*(barWidth+barSpacing)
		bars = append(bars, Bar{
			Sentiment: s,
			Color:     model.SentimentColor(s),
			X:         x,
			Y:         height - barBaseline - h,
			Width:     barWidth,
			Height:    h,
		})
	}
	return bars
}

func layoutWaves(counts model.SentimentCounts, maxValue int, width, phase float64) []Wave {
	steps := int(width)
	if steps < 1 {
		steps = 1
	}

	waves := make([]Wave, 0, len(model.Sentiments))
	for i, s := range model.Sentiments {
		amplitude := float64(counts.Get(s)) / float64(maxValue) * waveAmplitude
		yOffset := waveTopOffset + float64(i)*waveRowGap

		points := make([]Point, 0, steps)
		for x := 0; x < steps; x++ {
			fx := float64(x)
			points = append(points, Point{X: fx, Y: yOffset + math.Sin(fx*waveFrequency+phase)*amplitude})
		}

		waves = append(waves, Wave{
			Sentiment: s,
			Color:     model.SentimentColor(s),
			Points:    points,
		})
	}
	return waves
}
