package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vm "github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

func newTestPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewPrinter(&out, &errOut, false), &out, &errOut
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorMode
		wantErr bool
	}{
		{input: "auto", want: ColorAuto},
		{input: "always", want: ColorAlways},
		{input: "never", want: ColorNever},
		{input: "sometimes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, ResolveColors(ColorAlways))
	assert.False(t, ResolveColors(ColorNever))
	assert.False(t, ResolveColors(ColorAuto))
}

func TestResolveColors_DumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, ResolveColors(ColorAuto))
}

func TestPrinter_PlainMessages(t *testing.T) {
	p, out, errOut := newTestPrinter()

	p.Success("analysis of %s complete", "abc")
	p.Warning("slow backend")
	p.Error("failed: %v", "boom")

	assert.Equal(t, "[OK] analysis of abc complete\n", out.String())
	assert.Equal(t, "[WARN] slow backend\n[ERROR] failed: boom\n", errOut.String())
}

func TestClean(t *testing.T) {
	assert.Equal(t, "[31mred[0m text", clean("\x1b[31mred\x1b[0m text"))
	assert.Equal(t, "a b c", clean("a\nb\tc"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "日本…", truncate("日本語テキスト", 3))
}

func popupFixture() vm.Popup {
	snap := application.Snapshot{
		HasAnalysisData: true,
		Comments: []model.Comment{
			{ID: "1", Text: "great\x07 video", Sentiment: model.SentimentPositive, Emotion: model.EmotionJoy, Timestamp: "2h ago"},
			{ID: "2", Text: "bad audio", Sentiment: model.SentimentNegative, Emotion: model.EmotionAnger, Timestamp: "1d ago"},
		},
		SentimentCounts: model.SentimentCounts{Positive: 1, Negative: 1},
		EmotionCounts:   model.EmotionCounts{model.EmotionJoy: 1, model.EmotionAnger: 1},
		CurrentFilter:   model.FilterAll,
		ChartMode:       model.ChartPie,
		Summary:         application.Summary{Text: "Viewers liked it.", Keywords: []string{"audio", "pacing"}},
		Status:          application.Status{Phase: model.PhaseComplete, Message: "ANALYSIS COMPLETE"},
		Reported:        application.Reported{VideoID: "abc123"},
	}
	return vm.Build(vm.Input{
		Snapshot: snap,
		Stats:    application.ComputeStats(len(snap.Comments), snap.SentimentCounts),
		Now:      time.Time{}.Add(time.Second),
	})
}

func TestPanel(t *testing.T) {
	p, out, _ := newTestPrinter()

	require.NoError(t, p.Panel(popupFixture()))

	got := out.String()
	assert.Contains(t, got, "COMMENT PANEL · abc123")
	assert.Contains(t, got, "ANALYSIS COMPLETE")
	assert.Contains(t, got, "TOTAL 2")
	assert.Contains(t, got, "ENGAGEMENT LOW")
	assert.Contains(t, got, "POSITIVE")
	assert.Contains(t, got, "50%")
	assert.Contains(t, got, "COMMENTS (ALL, 2 matching)")
	assert.Contains(t, got, "great video")
	assert.NotContains(t, got, "\x07")
	assert.Contains(t, got, "2h ago • joy")
	assert.Contains(t, got, "Viewers liked it.")
	assert.Contains(t, got, "#audio #pacing")
}

func TestPanel_BeforeAnalysis(t *testing.T) {
	p, out, _ := newTestPrinter()

	snap := application.Snapshot{
		Comments:      []model.Comment{},
		EmotionCounts: model.NewEmotionCounts(),
		CurrentFilter: model.FilterAll,
		Status:        application.Status{Phase: model.PhaseReady},
	}
	popup := vm.Build(vm.Input{Snapshot: snap, Stats: application.ComputeStats(0, model.SentimentCounts{})})

	require.NoError(t, p.Panel(popup))

	got := out.String()
	assert.Contains(t, got, "READY TO ANALYZE")
	assert.Contains(t, got, `Click "ANALYZE NOW" to load comments`)
	assert.Contains(t, got, "AVG 0.00")
}

func TestPanel_FallbackSummaryAndMismatch(t *testing.T) {
	p, out, errOut := newTestPrinter()

	snap := application.Snapshot{
		HasAnalysisData: true,
		Comments:        []model.Comment{{ID: "1", Sentiment: model.SentimentPositive}},
		SentimentCounts: model.SentimentCounts{Positive: 3},
		EmotionCounts:   model.NewEmotionCounts(),
		CurrentFilter:   model.FilterAll,
	}
	popup := vm.Build(vm.Input{Snapshot: snap, Stats: application.ComputeStats(1, snap.SentimentCounts)})

	require.NoError(t, p.Panel(popup))

	assert.Contains(t, out.String(), "Overall Tone: Positive (300% positive, 0% negative)")
	assert.Contains(t, out.String(), " 300%  "+strings.Repeat("█", 20)+"\n", "meter is full, not overflowing")
	assert.Contains(t, errOut.String(), "[WARN] sentiment counts do not add up")
}

func TestRuns(t *testing.T) {
	p, out, _ := newTestPrinter()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	runs := []model.AnalysisRun{
		{ID: 2, VideoID: "abc123", Status: model.RunStatusComplete, CommentCount: 3, Counts: model.SentimentCounts{Positive: 2, Negative: 1}, StartedAt: started, FinishedAt: started.Add(250 * time.Millisecond)},
		{ID: 1, Status: model.RunStatusFailed, ErrorMessage: "could not detect video ID", StartedAt: started, FinishedAt: started},
	}

	require.NoError(t, p.Runs(runs))

	got := out.String()
	assert.Contains(t, got, "abc123")
	assert.Contains(t, got, "2/1/0")
	assert.Contains(t, got, "250ms")
	assert.Contains(t, got, "could not detect video ID")
	assert.Contains(t, got, started.Local().Format("2006-01-02"))
}

func TestRuns_Empty(t *testing.T) {
	p, out, _ := newTestPrinter()

	require.NoError(t, p.Runs(nil))
	assert.Equal(t, "No analysis runs recorded\n", out.String())
}

func TestBackendHealth(t *testing.T) {
	p, out, errOut := newTestPrinter()

	p.BackendHealth(&driven.BackendHealth{Status: "healthy", Components: map[string]bool{"youtube": true, "model": false}})

	assert.Equal(t, "[OK] backend healthy\n  model                down\n  youtube              up\n", out.String())
	assert.Empty(t, errOut.String())

	p.BackendHealth(&driven.BackendHealth{Status: "degraded"})
	assert.Equal(t, "[WARN] backend degraded\n", errOut.String())
}
