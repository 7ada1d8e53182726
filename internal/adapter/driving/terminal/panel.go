package terminal

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	vm "github.com/ericfisherdev/commentpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/commentpanel/internal/domain/model"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
)

const (
	commentWidth = 72
	meterWidth   = 20
)

// Panel prints the popup view model.
func (p *Printer) Panel(v vm.Popup) error {
	title := "COMMENT PANEL"
	if v.VideoID != "" {
		title += " · " + clean(v.VideoID)
	}
	p.Header(title)

	p.Print("%s  %s", p.Bold("STATUS"), p.statusLabel(v.Status))
	p.Print("%s %d   %s %s   %s %s",
		p.Bold("TOTAL"), v.Stats.Total,
		p.Bold("AVG"), v.Stats.Average,
		p.Bold("ENGAGEMENT"), v.Stats.Engagement,
	)
	if v.Stats.ReportedTotal != nil && *v.Stats.ReportedTotal != v.Stats.Total {
		p.Print("%s", p.Dim(fmt.Sprintf("backend reported %d comments", *v.Stats.ReportedTotal)))
	}
	if v.Stats.CountsMismatch {
		p.Warning("sentiment counts do not add up to the %d comments received", v.Stats.Total)
	}

	p.Header("SENTIMENT")
	for _, c := range v.Stats.Cards {
		filled := c.Meter * meterWidth / 100
		meter := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)
		p.Print("%s %-8s %4d %4d%%  %s", c.Icon, c.Label, c.Count, c.Percent, p.sentimentColor(c.Sentiment, meter))
	}

	p.Header("EMOTIONS")
	parts := make([]string, 0, len(v.Emotions))
	for _, b := range v.Emotions {
		part := b.Emotion + " " + strconv.Itoa(b.Count)
		if b.Pulsing {
			part = p.Bold(part + " *")
		}
		parts = append(parts, part)
	}
	p.Print("%s", strings.Join(parts, "   "))

	if err := p.comments(v.Comments); err != nil {
		return err
	}

	p.summary(v.Summary)

	if v.LastUpdate != "" {
		p.Print("\n%s", p.Dim("last update "+v.LastUpdate))
	}
	return nil
}

func (p *Printer) statusLabel(s vm.StatusViewModel) string {
	if !p.useColors {
		return s.Label
	}
	switch model.Phase(s.Phase) {
	case model.PhaseComplete:
		return p.sentimentColor("positive", s.Label)
	case model.PhaseFailed:
		return p.sentimentColor("negative", s.Label)
	default:
		return s.Label
	}
}

func (p *Printer) comments(list vm.CommentListViewModel) error {
	p.Header(fmt.Sprintf("COMMENTS (%s, %d matching)", strings.ToUpper(list.Filter), list.MatchCount))

	if list.EmptyMessage != "" {
		p.Print("%s", p.Dim(list.EmptyMessage))
		return nil
	}

	table := NewTable(p.out, []string{"", "Comment", "Meta"})
	for _, c := range list.Items {
		table.AddRow(
			p.sentimentColor(c.Sentiment, c.Icon),
			truncate(clean(c.Text), commentWidth),
			clean(c.Meta),
		)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render comments: %w", err)
	}

	if list.MatchCount > len(list.Items) {
		p.Print("%s", p.Dim(fmt.Sprintf("showing %d of %d", len(list.Items), list.MatchCount)))
	}
	return nil
}

func (p *Printer) summary(s vm.SummaryViewModel) {
	p.Header("SUMMARY")
	switch s.Kind {
	case vm.SummaryBackend:
		p.Print("%s", clean(s.Message))
		if len(s.Keywords) > 0 {
			tags := make([]string, 0, len(s.Keywords))
			for _, k := range s.Keywords {
				tags = append(tags, "#"+clean(k))
			}
			p.Print("%s", p.Dim(strings.Join(tags, " ")))
		}
	case vm.SummaryFallback:
		p.Print("Overall Tone: %s (%d%% positive, %d%% negative)", p.Bold(s.Tone), s.PositivePercent, s.NegativePercent)
		p.Print("Based on %d analyzed comments.", s.CommentCount)
	default:
		p.Print("%s", p.Dim(s.Message))
	}
}

// Runs prints the analysis history as a table.
func (p *Printer) Runs(runs []model.AnalysisRun) error {
	if len(runs) == 0 {
		p.Print("No analysis runs recorded")
		return nil
	}

	table := NewTable(p.out, []string{"ID", "Video", "Status", "Comments", "+/-/~", "Started", "Took", "Error"})
	for _, r := range runs {
		status := string(r.Status)
		if r.Status == model.RunStatusFailed {
			status = p.sentimentColor("negative", status)
		} else {
			status = p.sentimentColor("positive", status)
		}

		table.AddRow(
			strconv.FormatInt(r.ID, 10),
			orDash(clean(r.VideoID)),
			status,
			strconv.Itoa(r.CommentCount),
			fmt.Sprintf("%d/%d/%d", r.Counts.Positive, r.Counts.Negative, r.Counts.Neutral),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Duration().Round(time.Millisecond).String(),
			orDash(truncate(clean(r.ErrorMessage), 48)),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render runs: %w", err)
	}
	return nil
}

// BackendHealth prints the backend's health report.
func (p *Printer) BackendHealth(h *driven.BackendHealth) {
	if h.Status == "healthy" {
		p.Success("backend %s", h.Status)
	} else {
		p.Warning("backend %s", clean(h.Status))
	}

	names := make([]string, 0, len(h.Components))
	for name := range h.Components {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		state := "down"
		if h.Components[name] {
			state = "up"
		}
		p.Print("  %-20s %s", clean(name), state)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
