// Package render formats analysis results for the terminal and for machines.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/TimelordUK/wcstats/internal/analysis"
	"github.com/TimelordUK/wcstats/internal/config"
	"github.com/TimelordUK/wcstats/internal/replay"
	"github.com/TimelordUK/wcstats/pkg/timefmt"
)

const (
	reportWidth = 60
	listWidth   = 80
)

// eventLabels names the recorder's event kinds
var eventLabels = map[string]string{
	string(replay.KindKeystroke): "Keystrokes",
	string(replay.KindDeletion):  "Deletions",
	string(replay.KindCursor):    "Cursor moves",
	string(replay.KindMode):      "Mode changes",
	string(replay.KindSave):      "Saves",
	string(replay.KindCommand):   "Commands",
}

// EventLabel returns the display name of an event kind
func EventLabel(kind string) string {
	if label, ok := eventLabels[kind]; ok {
		return label
	}
	return kind
}

// Styles holds the report styles built from the theme
type Styles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Label    lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Muted    lipgloss.Style
}

// Renderer renders reports as styled text
type Renderer struct {
	styles Styles
	color  bool
	syntax *SyntaxRenderer
}

// New creates a renderer writing to w. Without color every style renders
// as plain text.
func New(w io.Writer, theme config.ThemeConfig, color bool) *Renderer {
	lr := lipgloss.NewRenderer(w)
	if !color {
		lr.SetColorProfile(termenv.Ascii)
	}

	styles := Styles{
		Title:    lr.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Title)),
		Heading:  lr.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Heading)),
		Label:    lr.NewStyle().Foreground(lipgloss.Color(theme.Label)),
		Positive: lr.NewStyle().Foreground(lipgloss.Color(theme.Positive)),
		Negative: lr.NewStyle().Foreground(lipgloss.Color(theme.Negative)),
		Muted:    lr.NewStyle().Foreground(lipgloss.Color(theme.Muted)),
	}

	return &Renderer{
		styles: styles,
		color:  color,
		syntax: NewSyntaxRenderer(theme.Syntax, color),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() Styles {
	return r.styles
}

func (r *Renderer) rule(ch string, width int) string {
	return r.styles.Muted.Render(strings.Repeat(ch, width))
}

func (r *Renderer) delta(n int) string {
	text := fmt.Sprintf("%+d", n)
	switch {
	case n > 0:
		return r.styles.Positive.Render(text)
	case n < 0:
		return r.styles.Negative.Render(text)
	default:
		return text
	}
}

func (r *Renderer) field(b *strings.Builder, label string, value any) {
	fmt.Fprintf(b, "%s %v\n", r.styles.Label.Render(label+":"), value)
}

// Session renders the report for one session, followed by accumulated
// stats when acc is not nil
func (r *Renderer) Session(s *analysis.Session, acc *analysis.Accumulated) string {
	var b strings.Builder

	b.WriteString("\n" + r.rule("=", reportWidth) + "\n")
	b.WriteString(r.styles.Title.Render("WRITECONTROL SESSION REPORT: "+s.Filename) + "\n")
	r.field(&b, "Session date", timefmt.FormatSession(s.Date))
	b.WriteString(r.rule("=", reportWidth) + "\n")

	b.WriteString("\n" + r.styles.Heading.Render("SESSION METRICS:") + "\n")
	r.field(&b, "Duration", timefmt.FormatDuration(s.DurationMs))
	r.field(&b, "Insert mode", timefmt.FormatDuration(s.InsertMs()))
	r.field(&b, "Normal mode", timefmt.FormatDuration(s.NormalMs()))
	r.field(&b, "Typing speed", fmt.Sprintf("%.1f keystrokes/min", s.TypingSpeed))

	b.WriteString("\n" + r.styles.Heading.Render("EVENT COUNTS:") + "\n")
	kinds := make([]string, 0, len(s.EventCounts))
	for kind := range s.EventCounts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(&b, "  %s %d\n", r.styles.Label.Render(EventLabel(kind)+":"), s.EventCounts[kind])
	}

	b.WriteString("\n" + r.styles.Heading.Render("CONTENT CHANGES:") + "\n")
	r.counts(&b, "Words", s.Initial.Words, s.Final.Words, s.Changes.Words)
	r.counts(&b, "Sentences", s.Initial.Sentences, s.Final.Sentences, s.Changes.Sentences)
	r.counts(&b, "Paragraphs", s.Initial.Paragraphs, s.Final.Paragraphs, s.Changes.Paragraphs)

	fmt.Fprintf(&b, "\n%s %.1f%% (changed: %.1f%%)\n",
		r.styles.Label.Render("Text similarity:"), s.Similarity(), s.ChangePercentage)

	if s.Warnings > 0 {
		b.WriteString(r.styles.Muted.Render(fmt.Sprintf("%d event(s) had positions outside the document", s.Warnings)) + "\n")
	}

	if acc != nil {
		b.WriteString(r.Accumulated(*acc))
	}
	return b.String()
}

func (r *Renderer) counts(b *strings.Builder, label string, from, to, change int) {
	fmt.Fprintf(b, "%s %d → %d (%s)\n", r.styles.Label.Render(label+":"), from, to, r.delta(change))
}

// Accumulated renders totals across sessions of one file
func (r *Renderer) Accumulated(acc analysis.Accumulated) string {
	var b strings.Builder
	b.WriteString("\n" + r.rule("-", reportWidth) + "\n")
	b.WriteString(r.styles.Heading.Render("ACCUMULATED STATS:") + "\n")
	r.field(&b, "Total sessions", acc.TotalSessions)
	r.field(&b, "Total time", timefmt.FormatDuration(acc.TotalDurationMs))
	r.field(&b, "Total words written", acc.TotalWordsAdded)
	r.field(&b, "Average typing speed", fmt.Sprintf("%.1f keystrokes/min", acc.AvgTypingSpeed))
	return b.String()
}

// Summary renders per-file totals
func (r *Renderer) Summary(stats []analysis.FileStats) string {
	var b strings.Builder
	b.WriteString("\n" + r.styles.Title.Render("WRITECONTROL SUMMARY") + "\n")
	b.WriteString(r.rule("=", reportWidth) + "\n")

	for _, st := range stats {
		b.WriteString("\n" + r.styles.Heading.Render(st.Filename+":") + "\n")
		fmt.Fprintf(&b, "  %s %d\n", r.styles.Label.Render("Sessions:"), st.Sessions)
		fmt.Fprintf(&b, "  %s %s\n", r.styles.Label.Render("Total time:"), timefmt.FormatDuration(st.TotalDurationMs))
		fmt.Fprintf(&b, "  %s %s\n", r.styles.Label.Render("Words change:"), r.delta(st.TotalWords))
		fmt.Fprintf(&b, "  %s %d\n", r.styles.Label.Render("Keystrokes:"), st.TotalKeystrokes)
	}
	return b.String()
}

// List renders the tracked files table
func (r *Renderer) List(stats []analysis.FileStats) string {
	var b strings.Builder
	b.WriteString("\n" + r.styles.Title.Render("TRACKED FILES") + "\n")
	b.WriteString(r.rule("=", listWidth) + "\n")
	b.WriteString(r.styles.Heading.Render(fmt.Sprintf("%-30s %-10s %-15s %-10s %s",
		"File", "Sessions", "Duration", "Words", "Last Edited")) + "\n")
	b.WriteString(r.rule("-", listWidth) + "\n")

	for _, st := range stats {
		name := st.Filename
		if runes := []rune(name); len(runes) > 30 {
			name = string(runes[:30])
		}
		words := fmt.Sprintf("%-10s", fmt.Sprintf("%+d", st.TotalWords))
		fmt.Fprintf(&b, "%-30s %-10d %-15s %s %s\n",
			name, st.Sessions, timefmt.FormatDuration(st.TotalDurationMs), words, timefmt.FormatDay(st.LastSeen))
	}
	return b.String()
}

// CommitMessage renders a suggested commit message
func (r *Renderer) CommitMessage(msg string) string {
	return r.styles.Label.Render("Commit message:") + " " + msg + "\n"
}

// Checkpoint renders the reconstructed text of one checkpoint under a heading
func (r *Renderer) Checkpoint(name replay.Name, text string) string {
	var b strings.Builder
	b.WriteString(r.styles.Heading.Render(fmt.Sprintf("== %s ==", name)) + "\n")
	b.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// Diff renders a unified diff, highlighted when color is enabled
func (r *Renderer) Diff(unified string) string {
	if unified == "" {
		return r.styles.Muted.Render("no changes") + "\n"
	}
	return r.syntax.Highlight(unified)
}
