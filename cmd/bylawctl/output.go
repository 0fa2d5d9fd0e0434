package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/bylawgest/internal/doctree"
	"github.com/dgallion1/bylawgest/internal/hierarchy"
	"github.com/dgallion1/bylawgest/internal/store"
	"github.com/dgallion1/bylawgest/internal/validate"
)

var (
	// citationStyle for section citations
	citationStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary boxes
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderOutline prints one line per section, indented by depth.
func renderOutline(w io.Writer, sections []doctree.TreeSection) {
	for _, s := range sections {
		line := strings.Repeat("  ", s.Depth) + citationStyle.Render(s.Citation)
		if s.Title != "" {
			line += " " + s.Title
		}
		if !s.HasContent() {
			line += " " + dimStyle.Render(doctree.EmptyText)
		}
		fmt.Fprintln(w, line)
	}
}

func renderLevels(w io.Writer, levels []hierarchy.Level) {
	for _, l := range levels {
		fmt.Fprintf(w, "%s %-13s %-12s %s\n",
			dimStyle.Render(fmt.Sprintf("%d", l.Depth)),
			l.Name,
			string(l.Numbering),
			citationStyle.Render(l.Label(sampleNumber(l.Numbering))),
		)
	}
}

func sampleNumber(n hierarchy.Numbering) string {
	switch n {
	case hierarchy.Roman:
		return "IV"
	case hierarchy.AlphaLower:
		return "b"
	case hierarchy.AlphaUpper:
		return "B"
	}
	return "2"
}

func renderDocuments(w io.Writer, docs []store.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no documents"))
		return
	}
	for _, d := range docs {
		fmt.Fprintf(w, "%s  %s %s\n",
			citationStyle.Render(d.ID),
			d.Title,
			dimStyle.Render(fmt.Sprintf("(%d sections, %s)", d.SectionCount, d.CreatedAt.Format("2006-01-02 15:04"))),
		)
	}
}

func renderReport(w io.Writer, report *validate.Report) {
	if report.OK() {
		fmt.Fprintf(w, "%s %d sections, no violations\n", successStyle.Render("✓"), report.SectionCount)
		return
	}
	fmt.Fprintf(w, "%s %d violations in %d sections\n", warnStyle.Render("!"), len(report.Violations), report.SectionCount)
	for _, v := range report.Violations {
		where := v.Citation
		if where == "" {
			where = "document"
		}
		fmt.Fprintf(w, "  %s %s: %s\n", errorStyle.Render(string(v.Kind)), where, v.Message)
	}
}

func summaryBox(rows ...[2]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = dimStyle.Render(r[0]+":") + " " + r[1]
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
