// Package detect finds section headings in extracted document text.
package detect

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/bylawgest/internal/hierarchy"
)

// MaxHeadingLength is the exclusive upper bound, in characters, on a trimmed
// line that may be treated as a heading. Longer lines are body text that
// happens to open with a numeral.
const MaxHeadingLength = 200

// Heading is one recognized heading occurrence.
type Heading struct {
	Depth        int
	Level        string // Level name from the config, e.g. "section"
	RawNumber    string
	ParsedNumber int
	Prefix       string
	Suffix       string
	FullMatch    string
	Rest         string
	LineIndex    int
}

// Label is the citation component for this heading.
func (h Heading) Label() string {
	return strings.TrimSpace(h.Prefix + h.RawNumber + h.Suffix)
}

// Hierarchy scans text line by line and returns every heading in order.
func Hierarchy(text string, cfg *hierarchy.Config) ([]Heading, error) {
	matchers, err := cfg.Matchers()
	if err != nil {
		return nil, err
	}
	var out []Heading
	for i, line := range SplitLines(text) {
		if h, ok := match(line, i, matchers); ok {
			out = append(out, h)
		}
	}
	return out, nil
}

// Line tests a single line against every level of cfg.
func Line(line string, index int, cfg *hierarchy.Config) (Heading, bool) {
	matchers, err := cfg.Matchers()
	if err != nil {
		return Heading{}, false
	}
	return match(line, index, matchers)
}

func match(line string, index int, matchers []hierarchy.LevelMatcher) (Heading, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || utf8.RuneCountInString(trimmed) >= MaxHeadingLength {
		return Heading{}, false
	}

	var (
		best  hierarchy.Match
		level hierarchy.Level
		found bool
	)
	// Longest token wins; on a tie the shallower level, which comes first.
	for _, lm := range matchers {
		m, ok := lm.Match(trimmed)
		if !ok {
			continue
		}
		if !found || len(m.Full) > len(best.Full) {
			best, level, found = m, lm.Level, true
		}
	}
	if !found {
		return Heading{}, false
	}

	n, err := level.Numbering.ParseNumber(best.Number)
	if err != nil {
		n = 0
	}
	return Heading{
		Depth:        level.Depth,
		Level:        level.Name,
		RawNumber:    best.Number,
		ParsedNumber: n,
		Prefix:       level.Prefix,
		Suffix:       level.Suffix,
		FullMatch:    best.Full,
		Rest:         best.Rest,
		LineIndex:    index,
	}, true
}

// SplitLines splits on "\n" and drops a trailing "\r" from each line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
