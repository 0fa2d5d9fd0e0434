// Package segment cuts extracted text into sections at recognized headings
// and resolves repeated occurrences of the same citation.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/bylawgest/internal/detect"
	"github.com/dgallion1/bylawgest/internal/doctree"
	"github.com/dgallion1/bylawgest/internal/hierarchy"
)

// Result is the output of one segmentation pass.
type Result struct {
	Sections []doctree.ParsedSection
	// PreambleLines counts non-blank lines seen before the first heading.
	// They belong to no section and are discarded.
	PreambleLines int
}

type citationEntry struct {
	depth int
	label string
}

// Parse cuts text into sections. See Segment.
func Parse(text string, cfg *hierarchy.Config) ([]doctree.ParsedSection, error) {
	res, err := Segment(text, cfg)
	if err != nil {
		return nil, err
	}
	return res.Sections, nil
}

// Segment scans text once. A heading line closes the open section and opens
// a new one; other non-blank lines are appended untrimmed to the open
// section. Blank lines are dropped. A section with no lines gets
// doctree.EmptyText.
func Segment(text string, cfg *hierarchy.Config) (*Result, error) {
	if _, err := cfg.Matchers(); err != nil {
		return nil, err
	}

	res := &Result{}
	var (
		current *doctree.ParsedSection
		buf     []string
		open    []citationEntry
	)

	flush := func() {
		if current == nil {
			return
		}
		body := strings.TrimSpace(strings.Join(buf, "\n"))
		if body == "" {
			body = doctree.EmptyText
		}
		current.Text = body
		res.Sections = append(res.Sections, *current)
		current = nil
		buf = buf[:0]
	}

	for i, line := range detect.SplitLines(text) {
		if h, ok := detect.Line(line, i, cfg); ok && isHeaderLine(line, h) {
			flush()

			for len(open) > 0 && open[len(open)-1].depth >= h.Depth {
				open = open[:len(open)-1]
			}
			open = append(open, citationEntry{depth: h.Depth, label: h.Label()})

			current = &doctree.ParsedSection{
				Type:       h.Level,
				Depth:      h.Depth,
				Number:     h.RawNumber,
				Prefix:     h.Prefix,
				Title:      headingTitle(h.Rest),
				Citation:   joinCitation(open),
				OriginLine: i,
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if current == nil {
			res.PreambleLines++
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return res, nil
}

func isHeaderLine(line string, h detect.Heading) bool {
	trimmed := strings.TrimSpace(line)
	return utf8.RuneCountInString(trimmed) < detect.MaxHeadingLength &&
		strings.HasPrefix(trimmed, h.FullMatch)
}

const titleSeparators = ":-.–—"

// headingTitle strips leading space and at most one separator from the text
// that follows a heading token.
func headingTitle(rest string) string {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if r, size := utf8.DecodeRuneInString(rest); size > 0 && strings.ContainsRune(titleSeparators, r) {
		rest = rest[size:]
	}
	return strings.TrimSpace(rest)
}

func joinCitation(entries []citationEntry) string {
	labels := make([]string, len(entries))
	for i, c := range entries {
		labels[i] = c.label
	}
	return strings.Join(labels, ", ")
}
