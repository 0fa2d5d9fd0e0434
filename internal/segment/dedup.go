package segment

import (
	"fmt"

	"github.com/dgallion1/bylawgest/internal/doctree"
)

// DedupStrategy decides which member of a group of sections sharing a
// citation survives.
type DedupStrategy string

const (
	// PreferNonEmpty keeps the first member with body text, falling back to
	// the first member when none has any. A table of contents followed by
	// the body resolves to the body.
	PreferNonEmpty DedupStrategy = "prefer_non_empty"
	// PreferFirst keeps the first member in document order.
	PreferFirst DedupStrategy = "prefer_first"
)

// ParseStrategy maps a configuration value to a strategy. An empty value
// selects PreferNonEmpty.
func ParseStrategy(s string) (DedupStrategy, error) {
	switch DedupStrategy(s) {
	case "", PreferNonEmpty:
		return PreferNonEmpty, nil
	case PreferFirst:
		return PreferFirst, nil
	}
	return "", fmt.Errorf("unknown dedup strategy %q", s)
}

// Valid reports whether s is a known strategy.
func (s DedupStrategy) Valid() bool {
	return s == PreferNonEmpty || s == PreferFirst
}

// Duplicate records one dropped section.
type Duplicate struct {
	Citation   string `json:"citation"`
	OriginLine int    `json:"origin_line"`
	KeptLine   int    `json:"kept_line"`
	HadContent bool   `json:"had_content"`
}

// DedupReport lists what Dedup removed.
type DedupReport struct {
	Strategy DedupStrategy `json:"strategy"`
	Dropped  []Duplicate   `json:"dropped"`
}

// Dedup collapses sections that share a full citation to one survivor each,
// chosen by strategy. Survivors keep their relative order. Sections with the
// same number under different parents have different citations and are
// never merged. Dedup is idempotent. An unknown strategy is an error; use
// ParseStrategy to turn configuration into a strategy.
func Dedup(sections []doctree.ParsedSection, strategy DedupStrategy) ([]doctree.ParsedSection, DedupReport, error) {
	if !strategy.Valid() {
		return nil, DedupReport{}, fmt.Errorf("unknown dedup strategy %q", strategy)
	}
	report := DedupReport{Strategy: strategy, Dropped: []Duplicate{}}

	groups := make(map[string][]int)
	for i, s := range sections {
		groups[s.Citation] = append(groups[s.Citation], i)
	}

	keep := make([]bool, len(sections))
	for _, members := range groups {
		keep[choose(sections, members, strategy)] = true
	}

	out := make([]doctree.ParsedSection, 0, len(groups))
	for i, s := range sections {
		if keep[i] {
			out = append(out, s)
			continue
		}
		kept := choose(sections, groups[s.Citation], strategy)
		report.Dropped = append(report.Dropped, Duplicate{
			Citation:   s.Citation,
			OriginLine: s.OriginLine,
			KeptLine:   sections[kept].OriginLine,
			HadContent: s.HasContent(),
		})
	}
	return out, report, nil
}

func choose(sections []doctree.ParsedSection, members []int, strategy DedupStrategy) int {
	if strategy == PreferNonEmpty {
		for _, i := range members {
			if sections[i].HasContent() {
				return i
			}
		}
	}
	return members[0]
}
