package pipeline

import (
	"github.com/dgallion1/bylawgest/internal/doctree"
	"github.com/dgallion1/bylawgest/internal/hierarchy"
	"github.com/dgallion1/bylawgest/internal/segment"
)

// Structured is a document cut into an assembled section tree, not yet
// stored.
type Structured struct {
	Sections      []doctree.TreeSection `json:"sections"`
	Parsed        int                   `json:"parsed"`
	PreambleLines int                   `json:"preamble_lines"`
	Dedup         segment.DedupReport   `json:"dedup"`
}

// Structure segments text, removes duplicate citations and assembles the
// tree. The hierarchy config is validated first and a *hierarchy.ConfigError
// is returned before any text is read.
func Structure(text string, cfg *hierarchy.Config, strategy segment.DedupStrategy) (*Structured, error) {
	if err := hierarchy.Validate(cfg); err != nil {
		return nil, err
	}
	res, err := segment.Segment(text, cfg)
	if err != nil {
		return nil, err
	}
	kept, report, err := segment.Dedup(res.Sections, strategy)
	if err != nil {
		return nil, err
	}
	return &Structured{
		Sections:      doctree.Assemble(kept),
		Parsed:        len(res.Sections),
		PreambleLines: res.PreambleLines,
		Dedup:         report,
	}, nil
}
