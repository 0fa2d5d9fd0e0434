// Package hierarchy declares the numbering scheme of each nesting depth and
// compiles the line matchers used to recognize section headings.
package hierarchy

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MaxLevels is the number of depths every configuration must declare.
const MaxLevels = 10

// Level describes how headings at one depth are written.
type Level struct {
	Depth     int       `yaml:"depth" json:"depth"`
	Name      string    `yaml:"name" json:"name"`
	Numbering Numbering `yaml:"numbering" json:"numbering"`
	Prefix    string    `yaml:"prefix" json:"prefix"`
	Suffix    string    `yaml:"suffix,omitempty" json:"suffix,omitempty"`
}

// Label renders the citation component for a number at this level,
// e.g. "Article IV" or "(c)".
func (l Level) Label(number string) string {
	return strings.TrimSpace(l.Prefix + number + l.Suffix)
}

// Config is a full hierarchy declaration. It is read-only once built and
// safe for concurrent use.
type Config struct {
	Levels []Level `yaml:"levels" json:"levels"`

	once     sync.Once
	matchers []LevelMatcher
	err      error
}

// New validates levels and returns a config with its matchers compiled.
func New(levels []Level) (*Config, error) {
	cfg := &Config{Levels: append([]Level(nil), levels...)}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Matchers(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigError lists every problem found in a hierarchy configuration.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid hierarchy config: " + strings.Join(e.Problems, "; ")
}

// Validate checks that depths 0..9 each appear exactly once and that every
// numbering is recognized. It returns a *ConfigError describing all problems.
func Validate(cfg *Config) error {
	if cfg == nil {
		return &ConfigError{Problems: []string{"config is nil"}}
	}
	var problems []string
	seen := make(map[int]int, MaxLevels)
	for _, l := range cfg.Levels {
		if l.Depth < 0 || l.Depth >= MaxLevels {
			problems = append(problems, fmt.Sprintf("depth %d out of range 0..%d", l.Depth, MaxLevels-1))
			continue
		}
		seen[l.Depth]++
		if !l.Numbering.Valid() {
			problems = append(problems, fmt.Sprintf("depth %d: unknown numbering %q", l.Depth, l.Numbering))
		}
	}
	for d := 0; d < MaxLevels; d++ {
		switch n := seen[d]; {
		case n == 0:
			problems = append(problems, fmt.Sprintf("depth %d missing", d))
		case n > 1:
			problems = append(problems, fmt.Sprintf("depth %d declared %d times", d, n))
		}
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// Matchers returns the compiled matchers ordered by depth. They are built
// on first use and cached for the lifetime of the config.
func (c *Config) Matchers() ([]LevelMatcher, error) {
	c.once.Do(func() {
		levels := append([]Level(nil), c.Levels...)
		sort.SliceStable(levels, func(i, j int) bool { return levels[i].Depth < levels[j].Depth })
		for _, l := range levels {
			m, err := l.Matcher()
			if err != nil {
				c.err = err
				c.matchers = nil
				return
			}
			c.matchers = append(c.matchers, LevelMatcher{Level: l, Match: m})
		}
	})
	return c.matchers, c.err
}

// Matcher returns the compiled matcher for one depth.
func (c *Config) Matcher(depth int) (Matcher, bool) {
	matchers, err := c.Matchers()
	if err != nil {
		return nil, false
	}
	for _, m := range matchers {
		if m.Level.Depth == depth {
			return m.Match, true
		}
	}
	return nil, false
}

// Level returns the level declared for depth.
func (c *Config) Level(depth int) (Level, bool) {
	for _, l := range c.Levels {
		if l.Depth == depth {
			return l, true
		}
	}
	return Level{}, false
}

// Default returns the built-in bylaws scheme.
func Default() *Config {
	cfg, err := New(DefaultLevels())
	if err != nil {
		panic(err)
	}
	return cfg
}

// DefaultLevels is the level list behind Default. No two levels accept the
// same token; uppercase roman numerals only appear behind "Article ".
func DefaultLevels() []Level {
	return []Level{
		{Depth: 0, Name: "article", Numbering: Roman, Prefix: "Article "},
		{Depth: 1, Name: "section", Numbering: Numeric, Prefix: "Section "},
		{Depth: 2, Name: "subsection", Numbering: AlphaLower, Prefix: "(", Suffix: ")"},
		{Depth: 3, Name: "paragraph", Numbering: Numeric, Prefix: "(", Suffix: ")"},
		{Depth: 4, Name: "subparagraph", Numbering: AlphaUpper, Suffix: "."},
		{Depth: 5, Name: "clause", Numbering: Numeric, Suffix: "."},
		{Depth: 6, Name: "subclause", Numbering: AlphaLower, Suffix: "."},
		{Depth: 7, Name: "item", Numbering: AlphaUpper, Prefix: "(", Suffix: ")"},
		{Depth: 8, Name: "subitem", Numbering: AlphaLower, Suffix: ")"},
		{Depth: 9, Name: "point", Numbering: Numeric, Suffix: ")"},
	}
}
