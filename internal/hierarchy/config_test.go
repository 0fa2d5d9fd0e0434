package hierarchy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate_DefaultPasses(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestValidate_MissingDepth(t *testing.T) {
	levels := DefaultLevels()[:9]
	err := Validate(&Config{Levels: levels})
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if !strings.Contains(err.Error(), "depth 9 missing") {
		t.Errorf("expected missing depth 9 in error, got %q", err)
	}
}

func TestValidate_DuplicateDepth(t *testing.T) {
	levels := DefaultLevels()
	levels[9].Depth = 8
	err := Validate(&Config{Levels: levels})
	if err == nil {
		t.Fatal("expected error for duplicate depth")
	}
	if !strings.Contains(err.Error(), "depth 8 declared 2 times") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(err.Error(), "depth 9 missing") {
		t.Errorf("expected depth 9 reported missing too: %v", err)
	}
}

func TestValidate_UnknownNumbering(t *testing.T) {
	levels := DefaultLevels()
	levels[3].Numbering = "greek"
	err := Validate(&Config{Levels: levels})
	if err == nil {
		t.Fatal("expected error for unknown numbering")
	}
	if !strings.Contains(err.Error(), `unknown numbering "greek"`) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_DepthOutOfRange(t *testing.T) {
	levels := append(DefaultLevels(), Level{Depth: 10, Numbering: Numeric})
	if err := Validate(&Config{Levels: levels}); err == nil {
		t.Fatal("expected error for depth 10")
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestNew_RejectsInvalid(t *testing.T) {
	if _, err := New(DefaultLevels()[1:]); err == nil {
		t.Fatal("expected New to reject config without depth 0")
	}
}

func TestConfig_MatchersOrderedByDepth(t *testing.T) {
	levels := DefaultLevels()
	// Reverse declaration order; matchers must still come back by depth.
	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
	cfg, err := New(levels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ms, err := cfg.Matchers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms) != MaxLevels {
		t.Fatalf("expected %d matchers, got %d", MaxLevels, len(ms))
	}
	for i, m := range ms {
		if m.Level.Depth != i {
			t.Errorf("matcher %d has depth %d", i, m.Level.Depth)
		}
	}
}

func TestLevel_Label(t *testing.T) {
	cfg := Default()
	cases := []struct {
		depth  int
		number string
		want   string
	}{
		{0, "IV", "Article IV"},
		{1, "2", "Section 2"},
		{2, "c", "(c)"},
		{4, "B", "B."},
	}
	for _, c := range cases {
		l, ok := cfg.Level(c.depth)
		if !ok {
			t.Fatalf("depth %d missing", c.depth)
		}
		if got := l.Label(c.number); got != c.want {
			t.Errorf("depth %d: expected %q, got %q", c.depth, c.want, got)
		}
	}
}

func TestParse_YAML(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("levels:\n")
	sb.WriteString("  - {depth: 0, name: chapter, numbering: numeric, prefix: \"Chapter \"}\n")
	sb.WriteString("  - {depth: 1, name: rule, numbering: alphaUpper, prefix: \"Rule \"}\n")
	for d := 2; d < MaxLevels; d++ {
		sb.WriteString("  - {depth: ")
		sb.WriteString(string(rune('0' + d)))
		sb.WriteString(", name: l, numbering: numeric, prefix: \"\", suffix: \")\"}\n")
	}
	cfg, err := Parse([]byte(sb.String()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l, _ := cfg.Level(1)
	if l.Name != "rule" || l.Numbering != AlphaUpper || l.Prefix != "Rule " {
		t.Errorf("unexpected level 1: %+v", l)
	}
}

func TestParse_JSON(t *testing.T) {
	data := `{"levels": [
		{"depth": 0, "name": "article", "numbering": "roman", "prefix": "Article "},
		{"depth": 1, "name": "section", "numbering": "numeric", "prefix": "Section "},
		{"depth": 2, "name": "a", "numbering": "alphaLower", "prefix": "(", "suffix": ")"},
		{"depth": 3, "name": "b", "numbering": "numeric", "prefix": "(", "suffix": ")"},
		{"depth": 4, "name": "c", "numbering": "alphaUpper", "suffix": "."},
		{"depth": 5, "name": "d", "numbering": "numeric", "suffix": "."},
		{"depth": 6, "name": "e", "numbering": "alphaLower", "suffix": "."},
		{"depth": 7, "name": "f", "numbering": "roman", "prefix": "(", "suffix": ")"},
		{"depth": 8, "name": "g", "numbering": "alphaUpper", "prefix": "(", "suffix": ")"},
		{"depth": 9, "name": "h", "numbering": "numeric", "suffix": ")"}
	]}`
	if _, err := Parse([]byte(data)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_InvalidNumberingFailsFast(t *testing.T) {
	data := "levels:\n  - {depth: 0, numbering: hex}\n"
	_, err := Parse([]byte(data))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.yaml")
	var sb strings.Builder
	sb.WriteString("levels:\n")
	for _, l := range DefaultLevels() {
		sb.WriteString("  - depth: " + string(rune('0'+l.Depth)) + "\n")
		sb.WriteString("    name: " + l.Name + "\n")
		sb.WriteString("    numbering: " + string(l.Numbering) + "\n")
		sb.WriteString("    prefix: \"" + l.Prefix + "\"\n")
		sb.WriteString("    suffix: \"" + l.Suffix + "\"\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Levels) != MaxLevels {
		t.Errorf("expected %d levels, got %d", MaxLevels, len(cfg.Levels))
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConfig_MatcherByDepth(t *testing.T) {
	cfg := Default()
	m, ok := cfg.Matcher(1)
	if !ok {
		t.Fatal("expected matcher for depth 1")
	}
	if got, ok := m("Section 4: Quorum"); !ok || got.Number != "4" {
		t.Errorf("expected section 4 match, got %+v (ok=%v)", got, ok)
	}
	if _, ok := cfg.Matcher(MaxLevels); ok {
		t.Error("expected no matcher beyond the last depth")
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Levels) != MaxLevels || cfg.Levels[0].Name != "article" {
		t.Errorf("expected default levels, got %+v", cfg.Levels)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
