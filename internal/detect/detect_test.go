package detect

import (
	"strings"
	"testing"

	"github.com/dgallion1/bylawgest/internal/hierarchy"
)

func TestHierarchy_FindsHeadingsInOrder(t *testing.T) {
	text := "ARTICLE I NAME\nSection 1: Purpose\nServe the community.\n(a) Scope of service\nARTICLE II DUTIES"
	got, err := Hierarchy(text, hierarchy.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		depth int
		raw   string
		num   int
		line  int
	}{
		{0, "I", 1, 0},
		{1, "1", 1, 1},
		{2, "a", 1, 3},
		{0, "II", 2, 4},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d headings, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		h := got[i]
		if h.Depth != w.depth || h.RawNumber != w.raw || h.ParsedNumber != w.num || h.LineIndex != w.line {
			t.Errorf("heading %d: expected depth=%d raw=%q num=%d line=%d, got %+v", i, w.depth, w.raw, w.num, w.line, h)
		}
	}
	if got[0].Label() != "Article I" {
		t.Errorf("expected label %q, got %q", "Article I", got[0].Label())
	}
}

func TestHierarchy_IgnoresMidSentenceNumerals(t *testing.T) {
	text := "The board reviews Section 3 annually.\nAs stated in Article II, members vote."
	got, err := Hierarchy(text, hierarchy.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no headings, got %+v", got)
	}
}

func TestHierarchy_LeadingWhitespaceAllowed(t *testing.T) {
	got, err := Hierarchy("    Section 4 - Terms", hierarchy.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Depth != 1 || got[0].FullMatch != "Section 4" {
		t.Fatalf("unexpected headings: %+v", got)
	}
}

func TestLine_SanityThreshold(t *testing.T) {
	cfg := hierarchy.Default()
	short := "Section 1 " + strings.Repeat("x", MaxHeadingLength-len("Section 1 ")-1)
	if _, ok := Line(short, 0, cfg); !ok {
		t.Errorf("expected %d-char line to qualify", len(short))
	}
	long := short + "x"
	if _, ok := Line(long, 0, cfg); ok {
		t.Errorf("expected %d-char line to be rejected", len(long))
	}
}

func TestLine_LongestMatchWins(t *testing.T) {
	// Depth 0 matches "Part A" and depth 1 matches "Part A." on the same line.
	levels := hierarchy.DefaultLevels()
	levels[0] = hierarchy.Level{Depth: 0, Name: "division", Numbering: hierarchy.AlphaUpper, Prefix: "Part "}
	levels[1] = hierarchy.Level{Depth: 1, Name: "part", Numbering: hierarchy.AlphaUpper, Prefix: "Part ", Suffix: "."}
	cfg, err := hierarchy.New(levels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, ok := Line("Part A. Definitions", 0, cfg)
	if !ok {
		t.Fatal("expected heading")
	}
	if h.Depth != 1 || h.FullMatch != "Part A." {
		t.Errorf("expected longer depth-1 match, got %+v", h)
	}
}

func TestLine_TieGoesToShallowerLevel(t *testing.T) {
	// "(I)" is both a depth-7 roman item and a depth-8 upper letter here.
	levels := hierarchy.DefaultLevels()
	levels[7] = hierarchy.Level{Depth: 7, Name: "item", Numbering: hierarchy.Roman, Prefix: "(", Suffix: ")"}
	levels[8] = hierarchy.Level{Depth: 8, Name: "subitem", Numbering: hierarchy.AlphaUpper, Prefix: "(", Suffix: ")"}
	cfg, err := hierarchy.New(levels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h, ok := Line("(I) First item", 0, cfg)
	if !ok {
		t.Fatal("expected heading")
	}
	if h.Depth != 7 {
		t.Errorf("expected depth 7 on tie, got %d", h.Depth)
	}
}

func TestLine_DefaultUpperLettersStayOnOneLevel(t *testing.T) {
	cfg := hierarchy.Default()
	for i, line := range []string{"(A) Agenda", "(B) Board", "(C) Committees", "(D) Duties", "(I) Inspection", "(V) Voting", "(X) Exceptions"} {
		h, ok := Line(line, i, cfg)
		if !ok {
			t.Fatalf("%q: expected heading", line)
		}
		want := strings.TrimSuffix(strings.TrimPrefix(h.FullMatch, "("), ")")
		if h.Depth != 7 || h.RawNumber != want {
			t.Errorf("%q: expected depth 7 letter %s, got depth %d number %q", line, want, h.Depth, h.RawNumber)
		}
	}
}

func TestDefault_NoTwoLevelsShareAToken(t *testing.T) {
	cfg := hierarchy.Default()
	matchers, err := cfg.Matchers()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tokens := []string{"(IV)", "(C)", "(c)", "(3)", "C.", "3.", "c.", "c)", "3)", "IV.", "IV)"}
	for _, tok := range tokens {
		var depths []int
		for _, lm := range matchers {
			if _, ok := lm.Match(tok + " Text"); ok {
				depths = append(depths, lm.Level.Depth)
			}
		}
		if len(depths) > 1 {
			t.Errorf("%q matched depths %v", tok, depths)
		}
	}
}

func TestLine_BlankLine(t *testing.T) {
	if _, ok := Line("   ", 0, hierarchy.Default()); ok {
		t.Error("expected blank line not to match")
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\nb\n\nc")
	want := []string{"a", "b", "", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if SplitLines("") != nil {
		t.Error("expected nil for empty text")
	}
}
