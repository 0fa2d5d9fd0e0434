package hierarchy

import "testing"

func mustMatcher(t *testing.T, l Level) Matcher {
	t.Helper()
	m, err := l.Matcher()
	if err != nil {
		t.Fatalf("compile matcher: %v", err)
	}
	return m
}

func TestMatcher_Roman(t *testing.T) {
	m := mustMatcher(t, Level{Depth: 0, Numbering: Roman, Prefix: "Article "})

	cases := []struct {
		line   string
		ok     bool
		number string
		rest   string
	}{
		{"ARTICLE I NAME", true, "I", " NAME"},
		{"Article XIV: Amendments", true, "XIV", ": Amendments"},
		{"article iv", false, "", ""},
		{"Article  II", true, "II", ""},
		{"ARTICLE INTRODUCTION", false, "", ""},
		{"ArticleI", false, "", ""},
		{"The Article I text", false, "", ""},
	}
	for _, c := range cases {
		got, ok := m(c.line)
		if ok != c.ok {
			t.Errorf("%q: expected ok=%v, got %v", c.line, c.ok, ok)
			continue
		}
		if !ok {
			continue
		}
		if got.Number != c.number {
			t.Errorf("%q: expected number %q, got %q", c.line, c.number, got.Number)
		}
		if got.Rest != c.rest {
			t.Errorf("%q: expected rest %q, got %q", c.line, c.rest, got.Rest)
		}
		if got.Full+got.Rest != c.line {
			t.Errorf("%q: full+rest does not rebuild line: %q + %q", c.line, got.Full, got.Rest)
		}
	}
}

func TestMatcher_Numeric(t *testing.T) {
	m := mustMatcher(t, Level{Depth: 1, Numbering: Numeric, Prefix: "Section "})

	got, ok := m("Section 12: Quorum")
	if !ok || got.Number != "12" || got.Full != "Section 12" {
		t.Fatalf("unexpected match: %+v ok=%v", got, ok)
	}
	if _, ok := m("Section A"); ok {
		t.Error("expected letter not to match numeric level")
	}
	if _, ok := m("Sections 1 through 4 apply"); ok {
		t.Error("expected plural prefix not to match")
	}
}

func TestMatcher_AlphaWithAffixes(t *testing.T) {
	lower := mustMatcher(t, Level{Depth: 2, Numbering: AlphaLower, Prefix: "(", Suffix: ")"})
	if got, ok := lower("(c) Officers shall serve"); !ok || got.Number != "c" || got.Full != "(c)" {
		t.Fatalf("unexpected match: %+v ok=%v", got, ok)
	}
	if _, ok := lower("(C) Officers"); ok {
		t.Error("expected uppercase letter not to match alphaLower")
	}
	if _, ok := lower("(cc) Officers"); ok {
		t.Error("expected two letters not to match")
	}

	upper := mustMatcher(t, Level{Depth: 4, Numbering: AlphaUpper, Suffix: "."})
	if got, ok := upper("B. Meetings"); !ok || got.Number != "B" {
		t.Fatalf("unexpected match: %+v ok=%v", got, ok)
	}
	if _, ok := upper("By. the way"); ok {
		t.Error("expected word start not to match")
	}
}

func TestMatcher_NumericSuffixBoundary(t *testing.T) {
	m := mustMatcher(t, Level{Depth: 5, Numbering: Numeric, Suffix: "."})
	if _, ok := m("1.5 million dollars"); ok {
		t.Error("expected decimal number not to match")
	}
	if got, ok := m("3. Dues"); !ok || got.Number != "3" {
		t.Errorf("unexpected match: %+v ok=%v", got, ok)
	}
}

func TestNumbering_ParseNumber(t *testing.T) {
	cases := []struct {
		n    Numbering
		in   string
		want int
	}{
		{Roman, "I", 1},
		{Roman, "IV", 4},
		{Roman, "XIV", 14},
		{Roman, "MCMXC", 1990},
		{Numeric, "42", 42},
		{AlphaUpper, "C", 3},
		{AlphaLower, "z", 26},
	}
	for _, c := range cases {
		got, err := c.n.ParseNumber(c.in)
		if err != nil {
			t.Errorf("%s %q: unexpected error: %v", c.n, c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s %q: expected %d, got %d", c.n, c.in, c.want, got)
		}
	}
	if _, err := Numbering("greek").ParseNumber("1"); err == nil {
		t.Error("expected error for unknown numbering")
	}
}
