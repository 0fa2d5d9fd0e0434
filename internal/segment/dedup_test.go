package segment

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/bylawgest/internal/doctree"
	"github.com/dgallion1/bylawgest/internal/hierarchy"
)

// tocDocument opens with a table of contents that repeats every heading of
// the body without content.
const tocDocument = `ARTICLE I NAME
ARTICLE II DUTIES
ARTICLE I NAME
The name of this council is Reseda.
ARTICLE II DUTIES
Section 1: Board
Manage operations.`

func parse(t *testing.T, text string) []doctree.ParsedSection {
	t.Helper()
	got, err := Parse(text, hierarchy.Default())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return got
}

func dedup(t *testing.T, sections []doctree.ParsedSection, strategy DedupStrategy) ([]doctree.ParsedSection, DedupReport) {
	t.Helper()
	got, report, err := Dedup(sections, strategy)
	if err != nil {
		t.Fatalf("dedup: %v", err)
	}
	return got, report
}

func citations(sections []doctree.ParsedSection) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Citation
	}
	return out
}

func TestDedup_ScenarioKeepsRepeatedNumbersUnderDifferentParents(t *testing.T) {
	sections := parse(t, scenario)
	got, report := dedup(t, sections, PreferNonEmpty)

	if len(got) != len(sections) {
		t.Fatalf("expected nothing dropped, got %d of %d", len(got), len(sections))
	}
	if len(report.Dropped) != 0 {
		t.Errorf("expected empty report, got %+v", report.Dropped)
	}
	want := []string{"Article I", "Article I, Section 1", "Article I, Section 2", "Article II", "Article II, Section 1"}
	if diff := cmp.Diff(want, citations(got)); diff != "" {
		t.Errorf("citations mismatch (-want +got):\n%s", diff)
	}
}

func TestDedup_PreferNonEmptyKeepsBody(t *testing.T) {
	got, report := dedup(t, parse(t, tocDocument), PreferNonEmpty)

	// Survivors stay in document order: the contents entry for Article II
	// (line 1) precedes the body of Article I (line 2).
	want := []string{"Article II", "Article I", "Article II, Section 1"}
	if diff := cmp.Diff(want, citations(got)); diff != "" {
		t.Fatalf("citations mismatch (-want +got):\n%s", diff)
	}
	if got[1].Text != "The name of this council is Reseda." {
		t.Errorf("expected body occurrence of Article I, got text %q", got[1].Text)
	}
	if got[1].OriginLine != 2 {
		t.Errorf("expected kept Article I from line 2, got %d", got[1].OriginLine)
	}
	// Article II has no content anywhere, so its first occurrence survives.
	if got[0].OriginLine != 1 {
		t.Errorf("expected first Article II (line 1) kept, got line %d", got[0].OriginLine)
	}

	if report.Strategy != PreferNonEmpty {
		t.Errorf("expected strategy %q, got %q", PreferNonEmpty, report.Strategy)
	}
	wantDropped := []Duplicate{
		{Citation: "Article I", OriginLine: 0, KeptLine: 2},
		{Citation: "Article II", OriginLine: 4, KeptLine: 1},
	}
	if diff := cmp.Diff(wantDropped, report.Dropped); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestDedup_PreferFirstKeepsTableOfContents(t *testing.T) {
	got, report := dedup(t, parse(t, tocDocument), PreferFirst)

	if got[0].OriginLine != 0 || got[0].Text != doctree.EmptyText {
		t.Errorf("expected first (empty) Article I kept, got line %d text %q", got[0].OriginLine, got[0].Text)
	}
	if len(report.Dropped) != 2 {
		t.Fatalf("expected 2 dropped, got %d", len(report.Dropped))
	}
	if !report.Dropped[0].HadContent {
		t.Error("expected dropped body occurrence to be flagged as having content")
	}
}

func TestDedup_Idempotent(t *testing.T) {
	inputs := map[string]string{
		"scenario": scenario,
		"toc":      tocDocument,
	}
	for name, text := range inputs {
		for _, strategy := range []DedupStrategy{PreferNonEmpty, PreferFirst} {
			once, _ := dedup(t, parse(t, text), strategy)
			twice, report := dedup(t, once, strategy)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("%s/%s: second pass changed output (-once +twice):\n%s", name, strategy, diff)
			}
			if len(report.Dropped) != 0 {
				t.Errorf("%s/%s: second pass dropped %d sections", name, strategy, len(report.Dropped))
			}
		}
	}
}

func TestDedup_UnknownStrategyRejected(t *testing.T) {
	for _, strategy := range []DedupStrategy{"newest", ""} {
		got, _, err := Dedup(parse(t, tocDocument), strategy)
		if err == nil {
			t.Errorf("%q: expected error for unknown strategy", strategy)
		}
		if got != nil {
			t.Errorf("%q: expected no sections, got %d", strategy, len(got))
		}
	}
}

func TestDedup_Empty(t *testing.T) {
	got, report := dedup(t, nil, PreferFirst)
	if len(got) != 0 || len(report.Dropped) != 0 {
		t.Errorf("expected empty output, got %d sections and %d dropped", len(got), len(report.Dropped))
	}
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]DedupStrategy{
		"":                 PreferNonEmpty,
		"prefer_non_empty": PreferNonEmpty,
		"prefer_first":     PreferFirst,
	}
	for in, want := range cases {
		got, err := ParseStrategy(in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("%q: expected %q, got %q", in, want, got)
		}
	}
	if _, err := ParseStrategy("latest"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
