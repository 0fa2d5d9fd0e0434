package doctree

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sec(depth int, citation string) ParsedSection {
	return ParsedSection{Depth: depth, Citation: citation, Text: "body of " + citation}
}

func scenarioSections() []ParsedSection {
	return []ParsedSection{
		sec(0, "Article I"),
		sec(1, "Article I, Section 1"),
		sec(1, "Article I, Section 2"),
		sec(0, "Article II"),
		sec(1, "Article II, Section 1"),
	}
}

func TestAssemble_ParentLinksAndOrdinals(t *testing.T) {
	got := Assemble(scenarioSections())

	type link struct {
		TempID, Parent, Ordinal, Order int
	}
	var links []link
	for _, s := range got {
		links = append(links, link{s.TempID, s.ParentTempID, s.Ordinal, s.DocumentOrder})
	}
	want := []link{
		{0, NoParent, 1, 1},
		{1, 0, 1, 2},
		{2, 0, 2, 3},
		{3, NoParent, 2, 4},
		{4, 3, 1, 5},
	}
	if diff := cmp.Diff(want, links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_DocumentOrderIsContiguous(t *testing.T) {
	input := []ParsedSection{
		sec(0, "A"), sec(1, "A1"), sec(2, "A1a"), sec(2, "A1b"), sec(3, "A1b1"),
		sec(1, "A2"), sec(0, "B"), sec(2, "Ba"), sec(1, "B1"), sec(0, "C"),
	}
	got := Assemble(input)

	orders := make([]int, 0, len(got))
	for _, s := range got {
		orders = append(orders, s.DocumentOrder)
	}
	sort.Ints(orders)
	for i, o := range orders {
		if o != i+1 {
			t.Fatalf("expected document orders {1..%d}, got %v", len(got), orders)
		}
	}
}

func TestAssemble_OrdinalsRepeatAcrossParents(t *testing.T) {
	got := Assemble(scenarioSections())

	// Both "Section 1"s are first among their own siblings.
	if got[1].Ordinal != 1 || got[4].Ordinal != 1 {
		t.Fatalf("expected both first sections to have ordinal 1, got %d and %d", got[1].Ordinal, got[4].Ordinal)
	}

	// Ordinal is sibling-local, so a document-wide uniqueness check must fail.
	seen := make(map[int]bool)
	unique := true
	for _, s := range got {
		if seen[s.Ordinal] {
			unique = false
			break
		}
		seen[s.Ordinal] = true
	}
	if unique {
		t.Error("expected ordinals to repeat across the document")
	}
}

func TestAssemble_SkippedLevelAttachesToNearestAncestor(t *testing.T) {
	got := Assemble([]ParsedSection{sec(0, "Article I"), sec(2, "Article I, (a)"), sec(1, "Article I, Section 1")})
	if got[1].ParentTempID != 0 {
		t.Errorf("expected depth-2 section under article, got parent %d", got[1].ParentTempID)
	}
	if got[2].ParentTempID != 0 || got[2].Ordinal != 1 {
		t.Errorf("expected section to be first depth-1 child of article, got %+v", got[2])
	}
}

func TestAssemble_LeadingDeepSectionHasNoParent(t *testing.T) {
	got := Assemble([]ParsedSection{sec(1, "Section 1"), sec(1, "Section 2")})
	for _, s := range got {
		if s.ParentTempID != NoParent {
			t.Errorf("expected no parent for %q, got %d", s.Citation, s.ParentTempID)
		}
	}
	if got[1].Ordinal != 2 {
		t.Errorf("expected ordinal 2, got %d", got[1].Ordinal)
	}
}

func TestAssemble_Empty(t *testing.T) {
	if got := Assemble(nil); len(got) != 0 {
		t.Errorf("expected no sections, got %d", len(got))
	}
}

func TestAssemble_IndependentCalls(t *testing.T) {
	a := Assemble(scenarioSections())
	b := Assemble(scenarioSections())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated assembly differs (-first +second):\n%s", diff)
	}
}

func TestNest(t *testing.T) {
	id := func(v int64) *int64 { return &v }
	sections := []PersistedSection{
		{ID: 12, ParentSectionID: id(10), TreeSection: TreeSection{DocumentOrder: 3}},
		{ID: 10, TreeSection: TreeSection{DocumentOrder: 1}},
		{ID: 11, ParentSectionID: id(10), TreeSection: TreeSection{DocumentOrder: 2}},
		{ID: 13, TreeSection: TreeSection{DocumentOrder: 4}},
		{ID: 14, ParentSectionID: id(99), TreeSection: TreeSection{DocumentOrder: 5}},
	}
	tree := Nest("doc-1", "Bylaws", sections)

	if len(tree.Children) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(tree.Children))
	}
	root := tree.Children[0]
	if root.Section.ID != 10 || len(root.Children) != 2 {
		t.Fatalf("unexpected root: id=%d children=%d", root.Section.ID, len(root.Children))
	}
	if root.Children[0].Section.ID != 11 || root.Children[1].Section.ID != 12 {
		t.Errorf("expected children in document order, got %d, %d", root.Children[0].Section.ID, root.Children[1].Section.ID)
	}
	if tree.Children[2].Section.ID != 14 {
		t.Errorf("expected orphan attached at top level, got %d", tree.Children[2].Section.ID)
	}
}
