package doctree

import "sort"

type stackEntry struct {
	depth int
	id    int
}

type siblingKey struct {
	parent int
	depth  int
}

// Assemble links parsed sections into a tree. Input order is document order.
// TempID is the section's index in sections; parents are found with a stack
// of open ancestors local to this call.
func Assemble(sections []ParsedSection) []TreeSection {
	out := make([]TreeSection, 0, len(sections))
	stack := make([]stackEntry, 0, 10)
	siblings := make(map[siblingKey]int)

	for i, s := range sections {
		for len(stack) > 0 && stack[len(stack)-1].depth >= s.Depth {
			stack = stack[:len(stack)-1]
		}
		parent := NoParent
		if len(stack) > 0 {
			parent = stack[len(stack)-1].id
		}

		key := siblingKey{parent: parent, depth: s.Depth}
		siblings[key]++

		out = append(out, TreeSection{
			ParsedSection: s,
			TempID:        i,
			ParentTempID:  parent,
			Ordinal:       siblings[key],
			DocumentOrder: i + 1,
		})
		stack = append(stack, stackEntry{depth: s.Depth, id: i})
	}
	return out
}

// Nest builds the nested view of stored sections. Sections are placed in
// DocumentOrder; a section whose parent is missing is attached at the top.
func Nest(documentID, title string, sections []PersistedSection) *DocTree {
	sorted := append([]PersistedSection(nil), sections...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DocumentOrder < sorted[j].DocumentOrder
	})

	tree := &DocTree{DocumentID: documentID, Title: title, Children: []*DocNode{}}
	byID := make(map[int64]*DocNode, len(sorted))
	for _, s := range sorted {
		node := &DocNode{Section: s}
		byID[s.ID] = node
		if s.ParentSectionID != nil {
			if parent, ok := byID[*s.ParentSectionID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		tree.Children = append(tree.Children, node)
	}
	return tree
}
