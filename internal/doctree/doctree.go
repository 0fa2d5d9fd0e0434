package doctree

// EmptyText replaces the body of a section that had no content lines.
const EmptyText = "(No content)"

// NoParent is the ParentTempID of a top-level section.
const NoParent = -1

// ParsedSection is a section cut from the text, before tree links exist.
type ParsedSection struct {
	Type       string `json:"type"`   // Level name, e.g. "article"
	Depth      int    `json:"depth"`  // 0-based nesting level
	Number     string `json:"number"` // Number as written, e.g. "IV"
	Prefix     string `json:"prefix"`
	Title      string `json:"title"`
	Citation   string `json:"citation"` // e.g. "Article I, Section 2"
	Text       string `json:"text"`
	OriginLine int    `json:"origin_line"` // 0-based line index of the heading
}

// HasContent reports whether the section carries real body text.
func (s ParsedSection) HasContent() bool {
	return s.Text != "" && s.Text != EmptyText
}

// TreeSection is a ParsedSection with its position in the tree.
//
// Ordinal is the 1-based position among siblings that share the same parent
// and depth; it repeats across the document. DocumentOrder is the 1-based
// global sequence and is unique per document. Anything that sequences
// sections document-wide must use DocumentOrder.
type TreeSection struct {
	ParsedSection
	TempID        int `json:"temp_id"`
	ParentTempID  int `json:"parent_temp_id"`
	Ordinal       int `json:"ordinal"`
	DocumentOrder int `json:"document_order"`
}

// PersistedSection is a TreeSection after it has been stored and linked.
type PersistedSection struct {
	TreeSection
	ID              int64   `json:"id"`
	DocumentID      string  `json:"document_id"`
	ParentSectionID *int64  `json:"parent_section_id"`
	PathIDs         []int64 `json:"path_ids"`
	PathOrdinals    []int   `json:"path_ordinals"`
}

// DocTree is a nested view of a stored document.
type DocTree struct {
	DocumentID string     `json:"document_id"`
	Title      string     `json:"title"`
	Children   []*DocNode `json:"children"`
}

// DocNode is one section in the nested view.
type DocNode struct {
	Section  PersistedSection `json:"section"`
	Children []*DocNode       `json:"children,omitempty"`
}
