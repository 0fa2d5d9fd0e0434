package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown files using goldmark. Heading markers
// are dropped; ordered list markers are kept because bylaws often number
// clauses with them.
type MarkdownExtractor struct{}

func (p *MarkdownExtractor) Extract(r io.Reader, filename string) (*Extraction, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var lines []string
	title := ""
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && title == "" {
			title = extractText(h, src)
		}
		lines = appendBlock(lines, n, src, "")
	}
	if title == "" {
		title = baseTitle(filename)
	}

	return &Extraction{Title: title, Text: joinLines(lines)}, nil
}

// appendBlock emits the lines of one block node. marker is prepended to the
// block's first line.
func appendBlock(lines []string, n ast.Node, src []byte, marker string) []string {
	switch node := n.(type) {
	case *ast.List:
		number := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			m := ""
			if node.IsOrdered() {
				m = fmt.Sprintf("%d%c ", number, node.Marker)
				number++
			}
			lines = appendBlock(lines, item, src, m)
		}
		return lines
	case *ast.ListItem, *ast.Blockquote:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			lines = appendBlock(lines, c, src, marker)
			marker = ""
		}
		return lines
	case *ast.ThematicBreak:
		return lines
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		segs := n.Lines()
		for i := 0; i < segs.Len(); i++ {
			seg := segs.At(i)
			lines = append(lines, strings.TrimRight(string(seg.Value(src)), "\r\n"))
		}
		return lines
	}

	t := extractText(n, src)
	if t == "" {
		return lines
	}
	for i, line := range strings.Split(t, "\n") {
		if i == 0 {
			line = marker + line
		}
		lines = append(lines, line)
	}
	return lines
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else if s, ok := c.(*ast.String); ok {
			buf.Write(s.Value)
		} else {
			// Recurse for nested inlines.
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
