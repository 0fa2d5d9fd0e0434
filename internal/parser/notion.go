package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
)

const notionMaxDepth = 20

// BlockLister is the part of the Notion block API the extractor uses.
// notionapi.Client.Block satisfies it.
type BlockLister interface {
	GetChildren(ctx context.Context, id notionapi.BlockID, pagination *notionapi.Pagination) (*notionapi.GetChildrenResponse, error)
}

// NotionExtractor pulls a page's text from the Notion API, one line per
// text-bearing block, walking nested blocks depth-first.
type NotionExtractor struct {
	blocks   BlockLister
	pageSize int
}

// NewNotionExtractor returns an extractor authenticated with an integration
// token.
func NewNotionExtractor(token string) *NotionExtractor {
	client := notionapi.NewClient(notionapi.Token(token))
	return NewNotionExtractorFor(client.Block)
}

// NewNotionExtractorFor wraps an existing block API.
func NewNotionExtractorFor(blocks BlockLister) *NotionExtractor {
	return &NotionExtractor{blocks: blocks, pageSize: 100}
}

// ExtractPage returns the text of one page. The title is left to the caller.
func (e *NotionExtractor) ExtractPage(ctx context.Context, pageID string) (*Extraction, error) {
	var lines []string
	if err := e.walk(ctx, notionapi.BlockID(pageID), 0, &lines); err != nil {
		return nil, fmt.Errorf("notion page %s: %w", pageID, err)
	}
	return &Extraction{Text: joinLines(lines)}, nil
}

func (e *NotionExtractor) walk(ctx context.Context, id notionapi.BlockID, depth int, lines *[]string) error {
	if depth > notionMaxDepth {
		return nil
	}

	var cursor notionapi.Cursor
	number := 0
	for {
		resp, err := e.blocks.GetChildren(ctx, id, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    e.pageSize,
		})
		if err != nil {
			return fmt.Errorf("list children of %s: %w", id, err)
		}

		for _, block := range resp.Results {
			if _, ok := block.(*notionapi.NumberedListItemBlock); ok {
				number++
			} else {
				number = 0
			}
			if text := blockText(block, number); text != "" {
				*lines = append(*lines, strings.Split(text, "\n")...)
			}

			switch block.(type) {
			case *notionapi.ChildPageBlock, *notionapi.ChildDatabaseBlock:
				continue
			}
			if block.GetHasChildren() {
				if err := e.walk(ctx, block.GetID(), depth+1, lines); err != nil {
					return err
				}
			}
		}

		if !resp.HasMore || resp.NextCursor == "" {
			return nil
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}
}

// blockText renders one block. number is the position of a numbered list
// item within its run.
func blockText(block notionapi.Block, number int) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return richText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return richText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return richText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return richText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return richText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		t := richText(b.NumberedListItem.RichText)
		if t == "" {
			return ""
		}
		return fmt.Sprintf("%d. %s", number, t)
	case *notionapi.ToDoBlock:
		return richText(b.ToDo.RichText)
	case *notionapi.QuoteBlock:
		return richText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		return richText(b.Callout.RichText)
	case *notionapi.ToggleBlock:
		return richText(b.Toggle.RichText)
	case *notionapi.CodeBlock:
		return richText(b.Code.RichText)
	case *notionapi.TableRowBlock:
		var cells []string
		for _, cell := range b.TableRow.Cells {
			if t := richText(cell); t != "" {
				cells = append(cells, t)
			}
		}
		return strings.Join(cells, " ")
	}
	return ""
}

func richText(rt []notionapi.RichText) string {
	var sb strings.Builder
	for _, r := range rt {
		sb.WriteString(r.PlainText)
	}
	return strings.TrimSpace(sb.String())
}
