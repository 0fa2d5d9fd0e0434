package parser

import (
	"bufio"
	"fmt"
	"io"
)

// TextExtractor handles plain text files.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) (*Extraction, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	// ScanLines drops the trailing \r of CRLF line endings.
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	return &Extraction{
		Title: baseTitle(filename),
		Text:  joinLines(lines),
	}, nil
}
