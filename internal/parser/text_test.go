package parser

import (
	"strings"
	"testing"
)

func TestTextExtractor_LinesPassThrough(t *testing.T) {
	input := "ARTICLE I NAME\n  Section 1: Purpose\n\nServe the community."
	p := &TextExtractor{}
	ex, err := p.Extract(strings.NewReader(input), "bylaws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ex.Title != "bylaws" {
		t.Errorf("expected title %q, got %q", "bylaws", ex.Title)
	}
	if ex.Text != input {
		t.Errorf("expected text unchanged, got %q", ex.Text)
	}
}

func TestTextExtractor_CRLF(t *testing.T) {
	p := &TextExtractor{}
	ex, err := p.Extract(strings.NewReader("ARTICLE I\r\nSection 1\r\nbody\r\n"), "crlf.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Text != "ARTICLE I\nSection 1\nbody" {
		t.Errorf("expected CRLF normalized, got %q", ex.Text)
	}
}

func TestTextExtractor_EmptyInput(t *testing.T) {
	p := &TextExtractor{}
	ex, err := p.Extract(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", ex.Title)
	}
	if ex.Text != "" {
		t.Errorf("expected empty text, got %q", ex.Text)
	}
}

func TestTextExtractor_TitleStripsDirectory(t *testing.T) {
	p := &TextExtractor{}
	ex, err := p.Extract(strings.NewReader("x"), "uploads/2024/council.bylaws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.Title != "council.bylaws" {
		t.Errorf("expected title %q, got %q", "council.bylaws", ex.Title)
	}
}
