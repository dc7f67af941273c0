package render

import (
	"strings"
	"testing"
)

func TestMarkdownFencedCode(t *testing.T) {
	got := string(Markdown("```\nfmt.Println(\"hi\")\n```"))
	if !strings.Contains(got, "<pre><code>") {
		t.Fatalf("expected fenced code rendered, got %q", got)
	}
}

func TestMarkdownTables(t *testing.T) {
	source := "| a | b |\n| - | - |\n| 1 | 2 |"
	got := string(Markdown(source))
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Fatalf("expected GFM table rendered, got %q", got)
	}
}

func TestMarkdownHardWraps(t *testing.T) {
	got := string(Markdown("first line\nsecond line"))
	if !strings.Contains(got, "<br>") {
		t.Fatalf("expected newline converted to break, got %q", got)
	}
}

func TestMarkdownEmphasis(t *testing.T) {
	got := string(Markdown("**bold** and *italic*"))
	if !strings.Contains(got, "<strong>bold</strong>") || !strings.Contains(got, "<em>italic</em>") {
		t.Fatalf("expected emphasis rendered, got %q", got)
	}
}
