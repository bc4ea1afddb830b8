package highlight

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestHighlightKeepsText(t *testing.T) {
	h := New("")
	tests := []struct {
		name        string
		text        string
		contentType string
	}{
		{"json", "{\n  \"a\": 1,\n  \"b\": [true, null]\n}", "application/json; charset=utf-8"},
		{"problem json", `{"title": "bad"}`, "application/problem+json"},
		{"sniffed json", `[1, 2]`, ""},
		{"xml", "<a>\n  <b>text</b>\n</a>", "application/xml"},
		{"plain", "hello\nworld", "text/plain"},
		{"unknown", "binary-ish", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Highlight(tt.text, tt.contentType)
			if ansi.Strip(got) != tt.text {
				t.Errorf("Expected text to survive highlighting, got %q", ansi.Strip(got))
			}
		})
	}
}

func TestHighlightEmpty(t *testing.T) {
	if got := New("dracula").Highlight("", "application/json"); got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}

func TestLexerFor(t *testing.T) {
	if lexerFor("plain words", "") != nil {
		t.Error("Expected no lexer for plain text without content type")
	}
	if lexerFor(`{"a":1}`, "") == nil {
		t.Error("Expected JSON lexer to be sniffed")
	}
	if lexerFor("x", "not a media type;;") != nil {
		t.Error("Expected invalid content type to be ignored")
	}
}
