package highlight

import (
	"mime"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// DefaultTheme is used when no theme is configured or the name is unknown
const DefaultTheme = "monokai"

// Highlighter colours response bodies with chroma token styles rendered
// through lipgloss. It is safe for concurrent use.
type Highlighter struct {
	style *chroma.Style

	mu    sync.Mutex
	cache map[chroma.TokenType]lipgloss.Style
}

// New creates a highlighter for a chroma style name
func New(theme string) *Highlighter {
	if theme == "" {
		theme = DefaultTheme
	}
	return &Highlighter{
		style: styles.Get(theme),
		cache: make(map[chroma.TokenType]lipgloss.Style),
	}
}

// Highlight returns text with ANSI colours for the given content type. Text
// with no matching lexer is returned unchanged.
func (h *Highlighter) Highlight(text, contentType string) string {
	if text == "" {
		return text
	}
	lexer := lexerFor(text, contentType)
	if lexer == nil {
		return text
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, text)
	if err != nil {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text) * 2)
	for _, token := range it.Tokens() {
		style := h.styleFor(token.Type)
		// render line by line so lipgloss does not pad multi-line tokens
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if part != "" {
				sb.WriteString(style.Render(part))
			}
		}
	}

	out := sb.String()
	// some lexers append a final newline
	if !strings.HasSuffix(text, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}

func (h *Highlighter) styleFor(tt chroma.TokenType) lipgloss.Style {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s, ok := h.cache[tt]; ok {
		return s
	}

	entry := h.style.Get(tt)
	s := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		s = s.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	h.cache[tt] = s
	return s
}

// lexerFor picks a lexer from the media type, falling back to JSON when the
// body looks like JSON
func lexerFor(text, contentType string) chroma.Lexer {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			if strings.HasSuffix(mediaType, "+json") {
				mediaType = "application/json"
			}
			if strings.HasSuffix(mediaType, "+xml") {
				mediaType = "application/xml"
			}
			if l := lexers.MatchMimeType(mediaType); l != nil {
				return l
			}
		}
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return lexers.Get("json")
	}
	return nil
}
