package diff

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/sprite-ai/diffclip/internal/model"
)

const highlightStyle = "dracula"

// Token is a syntax-highlighted chunk of text.
type Token struct {
	Text  string
	Color string // hex color, empty for default
}

// HighlightedLine represents a line with syntax-highlighted tokens.
type HighlightedLine struct {
	Tokens []Token
}

// Plain returns the concatenated plain text of all tokens.
func (hl HighlightedLine) Plain() string {
	var b strings.Builder
	for _, t := range hl.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// HighlightEdits tokenizes the report entries of one file. Added and
// deleted lines are lexed as two separate streams, each in the order given,
// so an unterminated string or comment on one side never colors the other.
// The result is parallel to edits.
func HighlightEdits(filename string, edits []model.LineEdit) []HighlightedLine {
	if len(edits) == 0 {
		return nil
	}

	h := newHighlighter(filename)
	result := make([]HighlightedLine, len(edits))

	for _, kind := range []model.LineKind{model.Added, model.Deleted} {
		var idx []int
		var side []string
		for i, e := range edits {
			if e.Kind == kind {
				idx = append(idx, i)
				side = append(side, e.Content)
			}
		}
		for j, hl := range h.lines(side) {
			result[idx[j]] = hl
		}
	}
	return result
}

// highlighter carries the lexer and style resolved for one file.
type highlighter struct {
	lexer chroma.Lexer // nil when the file type is unknown
	style *chroma.Style
}

func newHighlighter(filename string) highlighter {
	style := styles.Get(highlightStyle)
	if style == nil {
		style = styles.Fallback
	}
	return highlighter{lexer: lexerForFile(filename), style: style}
}

// lines lexes lines as one contiguous source and splits the tokens back
// into one HighlightedLine per input line.
func (h highlighter) lines(lines []string) []HighlightedLine {
	if len(lines) == 0 {
		return nil
	}
	if h.lexer == nil {
		return plainLines(lines)
	}

	iterator, err := h.lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		return plainLines(lines)
	}

	result := make([]HighlightedLine, 0, len(lines))
	current := HighlightedLine{}
	for _, token := range iterator.Tokens() {
		// Tokens may span lines
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				result = append(result, current)
				current = HighlightedLine{}
			}
			if part != "" {
				current.Tokens = append(current.Tokens, Token{
					Text:  part,
					Color: tokenColor(h.style, token.Type),
				})
			}
		}
	}
	result = append(result, current)

	// Lexers may add or drop a trailing newline token; keep the count aligned.
	for len(result) < len(lines) {
		result = append(result, HighlightedLine{})
	}
	return result[:len(lines)]
}

func plainLines(lines []string) []HighlightedLine {
	result := make([]HighlightedLine, len(lines))
	for i, line := range lines {
		result[i] = HighlightedLine{Tokens: []Token{{Text: line}}}
	}
	return result
}

func lexerForFile(filename string) chroma.Lexer {
	if filename == "" {
		return nil
	}
	lexer := lexers.Match(filename)
	if lexer == nil {
		if ext := filepath.Ext(filename); ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	return lexer
}

func tokenColor(style *chroma.Style, tt chroma.TokenType) string {
	entry := style.Get(tt)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}
