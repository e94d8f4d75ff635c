package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/diffclip/internal/diff"
	"github.com/sprite-ai/diffclip/internal/model"
)

type lineRole int

const (
	rolePlain lineRole = iota
	roleMarker
	roleFile
	roleEdit
)

// renderedLine is a single line of the preview ready for display.
type renderedLine struct {
	Role    lineRole
	Kind    model.LineKind // set for roleEdit
	Number  int            // line number for roleEdit
	Content string         // entry content for roleEdit, whole line otherwise

	// Syntax highlighting tokens (nil = no highlighting)
	Tokens []diff.Token
}

// renderPreview splits preview text into display lines. Report entries of
// the form "Line N: + content" are recognized and highlighted with the
// lexer of the file they belong to, added and deleted sides separately;
// anything else is shown as is.
func renderPreview(text string) []renderedLine {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	raw := strings.Split(text, "\n")
	lines := make([]renderedLine, 0, len(raw))

	// Entry indices grouped by the file header they follow.
	var order []string
	byFile := map[string][]int{}
	current := ""

	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if path, ok := strings.CutPrefix(l, "File: "); ok {
			current = path
			lines = append(lines, renderedLine{Role: roleFile, Content: path})
			continue
		}
		if rl, ok := parseEdit(l); ok {
			if _, seen := byFile[current]; !seen {
				order = append(order, current)
			}
			byFile[current] = append(byFile[current], len(lines))
			lines = append(lines, rl)
			continue
		}
		role := rolePlain
		if isMarker(l) {
			role = roleMarker
		}
		lines = append(lines, renderedLine{Role: role, Content: l})
	}

	for _, path := range order {
		idx := byFile[path]
		edits := make([]model.LineEdit, len(idx))
		for i, j := range idx {
			edits[i] = model.LineEdit{LineNumber: lines[j].Number, Content: lines[j].Content, Kind: lines[j].Kind}
		}
		for i, hl := range diff.HighlightEdits(path, edits) {
			lines[idx[i]].Tokens = hl.Tokens
		}
	}

	return lines
}

// parseEdit recognizes a report entry line.
func parseEdit(l string) (renderedLine, bool) {
	rest, ok := strings.CutPrefix(l, "Line ")
	if !ok {
		return renderedLine{}, false
	}
	numText, body, ok := strings.Cut(rest, ": ")
	if !ok {
		return renderedLine{}, false
	}
	n, err := strconv.Atoi(numText)
	if err != nil || len(body) < 2 || body[1] != ' ' {
		return renderedLine{}, false
	}

	var kind model.LineKind
	switch body[0] {
	case '+':
		kind = model.Added
	case '-':
		kind = model.Deleted
	default:
		return renderedLine{}, false
	}
	return renderedLine{Role: roleEdit, Kind: kind, Number: n, Content: body[2:]}, true
}

func isMarker(l string) bool {
	return strings.HasPrefix(l, "=====") ||
		strings.HasPrefix(l, "--- Begin file changes") ||
		strings.HasPrefix(l, "--- End of changes")
}

// renderHighlightedContent renders entry content with syntax tokens.
func renderHighlightedContent(rl renderedLine) string {
	if len(rl.Tokens) == 0 {
		return plainLineStyle.Render(rl.Content)
	}

	var b strings.Builder
	for _, tok := range rl.Tokens {
		if tok.Color != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tok.Color)).Render(tok.Text))
		} else {
			b.WriteString(tok.Text)
		}
	}
	return b.String()
}

// styleLine applies styling to a rendered preview line.
func styleLine(rl renderedLine, width int) string {
	switch rl.Role {
	case roleFile:
		return fileHeaderStyle.Render(truncate("File: "+rl.Content, width))
	case roleMarker:
		return markerStyle.Render(truncate(rl.Content, width))
	case roleEdit:
	default:
		return plainLineStyle.Render(truncate(rl.Content, width))
	}

	num := lineNumberStyle.Render(fmt.Sprintf("%5d", rl.Number))
	var sign string
	if rl.Kind == model.Added {
		sign = addedSignStyle.Render("+")
	} else {
		sign = deletedSignStyle.Render("-")
	}

	maxContent := width - 8
	if maxContent > 0 && lipgloss.Width(rl.Content) > maxContent {
		return num + " " + sign + " " + plainLineStyle.Render(truncate(rl.Content, maxContent))
	}
	return num + " " + sign + " " + renderHighlightedContent(rl)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		return string(r[:max-1]) + "…"
	}
	return s
}
