// Package tui implements the Bubble Tea outcome dialog.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sprite-ai/diffclip/internal/model"
)

// Dialog is the content shown by the modal.
type Dialog struct {
	Severity model.Severity
	Title    string
	Message  string
	Hints    []string
	Preview  string // optional scrollable text, usually the delivered report
}

// Model is the Bubble Tea model for the outcome dialog.
type Model struct {
	dialog Dialog

	// UI state
	width  int
	height int

	// Preview viewport
	scrollOffset int
	viewHeight   int

	lines []renderedLine

	dismissed bool
}

// New creates a dialog model.
func New(d Dialog) Model {
	return Model{
		dialog: d,
		lines:  renderPreview(d.Preview),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = m.previewHeight()
		m.clampScroll()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Dismiss):
			m.dismissed = true
			return m, tea.Quit

		case key.Matches(msg, keys.Down):
			m.scrollOffset++

		case key.Matches(msg, keys.Up):
			m.scrollOffset--

		case key.Matches(msg, keys.PageDown):
			m.scrollOffset += m.page()

		case key.Matches(msg, keys.PageUp):
			m.scrollOffset -= m.page()

		case key.Matches(msg, keys.Top):
			m.scrollOffset = 0

		case key.Matches(msg, keys.Bottom):
			m.scrollOffset = len(m.lines)
		}
		m.clampScroll()
	}

	return m, nil
}

func (m Model) page() int {
	if m.viewHeight > 1 {
		return m.viewHeight - 1
	}
	return 1
}

func (m *Model) clampScroll() {
	maxOffset := len(m.lines) - m.viewHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// previewHeight is the number of preview lines that fit below the header.
func (m Model) previewHeight() int {
	if len(m.lines) == 0 {
		return 0
	}
	// borders + title + padded message + hints + preview rule + help bar
	h := m.height - 8 - len(m.dialog.Hints)
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	innerWidth := m.width - 4 // borders + padding

	titleStyle := titleInfoStyle
	if m.dialog.Severity == model.SeverityError {
		titleStyle = titleErrorStyle
	}

	parts := []string{
		titleStyle.Render(m.dialog.Title),
		messageStyle.Width(innerWidth).Render(m.dialog.Message),
	}
	for _, h := range m.dialog.Hints {
		parts = append(parts, hintStyle.Width(innerWidth).Render("hint: "+h))
	}
	if len(m.lines) > 0 {
		parts = append(parts, previewStyle.Width(innerWidth).Render(m.renderPreview(innerWidth)))
	}
	parts = append(parts, m.renderHelpBar())

	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return dialogStyle.BorderForeground(titleStyle.GetForeground()).Width(m.width - 2).Render(body)
}

func (m Model) renderPreview(width int) string {
	var b strings.Builder

	end := m.scrollOffset + m.viewHeight
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(styleLine(m.lines[i], width))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderHelpBar() string {
	items := []key.Binding{keys.Dismiss}
	if len(m.lines) > m.viewHeight {
		items = append([]key.Binding{keys.Up, keys.Down, keys.PageDown}, items...)
	}

	var b strings.Builder
	for i, k := range items {
		if i > 0 {
			b.WriteString(helpBarStyle.Render("  "))
		}
		h := k.Help()
		b.WriteString(helpKeyStyle.Render(h.Key))
		b.WriteString(helpBarStyle.Render(" " + h.Desc))
	}
	if len(m.lines) > m.viewHeight && m.viewHeight > 0 {
		b.WriteString(helpBarStyle.Render(fmt.Sprintf("  %d/%d", m.scrollOffset+1, len(m.lines))))
	}
	return b.String()
}

// Run shows the dialog on out and blocks until the user dismisses it.
func Run(d Dialog, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(d), tea.WithAltScreen(), tea.WithInput(in), tea.WithOutput(out))
	_, err := p.Run()
	return err
}
