// Package report renders change sets into the plain-text report that is
// copied to the clipboard or handed to the summarizer.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/sprite-ai/diffclip/internal/model"
)

const (
	StartMarker     = "===== START OF GIT DIFF ====="
	EndMarker       = "===== END OF GIT DIFF ====="
	NoChangesNotice = "Note: No changes detected between the specified commits or branches."
)

// Format renders cs. The output depends only on cs, so the same change set
// always produces byte-identical text.
func Format(cs *model.ChangeSet) string {
	var b strings.Builder

	line(&b, StartMarker)
	line(&b, "Diff from: %s", cs.SourceRef)
	line(&b, "Diff to: %s", cs.TargetRef)
	line(&b, "Added lines: %d", cs.TotalLinesAdded)
	line(&b, "Deleted lines: %d", cs.TotalLinesDeleted)

	if cs.Empty() {
		line(&b, NoChangesNotice)
		line(&b, EndMarker)
		return b.String()
	}

	for _, f := range cs.Files {
		writeFile(&b, f)
	}

	line(&b, EndMarker)
	return b.String()
}

func writeFile(b *strings.Builder, f model.FileChange) {
	line(b, "File: %s", f.Path)
	line(b, "Summary of changes: +%d lines, -%d lines", f.LinesAdded, f.LinesDeleted)
	line(b, "--- Begin file changes for: %s ---", f.Path)

	for _, e := range Merge(f) {
		// Content goes through verbatim, never as a format string.
		fmt.Fprintf(b, "Line %d: %s ", e.LineNumber, e.Kind.Sign())
		b.WriteString(e.Content)
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	line(b, "--- End of changes for %s ---", f.Path)
}

// Merge returns the file's added lines followed by its deleted lines,
// stably sorted by line number. At equal line numbers the added line comes
// first. Kind is taken from the list an edit came from.
func Merge(f model.FileChange) []model.LineEdit {
	merged := make([]model.LineEdit, 0, len(f.AddedLines)+len(f.DeletedLines))
	for _, e := range f.AddedLines {
		e.Kind = model.Added
		merged = append(merged, e)
	}
	for _, e := range f.DeletedLines {
		e.Kind = model.Deleted
		merged = append(merged, e)
	}

	slices.SortStableFunc(merged, func(a, b model.LineEdit) int {
		return cmp.Compare(a.LineNumber, b.LineNumber)
	})
	return merged
}

func line(b *strings.Builder, format string, args ...any) {
	if len(args) == 0 {
		b.WriteString(format)
	} else {
		fmt.Fprintf(b, format, args...)
	}
	b.WriteByte('\n')
}
