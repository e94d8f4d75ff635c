// Package diff turns git patches into change sets.
package diff

import (
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/cockroachdb/errors"
	"github.com/sprite-ai/diffclip/internal/model"
)

// Parse reads a unified diff string and returns one FileChange per file,
// in the order the patch lists them.
func Parse(raw string) ([]model.FileChange, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "parsing diff")
	}

	files := make([]model.FileChange, 0, len(parsed))
	for _, f := range parsed {
		files = append(files, toFileChange(f))
	}
	return files, nil
}

func toFileChange(f *gitdiff.File) model.FileChange {
	fc := model.FileChange{Path: fileName(f)}

	for _, frag := range f.TextFragments {
		oldLine := int(frag.OldPosition)
		newLine := int(frag.NewPosition)

		for _, line := range frag.Lines {
			content := strings.TrimSuffix(line.Line, "\n")

			switch line.Op {
			case gitdiff.OpContext:
				oldLine++
				newLine++
			case gitdiff.OpDelete:
				fc.DeletedLines = append(fc.DeletedLines, model.LineEdit{
					LineNumber: oldLine,
					Content:    content,
					Kind:       model.Deleted,
				})
				oldLine++
			case gitdiff.OpAdd:
				fc.AddedLines = append(fc.AddedLines, model.LineEdit{
					LineNumber: newLine,
					Content:    content,
					Kind:       model.Added,
				})
				newLine++
			}
		}
	}

	fc.LinesAdded = len(fc.AddedLines)
	fc.LinesDeleted = len(fc.DeletedLines)
	return fc
}

// fileName returns the repository-relative path for the file: the new name,
// or the old one when the file was deleted.
func fileName(f *gitdiff.File) string {
	if f.IsDelete || f.NewName == "" {
		return f.OldName
	}
	return f.NewName
}
