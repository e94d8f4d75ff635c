// Package model defines the core data types shared across diffclip.
package model

// WorkingTree is the TargetRef of a change set whose target is the
// uncommitted state of the files on disk.
const WorkingTree = "Working Directory"

// LineKind tells whether a line was added or deleted.
type LineKind int

const (
	Added LineKind = iota
	Deleted
)

func (k LineKind) String() string {
	switch k {
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Sign returns the diff marker for the kind.
func (k LineKind) Sign() string {
	if k == Deleted {
		return "-"
	}
	return "+"
}

// Severity of an outcome reported to the user.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// LineEdit is a single added or deleted source line.
type LineEdit struct {
	LineNumber int    // 1-based, on the new side for Added and the old side for Deleted
	Content    string // line text without its "\n" terminator
	Kind       LineKind
}

// FileChange holds the line edits for one modified file.
type FileChange struct {
	Path         string
	LinesAdded   int
	LinesDeleted int
	AddedLines   []LineEdit
	DeletedLines []LineEdit
}

// ChangeSet is every modification between SourceRef and TargetRef.
type ChangeSet struct {
	SourceRef         string
	TargetRef         string
	TotalLinesAdded   int
	TotalLinesDeleted int
	Files             []FileChange // collaborator order, never re-sorted
}

// NewChangeSet builds a change set whose totals are the sums of the
// per-file counts.
func NewChangeSet(source, target string, files []FileChange) *ChangeSet {
	cs := &ChangeSet{
		SourceRef: source,
		TargetRef: target,
		Files:     files,
	}
	for _, f := range files {
		cs.TotalLinesAdded += f.LinesAdded
		cs.TotalLinesDeleted += f.LinesDeleted
	}
	return cs
}

// Stats returns aggregate statistics.
func (cs *ChangeSet) Stats() (files, added, deleted int) {
	return len(cs.Files), cs.TotalLinesAdded, cs.TotalLinesDeleted
}

// Empty reports whether the change set has no added or deleted lines.
func (cs *ChangeSet) Empty() bool {
	return cs.TotalLinesAdded == 0 && cs.TotalLinesDeleted == 0
}
