package content

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// Filter decides which entries of a raw listing are shown.
type Filter struct {
	// Extension of the files to keep. Defaults to DefaultExtension.
	Extension string
	// Excluded path prefixes, relative to the repository root.
	Excluded []string
}

func (f Filter) extension() string {
	if f.Extension == "" {
		return DefaultExtension
	}
	return f.Extension
}

// Hidden reports whether an entry must never be shown: dot-prefixed
// names and anything whose path starts with an excluded prefix.
func (f Filter) Hidden(name, path string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, prefix := range f.Excluded {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Keep reports whether e survives the filter.
func (f Filter) Keep(e Entry) bool {
	if f.Hidden(e.Name, e.Path) {
		return false
	}
	switch e.Type {
	case TypeFolder:
		return true
	case TypeFile:
		return strings.HasSuffix(e.Name, f.extension())
	default:
		return false
	}
}

// Apply filters entries and returns them as an ordered Listing.
func (f Filter) Apply(entries []Entry) *Listing {
	l := &Listing{Folders: []Entry{}, Files: []Entry{}}
	for _, e := range entries {
		if !f.Keep(e) {
			continue
		}
		if e.Type == TypeFolder {
			l.Folders = append(l.Folders, e)
		} else {
			l.Files = append(l.Files, e)
		}
	}
	SortEntries(l.Folders)
	SortEntries(l.Files)
	return l
}

// SortEntries orders entries by case-folded name. Ties keep their
// original order.
func SortEntries(entries []Entry) {
	fold := cases.Fold()
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return strings.Compare(fold.String(a.Name), fold.String(b.Name))
	})
}

// Entries flattens a listing back to folders followed by files.
func (l *Listing) Entries() []Entry {
	out := make([]Entry, 0, len(l.Folders)+len(l.Files))
	out = append(out, l.Folders...)
	return append(out, l.Files...)
}
