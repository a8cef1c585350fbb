package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Apply_FoldersFirstCaseInsensitive(t *testing.T) {
	entries := []Entry{
		{Name: "b.md", Path: "b.md", Type: TypeFile},
		{Name: "A.md", Path: "A.md", Type: TypeFile},
		{Name: "img", Path: "img", Type: TypeFolder},
	}

	l := Filter{}.Apply(entries)

	var names []string
	for _, e := range l.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"img", "A.md", "b.md"}, names)
}

func TestFilter_Apply_DropsHiddenExcludedAndNonMarkdown(t *testing.T) {
	entries := []Entry{
		{Name: ".git", Path: ".git", Type: TypeFolder},
		{Name: ".obsidian", Path: ".obsidian", Type: TypeFolder},
		{Name: "private", Path: "private", Type: TypeFolder},
		{Name: "old", Path: "archive/old", Type: TypeFolder},
		{Name: "image.png", Path: "image.png", Type: TypeFile},
		{Name: "notes", Path: "notes", Type: TypeFolder},
		{Name: "index.md", Path: "index.md", Type: TypeFile},
		{Name: "link", Path: "link", Type: "symlink"},
	}

	l := Filter{Excluded: []string{"private", "archive/old"}}.Apply(entries)

	assert.Equal(t, []Entry{{Name: "notes", Path: "notes", Type: TypeFolder}}, l.Folders)
	assert.Equal(t, []Entry{{Name: "index.md", Path: "index.md", Type: TypeFile}}, l.Files)
}

func TestFilter_Apply_CustomExtension(t *testing.T) {
	l := Filter{Extension: ".txt"}.Apply([]Entry{
		{Name: "a.md", Path: "a.md", Type: TypeFile},
		{Name: "b.txt", Path: "b.txt", Type: TypeFile},
	})
	assert.Len(t, l.Files, 1)
	assert.Equal(t, "b.txt", l.Files[0].Name)
}

func TestSortEntries_StableOnTies(t *testing.T) {
	entries := []Entry{
		{Name: "Readme.md", Path: "first"},
		{Name: "readme.md", Path: "second"},
		{Name: "README.md", Path: "third"},
	}
	SortEntries(entries)
	assert.Equal(t, "first", entries[0].Path)
	assert.Equal(t, "second", entries[1].Path)
	assert.Equal(t, "third", entries[2].Path)
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "a", JoinPath("", "a"))
	assert.Equal(t, "a/b", JoinPath("a", "b"))
}

func TestError_KindAndAuth(t *testing.T) {
	err := RemoteError("list", "docs", 403, "API rate limit exceeded")
	assert.Equal(t, KindRemote, KindOf(err))
	assert.True(t, IsAuth(err))
	assert.Contains(t, err.Error(), "status 403")

	wrapped := NetworkError("read", "a.md", errors.New("connection refused"))
	assert.Equal(t, KindNetwork, KindOf(wrapped))
	assert.False(t, IsAuth(wrapped))
	assert.Contains(t, wrapped.Error(), "connection refused")

	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
	assert.Equal(t, "decode", KindDecode.String())
}
