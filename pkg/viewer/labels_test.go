package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "Guide", Label("Guide.md", KindFile, Options{}))
	assert.Equal(t, "Guide.md", Label("Guide.md", KindFile, Options{ShowFileExtensions: true}))
	assert.Equal(t, "notes.md", Label("notes.md", KindFolder, Options{}))
	assert.Equal(t, "todo", Label("todo.txt", KindFile, Options{Extension: ".txt"}))
}

func TestIcon(t *testing.T) {
	opts := Options{Icons: Icons{
		Folders: map[string]string{"daily": "📅"},
		Files:   map[string]string{"readme": "📘", "default": "📝"},
	}}

	assert.Equal(t, "📅", Icon("Daily", KindFolder, opts))
	assert.Equal(t, "📁", Icon("projects", KindFolder, opts))
	assert.Equal(t, "📘", Icon("README.md", KindFile, opts))
	assert.Equal(t, "📝", Icon("other.md", KindFile, opts))
	assert.Equal(t, "📄", Icon("other.md", KindFile, Options{}))
}

func TestBreadcrumbs(t *testing.T) {
	assert.Equal(t, []Crumb{{Name: "Home", Path: "", Link: true}}, Breadcrumbs("", ".md"))
	assert.Equal(t, []Crumb{
		{Name: "Home", Path: "", Link: true},
		{Name: "index", Path: "index.md"},
	}, Breadcrumbs("index.md", ".md"))
	assert.Equal(t, []Crumb{
		{Name: "Home", Path: "", Link: true},
		{Name: "a", Path: "a", Link: true},
		{Name: "b", Path: "a/b", Link: true},
		{Name: "c", Path: "a/b/c.md"},
	}, Breadcrumbs("/a/b/c.md", ".md"))
}
