package obsidianmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform_WikiLinks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "see [[A]] now", "see [A](A.md) now"},
		{"alias", "see [[A|B]]", "see [B](A.md)"},
		{"alias keeps later pipes", "[[A|B|C]]", "[B|C](A.md)"},
		{"empty alias falls back to target", "[[A|]]", "[A](A.md)"},
		{"nested path", "[[docs/guide]]", "[docs/guide](docs/guide.md)"},
		{"heading fragment", "[[Note#Intro]]", "[Note#Intro](Note#Intro.md)"},
		{"spaces", "[[My Note]]", "[My Note](<My Note.md>)"},
		{"two links", "[[A]] and [[B|b]]", "[A](A.md) and [b](B.md)"},
		{"unterminated", "[[A", "[[A"},
		{"no text", "no links here", "no links here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transform(tt.in))
		})
	}
}

func TestTransform_Callouts(t *testing.T) {
	assert.Equal(t, "> **NOTE** hello", Transform("> [!note] hello"))
	assert.Equal(t, "> **WARNING**", Transform("> [!Warning]"))
	assert.Equal(t, "> **TIP**  two spaces", Transform("> [!tip]  two spaces"))

	in := "intro\n> [!info] first\n> plain quote\n>[!note] not a callout\n  > [!note] indented"
	want := "intro\n> **INFO** first\n> plain quote\n>[!note] not a callout\n  > [!note] indented"
	assert.Equal(t, want, Transform(in))
}

func TestTransform_CalloutContainingWikiLink(t *testing.T) {
	got := Transform("> [!note] see [[Other|the other]]")
	assert.Equal(t, "> **NOTE** see [the other](Other.md)", got)
}

func TestTransformExt(t *testing.T) {
	assert.Equal(t, "[A](A.markdown)", TransformExt("[[A]]", ".markdown"))
}
