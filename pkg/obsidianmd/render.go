package obsidianmd

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// InternalLinkClass marks anchors that navigate inside the tree.
const InternalLinkClass = "internal-link"

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// Fragment is a rendered note.
type Fragment struct {
	HTML string `json:"html"`
	// Links are the destinations of internal links in document order.
	Links []string `json:"links,omitempty"`
}

// Renderer converts Obsidian markdown into an HTML fragment. Raw HTML in
// the source is omitted and dangerous link schemes are dropped, so the
// output never carries executable script. A Renderer is safe for
// concurrent use.
type Renderer struct {
	ext string
	md  goldmark.Markdown
}

// NewRenderer builds a renderer for notes whose files end in ext
// (".md" when empty).
func NewRenderer(ext string) *Renderer {
	if ext == "" {
		ext = ".md"
	}
	return &Renderer{
		ext: ext,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				&internalLinks{ext: ext},
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithHardWraps(),
			),
		),
	}
}

// Render transforms raw and converts it to HTML.
func (r *Renderer) Render(raw string) (*Fragment, error) {
	src := []byte(TransformExt(raw, r.ext))

	pc := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))

	var buf bytes.Buffer
	buf.WriteString(`<div class="markdown-content">`)
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	buf.WriteString(`</div>`)

	links, _ := pc.Get(linksKey).([]string)
	return &Fragment{HTML: buf.String(), Links: links}, nil
}

// IsInternal reports whether href points at another note: no URL scheme
// and a path ending in ext, with or without a #fragment.
func IsInternal(href, ext string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "//") || schemeRe.MatchString(href) {
		return false
	}
	if strings.HasSuffix(href, ext) {
		return true
	}
	p, _, _ := strings.Cut(href, "#")
	return strings.HasSuffix(p, ext)
}

var linksKey = parser.NewContextKey()

type internalLinks struct {
	ext string
}

func (e *internalLinks) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&internalLinkTransformer{ext: e.ext}, 100),
	))
}

type internalLinkTransformer struct {
	ext string
}

func (t *internalLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	var links []string
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok || !IsInternal(string(link.Destination), t.ext) {
			return ast.WalkContinue, nil
		}
		dest := string(link.Destination)
		links = append(links, dest)
		link.Destination = []byte("#")
		link.SetAttributeString("class", []byte(InternalLinkClass))
		link.SetAttributeString("data-path", []byte(dest))
		return ast.WalkContinue, nil
	})
	pc.Set(linksKey, links)
}
