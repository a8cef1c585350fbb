package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Target is the parsed destination of an internal link.
type Target struct {
	// Path without the note extension.
	Path     string
	Fragment string
	Alias    string
}

// ParseTarget parses an internal link destination such as "Note.md",
// "dir/Note.md#Heading" or "Note|alias". The note extension is removed
// from Path.
func ParseTarget(href, ext string) Target {
	if ext == "" {
		ext = ".md"
	}
	var t Target
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if i := strings.Index(href, "|"); i >= 0 {
		href, t.Alias = href[:i], href[i+1:]
	}
	if i := strings.Index(href, "#"); i >= 0 {
		href, t.Fragment = href[:i], href[i+1:]
		t.Fragment = strings.TrimSuffix(t.Fragment, ext)
	}
	t.Path = strings.TrimSuffix(cleanPath(href), ext)
	return t
}

// Navigate follows an internal link.
func (c *Controller) Navigate(ctx context.Context, href string) error {
	return c.Resolve(ctx, ParseTarget(href, c.opts.Extension).Path)
}

// Resolve shows the tree entry named by target, loading every ancestor
// folder first. An empty target goes home. A folder is expanded; a file
// is selected.
//
// Files are matched exactly, with or without the note extension. Failing
// that, the first file in tree order whose path contains target is
// selected, so an ambiguous target may open an unrelated note.
func (c *Controller) Resolve(ctx context.Context, target string) error {
	target = cleanPath(target)
	if target == "" {
		c.Home()
		return nil
	}

	c.mu.Lock()
	rootListed := c.root.state == StateExpanded
	c.mu.Unlock()
	if !rootListed {
		if err := c.Load(ctx); err != nil {
			return err
		}
	}

	segments := strings.Split(target, "/")
	for i := 1; i < len(segments); i++ {
		err := c.Expand(ctx, strings.Join(segments[:i], "/"))
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNotFolder) {
			break
		}
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	if n, ok := c.nodes[target]; ok && n.kind == KindFolder {
		c.mu.Unlock()
		return c.Expand(ctx, target)
	}
	file, ok := c.findFileLocked(target)
	c.mu.Unlock()

	if !ok {
		c.log.Warn().Str("path", target).Msg("link target not found")
		return fmt.Errorf("%q: %w", target, ErrNotFound)
	}
	return c.SelectFile(ctx, file)
}

func (c *Controller) findFileLocked(target string) (string, bool) {
	for _, p := range []string{target, target + c.opts.Extension} {
		if n, ok := c.nodes[p]; ok && n.kind == KindFile {
			return p, true
		}
	}

	var found string
	var search func(nodes []*node) bool
	search = func(nodes []*node) bool {
		for _, n := range nodes {
			if n.kind == KindFile && strings.Contains(n.path, target) {
				found = n.path
				return true
			}
			if search(n.children) {
				return true
			}
		}
		return false
	}
	return found, search(c.root.children)
}
