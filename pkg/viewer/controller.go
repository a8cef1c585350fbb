package viewer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bttk/obsidian-viewer/pkg/content"
	"github.com/bttk/obsidian-viewer/pkg/obsidianmd"
)

var (
	// ErrNotFound is returned for paths that are not in the loaded tree.
	ErrNotFound = errors.New("not found")
	// ErrNotFolder is returned when a folder operation targets a file.
	ErrNotFolder = errors.New("not a folder")
	// ErrNotFile is returned when a file operation targets a folder.
	ErrNotFile = errors.New("not a file")
	// ErrTooLarge is returned for files above Options.MaxFileSize.
	ErrTooLarge = errors.New("file too large")
)

// Controller owns the tree of a single viewer session.
type Controller struct {
	provider content.Provider
	opts     Options
	filter   content.Filter
	view     View
	renderer *obsidianmd.Renderer
	cache    *Cache
	reads    singleflight.Group
	log      zerolog.Logger

	mu     sync.Mutex
	root   *node
	nodes  map[string]*node
	active string
	// gen is bumped by ClearCache; reads started under an older
	// generation do not populate the cache.
	gen uint64
}

// New returns a controller whose tree holds only the unexpanded root.
// A nil view is replaced by NopView.
func New(provider content.Provider, opts Options, view View) *Controller {
	opts = opts.clone()
	if view == nil {
		view = NopView{}
	}
	c := &Controller{
		provider: provider,
		opts:     opts,
		filter:   content.Filter{Extension: opts.Extension, Excluded: opts.Excluded},
		view:     view,
		renderer: obsidianmd.NewRenderer(opts.Extension),
		cache:    NewCache(),
		log:      opts.Logger.With().Str("component", "viewer").Str("repo", opts.Repo).Logger(),
	}
	c.root = &node{kind: KindFolder}
	c.nodes = map[string]*node{"": c.root}
	return c
}

// Options returns the controller configuration.
func (c *Controller) Options() Options {
	return c.opts.clone()
}

// Cache returns the content cache.
func (c *Controller) Cache() *Cache {
	return c.cache
}

// Load lists the repository root. It is the initial page load.
func (c *Controller) Load(ctx context.Context) error {
	return c.Expand(ctx, "")
}

// Toggle is the click on a folder. An unexpanded or failed folder is
// fetched and opened, an expanded one is collapsed or reopened without
// fetching, and a folder that is already loading is left alone.
func (c *Controller) Toggle(ctx context.Context, path string) error {
	path = cleanPath(path)

	c.mu.Lock()
	n, err := c.folderLocked(path)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	switch n.state {
	case StateLoading:
		c.mu.Unlock()
		return nil
	case StateExpanded:
		n.open = !n.open
		open := n.open
		c.mu.Unlock()
		c.view.FolderToggled(path, open)
		return nil
	default:
		return c.fetchChildren(ctx, n)
	}
}

// Expand makes sure the folder at path is expanded and open. If a
// listing is already in flight it waits for that one.
func (c *Controller) Expand(ctx context.Context, path string) error {
	path = cleanPath(path)

	for {
		c.mu.Lock()
		n, err := c.folderLocked(path)
		if err != nil {
			c.mu.Unlock()
			return err
		}

		switch n.state {
		case StateExpanded:
			wasOpen := n.open
			n.open = true
			c.mu.Unlock()
			if !wasOpen {
				c.view.FolderToggled(path, true)
			}
			return nil
		case StateLoading:
			l := n.loading
			c.mu.Unlock()
			if err := wait(ctx, l); err != nil {
				return err
			}
			// Expanded, or detached by ClearCache: look again.
		default:
			return c.fetchChildren(ctx, n)
		}
	}
}

// fetchChildren starts listing n and waits for it. It must be called
// with c.mu held and returns with it released. The listing is not
// cancelled with ctx; it finishes for the other callers waiting on it.
func (c *Controller) fetchChildren(ctx context.Context, n *node) error {
	l := &load{done: make(chan struct{})}
	n.state = StateLoading
	n.err = nil
	n.loading = l
	path := n.path
	c.mu.Unlock()

	c.view.FolderLoading(path)
	go c.list(context.WithoutCancel(ctx), n, l)
	return wait(ctx, l)
}

func wait(ctx context.Context, l *load) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) list(ctx context.Context, n *node, l *load) {
	defer close(l.done)

	path := n.path
	c.log.Debug().Str("path", path).Msg("listing folder")
	listing, err := c.provider.List(ctx, path)

	c.mu.Lock()
	detached := c.nodes[path] != n
	if err != nil {
		n.state = StateFailed
		n.err = err
		n.open = false
		n.loading = nil
		l.err = err
		c.mu.Unlock()

		c.log.Error().Err(err).Str("path", path).Str("kind", content.KindOf(err).String()).Msg("failed to list folder")
		if !detached {
			c.view.FolderFailed(path, err)
		}
		return
	}

	n.children = n.children[:0]
	for _, e := range c.filter.Apply(listing.Entries()).Entries() {
		child := &node{name: e.Name, path: e.Path, size: e.Size, kind: KindFile}
		if e.Type == content.TypeFolder {
			child.kind = KindFolder
		}
		n.children = append(n.children, child)
		if !detached {
			c.nodes[child.path] = child
		}
	}
	n.state = StateExpanded
	n.open = true
	n.loading = nil
	snap := c.snapshotLocked(n)
	c.mu.Unlock()

	c.log.Debug().Str("path", path).Int("entries", len(snap.Children)).Msg("folder loaded")
	if !detached {
		c.view.FolderLoaded(snap)
	}
}

// SelectFile makes path the active file and shows its rendered content,
// fetching it on the first selection only.
func (c *Controller) SelectFile(ctx context.Context, path string) error {
	path = cleanPath(path)

	c.mu.Lock()
	n, ok := c.nodes[path]
	switch {
	case !ok:
		c.mu.Unlock()
		return fmt.Errorf("%q: %w", path, ErrNotFound)
	case n.kind != KindFile:
		c.mu.Unlock()
		return fmt.Errorf("%q: %w", path, ErrNotFile)
	}
	c.active = path
	snap := c.snapshotLocked(n)
	size := n.size
	gen := c.gen
	c.mu.Unlock()

	c.view.FileSelected(snap)
	if c.opts.EnableBreadcrumbs {
		c.view.Breadcrumbs(Breadcrumbs(path, c.opts.Extension))
	}

	text, ok := c.cache.Get(path)
	if !ok {
		if c.opts.MaxFileSize > 0 && size > c.opts.MaxFileSize {
			err := fmt.Errorf("%q is %d bytes: %w", path, size, ErrTooLarge)
			c.view.ContentFailed(path, err)
			return err
		}

		c.view.ContentLoading(path)
		var err error
		if text, err = c.read(ctx, path, gen); err != nil {
			c.log.Error().Err(err).Str("path", path).Str("kind", content.KindOf(err).String()).Msg("failed to read file")
			c.view.ContentFailed(path, err)
			return err
		}
	}

	fragment, err := c.renderer.Render(text)
	if err != nil {
		c.view.ContentFailed(path, err)
		return fmt.Errorf("render %q: %w", path, err)
	}
	if c.ActivePath() == path {
		c.view.ContentRendered(path, fragment)
	}
	return nil
}

// read fetches path once for all concurrent callers of the same cache
// generation. Each caller stops waiting when its own ctx ends; the fetch
// itself is not cancelled.
func (c *Controller) read(ctx context.Context, path string, gen uint64) (string, error) {
	fetchCtx := context.WithoutCancel(ctx)
	key := strconv.FormatUint(gen, 10) + ":" + path
	ch := c.reads.DoChan(key, func() (interface{}, error) {
		if text, ok := c.cache.Get(path); ok {
			return text, nil
		}
		c.log.Debug().Str("path", path).Msg("fetching file")
		doc, err := c.provider.Read(fetchCtx, path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.cache.Put(path, doc.Content)
		}
		c.mu.Unlock()
		return doc.Content, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Home clears the active selection and shows the empty content pane.
func (c *Controller) Home() {
	c.mu.Lock()
	c.active = ""
	c.mu.Unlock()
	c.view.Home()
}

// ClearCache drops all cached content and forgets the children of every
// folder below the root. The root listing stays.
func (c *Controller) ClearCache() {
	c.mu.Lock()
	c.cache.Clear()
	c.gen++
	c.nodes = map[string]*node{"": c.root}
	for i, child := range c.root.children {
		if child.kind == KindFolder {
			child = &node{name: child.name, path: child.path, kind: KindFolder}
			c.root.children[i] = child
		}
		c.nodes[child.path] = child
	}
	c.active = ""
	c.mu.Unlock()

	c.log.Info().Msg("cache cleared")
	c.view.Home()
}

// ActivePath returns the selected file, or "" when none is.
func (c *Controller) ActivePath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Root returns a snapshot of the whole loaded tree.
func (c *Controller) Root() Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(c.root)
}

// Node returns a snapshot of the loaded node at path.
func (c *Controller) Node(path string) (Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.nodes[cleanPath(path)]
	if !ok {
		return Node{}, false
	}
	return c.snapshotLocked(n), true
}

// Walk calls fn for every loaded node below the root in tree order,
// folders before their children. It stops when fn returns false.
func (c *Controller) Walk(fn func(Node) bool) {
	walk(c.Root().Children, fn)
}

func walk(nodes []Node, fn func(Node) bool) bool {
	for _, n := range nodes {
		if !fn(n) {
			return false
		}
		if !walk(n.Children, fn) {
			return false
		}
	}
	return true
}

func (c *Controller) folderLocked(path string) (*node, error) {
	n, ok := c.nodes[path]
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	if n.kind != KindFolder {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFolder)
	}
	return n, nil
}

func (c *Controller) snapshotLocked(n *node) Node {
	s := Node{
		Name:   n.name,
		Path:   n.path,
		Kind:   n.kind,
		Size:   n.size,
		State:  n.state,
		Open:   n.open,
		Active: n.kind == KindFile && n.path == c.active,
		Label:  Label(n.name, n.kind, c.opts),
		Icon:   Icon(n.name, n.kind, c.opts),
	}
	if n.kind == KindFile {
		s.State = StateUnexpanded
	}
	if n.err != nil {
		s.Error = folderErrorText
	}
	for _, child := range n.children {
		s.Children = append(s.Children, c.snapshotLocked(child))
	}
	return s
}

func cleanPath(path string) string {
	return strings.Trim(strings.TrimPrefix(path, "./"), "/")
}
