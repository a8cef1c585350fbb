package viewer

import (
	"maps"
	"slices"
	"sync"

	"github.com/bttk/obsidian-viewer/pkg/obsidianmd"
)

// View is the presentation layer driven by a Controller. Calls are made
// without controller locks held and may arrive from several goroutines.
type View interface {
	FolderLoading(path string)
	FolderLoaded(folder Node)
	// FolderFailed replaces the folder's children with an error
	// placeholder.
	FolderFailed(path string, err error)
	FolderToggled(path string, open bool)

	// FileSelected marks file as the single active entry.
	FileSelected(file Node)
	ContentLoading(path string)
	ContentRendered(path string, fragment *obsidianmd.Fragment)
	// ContentFailed replaces the content pane with an error placeholder.
	ContentFailed(path string, err error)
	// Breadcrumbs shows the trail for the active file.
	Breadcrumbs(crumbs []Crumb)

	// Home clears the content pane and the active selection and hides
	// the breadcrumb trail.
	Home()
}

// NopView ignores every update.
type NopView struct{}

func (NopView) FolderLoading(string) {}
func (NopView) FolderLoaded(Node) {}
func (NopView) FolderFailed(string, error) {}
func (NopView) FolderToggled(string, bool) {}
func (NopView) FileSelected(Node) {}
func (NopView) ContentLoading(string) {}
func (NopView) ContentRendered(string, *obsidianmd.Fragment) {}
func (NopView) ContentFailed(string, error) {}
func (NopView) Breadcrumbs([]Crumb) {}
func (NopView) Home() {}

// ContentStatus is the state of the content pane.
type ContentStatus string

const (
	StatusEmpty   ContentStatus = "empty"
	StatusLoading ContentStatus = "loading"
	StatusReady   ContentStatus = "ready"
	StatusError   ContentStatus = "error"
)

const (
	homeTitle       = "Select a file"
	homeBody        = `<p class="empty-state">Browse the files in the left panel to see their content.</p>`
	loadingBody     = `<p class="loading">Loading...</p>`
	contentErrBody  = `<p class="error">Error loading file</p>`
	folderErrorText = "Error loading contents"
)

// PageState is a snapshot of everything a Page displays.
type PageState struct {
	Title           string            `json:"title"`
	Body            string            `json:"body"`
	Status          ContentStatus     `json:"status"`
	Error           string            `json:"error,omitempty"`
	ActivePath      string            `json:"active_path,omitempty"`
	Links           []string          `json:"links,omitempty"`
	Breadcrumbs     []Crumb           `json:"breadcrumbs,omitempty"`
	ShowBreadcrumbs bool              `json:"show_breadcrumbs"`
	FolderErrors    map[string]string `json:"folder_errors,omitempty"`
	LoadingFolders  []string          `json:"loading_folders,omitempty"`
}

// Page is an in-memory View: the content pane, the breadcrumb trail and
// per-folder placeholders of a single viewer page.
type Page struct {
	mu      sync.Mutex
	state   PageState
	loading map[string]bool
}

// NewPage returns a page showing the home screen.
func NewPage() *Page {
	p := &Page{loading: map[string]bool{}}
	p.state.FolderErrors = map[string]string{}
	p.home()
	return p
}

var _ View = (*Page)(nil)

// State returns a copy of the current page.
func (p *Page) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.state
	s.Links = slices.Clone(s.Links)
	s.Breadcrumbs = slices.Clone(s.Breadcrumbs)
	s.FolderErrors = maps.Clone(s.FolderErrors)
	s.LoadingFolders = slices.Sorted(maps.Keys(p.loading))
	return s
}

func (p *Page) FolderLoading(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading[path] = true
	delete(p.state.FolderErrors, path)
}

func (p *Page) FolderLoaded(folder Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.loading, folder.Path)
	delete(p.state.FolderErrors, folder.Path)
}

func (p *Page) FolderFailed(path string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.loading, path)
	p.state.FolderErrors[path] = folderErrorText
}

func (p *Page) FolderToggled(string, bool) {}

func (p *Page) FileSelected(file Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.ActivePath = file.Path
	p.state.Title = file.Label
}

func (p *Page) ContentLoading(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if path != p.state.ActivePath {
		return
	}
	p.state.Status = StatusLoading
	p.state.Body = loadingBody
	p.state.Error = ""
	p.state.Links = nil
}

func (p *Page) ContentRendered(path string, fragment *obsidianmd.Fragment) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if path != p.state.ActivePath {
		return
	}
	p.state.Status = StatusReady
	p.state.Body = fragment.HTML
	p.state.Links = fragment.Links
	p.state.Error = ""
}

func (p *Page) ContentFailed(path string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if path != p.state.ActivePath {
		return
	}
	p.state.Status = StatusError
	p.state.Body = contentErrBody
	p.state.Links = nil
	p.state.Error = err.Error()
}

func (p *Page) Breadcrumbs(crumbs []Crumb) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Breadcrumbs = crumbs
	p.state.ShowBreadcrumbs = len(crumbs) > 0
}

func (p *Page) Home() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.home()
}

func (p *Page) home() {
	p.state.Title = homeTitle
	p.state.Body = homeBody
	p.state.Status = StatusEmpty
	p.state.Error = ""
	p.state.ActivePath = ""
	p.state.Links = nil
	p.state.Breadcrumbs = nil
	p.state.ShowBreadcrumbs = false
}
