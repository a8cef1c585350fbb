package viewer

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

// fakeProvider serves an in-memory repository and counts calls.
type fakeProvider struct {
	mu     sync.Mutex
	files  map[string]string
	dirs   map[string]bool
	fail   map[string]error
	lists  map[string]int
	reads  map[string]int
	gate   chan struct{}
	called chan string
}

func newFakeProvider(files map[string]string, dirs ...string) *fakeProvider {
	p := &fakeProvider{
		files: files,
		dirs:  map[string]bool{"": true},
		fail:  map[string]error{},
		lists: map[string]int{},
		reads: map[string]int{},
	}
	for _, d := range dirs {
		p.dirs[d] = true
	}
	for f := range files {
		for dir := path.Dir(f); dir != "."; dir = path.Dir(dir) {
			p.dirs[dir] = true
		}
	}
	return p
}

func (p *fakeProvider) List(ctx context.Context, dir string) (*content.Listing, error) {
	if err := p.enter(ctx, dir); err != nil {
		return nil, content.NetworkError("list", dir, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lists[dir]++
	if err, ok := p.fail[dir]; ok {
		return nil, err
	}

	var entries []content.Entry
	for d := range p.dirs {
		if d != "" && parentOf(d) == dir {
			entries = append(entries, content.Entry{Name: path.Base(d), Path: d, Type: content.TypeFolder})
		}
	}
	for f, text := range p.files {
		if parentOf(f) == dir {
			entries = append(entries, content.Entry{Name: path.Base(f), Path: f, Type: content.TypeFile, Size: int64(len(text))})
		}
	}
	return &content.Listing{Files: entries}, nil
}

func (p *fakeProvider) Read(ctx context.Context, file string) (*content.Document, error) {
	if err := p.enter(ctx, file); err != nil {
		return nil, content.NetworkError("read", file, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads[file]++
	if err, ok := p.fail[file]; ok {
		return nil, err
	}
	text, ok := p.files[file]
	if !ok {
		return nil, content.RemoteError("read", file, 404, "Not Found")
	}
	return &content.Document{Name: path.Base(file), Path: file, Content: text, Size: int64(len(text))}, nil
}

// enter reports the call and blocks on the gate when one is set, giving
// up when ctx ends.
func (p *fakeProvider) enter(ctx context.Context, name string) error {
	p.mu.Lock()
	gate, called := p.gate, p.called
	p.mu.Unlock()
	if called != nil {
		called <- name
	}
	if gate == nil {
		return ctx.Err()
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *fakeProvider) setFail(name string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.fail, name)
		return
	}
	p.fail[name] = err
}

func (p *fakeProvider) listCount(dir string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lists[dir]
}

func (p *fakeProvider) readCount(file string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads[file]
}

func parentOf(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// recordingView records view calls in order.
type recordingView struct {
	*Page
	mu    sync.Mutex
	calls []string
}

func newRecordingView() *recordingView {
	return &recordingView{Page: NewPage()}
}

func (v *recordingView) record(call string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, call)
}

func (v *recordingView) Calls() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.calls...)
}

func (v *recordingView) FolderLoading(path string) {
	v.record("FolderLoading " + path)
	v.Page.FolderLoading(path)
}

func (v *recordingView) FolderLoaded(folder Node) {
	v.record("FolderLoaded " + folder.Path)
	v.Page.FolderLoaded(folder)
}

func (v *recordingView) FolderFailed(path string, err error) {
	v.record("FolderFailed " + path)
	v.Page.FolderFailed(path, err)
}

func (v *recordingView) ContentLoading(path string) {
	v.record("ContentLoading " + path)
	v.Page.ContentLoading(path)
}

func (v *recordingView) Home() {
	v.record("Home")
	v.Page.Home()
}
