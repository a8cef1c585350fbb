// Package proxy serves a notes source over a small JSON API so that
// browsers never see the upstream credentials.
//
//	GET /api?action=list&path=docs
//	GET /api?action=file&path=docs/guide.md
package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

const (
	actionList = "list"
	actionFile = "file"
)

// Item is a listed folder or file.
type Item struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size *int64 `json:"size,omitempty"`
}

// ListResponse is the answer to action=list.
type ListResponse struct {
	Folders []Item `json:"folders"`
	Files   []Item `json:"files"`
}

// FileResponse is the answer to action=file.
type FileResponse struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Handler answers API requests from a content.Provider.
type Handler struct {
	provider content.Provider
	filter   content.Filter
	cache    *gocache.Cache
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCache keeps successful responses for ttl. A zero ttl disables
// caching.
func WithCache(ttl time.Duration) HandlerOption {
	return func(h *Handler) {
		if ttl <= 0 {
			h.cache = nil
			return
		}
		h.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithFilter sets the listing filter. Dot-prefixed names are always
// hidden.
func WithFilter(f content.Filter) HandlerOption {
	return func(h *Handler) {
		h.filter = f
	}
}

// NewHandler returns an uncached handler for provider.
func NewHandler(provider content.Provider, opts ...HandlerOption) *Handler {
	h := &Handler{provider: provider}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	action := q.Get("action")
	p := strings.Trim(strings.TrimSpace(q.Get("path")), "/")
	if strings.Contains("/"+p+"/", "/../") {
		writeError(w, http.StatusBadRequest, "Invalid path")
		return
	}

	switch action {
	case actionList:
		h.serve(w, r, action, p, h.list)
	case actionFile:
		if p == "" {
			writeError(w, http.StatusBadRequest, "Path parameter is required")
			return
		}
		h.serve(w, r, action, p, h.file)
	default:
		writeError(w, http.StatusBadRequest, "Invalid action")
	}
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, action, p string, fetch func(*http.Request, string) (interface{}, error)) {
	key := action + ":" + p
	if h.cache != nil {
		if body, ok := h.cache.Get(key); ok {
			RecordCacheLookup(action, true)
			writeBody(w, http.StatusOK, body.([]byte))
			return
		}
		RecordCacheLookup(action, false)
	}

	v, err := fetch(r, p)
	if err != nil {
		status, msg := errorStatus(err)
		RecordUpstreamError(content.KindOf(err).String())
		log.Error().Err(err).Str("action", action).Str("path", p).Msg("upstream request failed")
		writeError(w, status, msg)
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
	if h.cache != nil {
		h.cache.SetDefault(key, body)
	}
	writeBody(w, http.StatusOK, body)
}

func (h *Handler) list(r *http.Request, p string) (interface{}, error) {
	listing, err := h.provider.List(r.Context(), p)
	if err != nil {
		return nil, err
	}
	listing = h.filter.Apply(listing.Entries())

	resp := ListResponse{Folders: []Item{}, Files: []Item{}}
	for _, e := range listing.Folders {
		resp.Folders = append(resp.Folders, Item{Name: e.Name, Path: e.Path, Type: "folder"})
	}
	ext := h.filter.Extension
	if ext == "" {
		ext = content.DefaultExtension
	}
	for _, e := range listing.Files {
		size := e.Size
		resp.Files = append(resp.Files, Item{
			Name: strings.TrimSuffix(e.Name, ext),
			Path: e.Path,
			Type: "file",
			Size: &size,
		})
	}
	return resp, nil
}

func (h *Handler) file(r *http.Request, p string) (interface{}, error) {
	doc, err := h.provider.Read(r.Context(), p)
	if err != nil {
		return nil, err
	}
	name := doc.Name
	if name == "" {
		name = path.Base(doc.Path)
	}
	return FileResponse{Name: name, Path: doc.Path, Content: doc.Content, Size: doc.Size}, nil
}

// errorStatus maps a provider failure to the status and message sent
// to the browser.
func errorStatus(err error) (int, string) {
	var ce *content.Error
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError, err.Error()
	}
	msg := ce.Message
	if msg == "" {
		msg = "Failed to fetch from source"
	}
	switch {
	case ce.Auth || ce.RateLimited:
		return http.StatusForbidden, msg
	case ce.Kind == content.KindRemote && ce.Status == http.StatusNotFound:
		return http.StatusNotFound, msg
	case ce.Kind == content.KindRemote:
		return http.StatusBadRequest, msg
	default:
		return http.StatusInternalServerError, msg
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(ErrorResponse{Error: true, Message: msg})
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
