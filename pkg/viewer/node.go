package viewer

import (
	"fmt"
	"io"
	"strings"
)

// Kind tells folders from files.
type Kind int

const (
	KindFolder Kind = iota
	KindFile
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "folder":
		*k = KindFolder
	case "file":
		*k = KindFile
	default:
		return fmt.Errorf("unknown kind %q", text)
	}
	return nil
}

// State is the load state of a folder.
//
//	Unexpanded -> Loading -> Expanded
//	                      -> Failed -> Loading (manual retry)
type State int

const (
	StateUnexpanded State = iota
	StateLoading
	StateExpanded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateExpanded:
		return "expanded"
	case StateFailed:
		return "failed"
	default:
		return "unexpanded"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, candidate := range []State{StateUnexpanded, StateLoading, StateExpanded, StateFailed} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// node is the controller-owned tree element. Guarded by Controller.mu.
type node struct {
	name     string
	path     string
	kind     Kind
	size     int64
	children []*node
	state    State
	open     bool
	err      error
	loading  *load
}

// load is one in-flight listing. err is set before done is closed.
type load struct {
	done chan struct{}
	err  error
}

// Node is an immutable snapshot of a tree element handed to callers.
type Node struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Kind   Kind   `json:"kind"`
	Size   int64  `json:"size,omitempty"`
	State  State  `json:"state"`
	Open   bool   `json:"open"`
	Active bool   `json:"active,omitempty"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	// Error is the last listing failure of a folder.
	Error    string `json:"error,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Expanded reports whether the folder's children have been loaded.
func (n Node) Expanded() bool {
	return n.State == StateExpanded
}

// Find returns the descendant (or n itself) with the given path.
func (n Node) Find(path string) (Node, bool) {
	if n.Path == path {
		return n, true
	}
	for _, child := range n.Children {
		if found, ok := child.Find(path); ok {
			return found, true
		}
	}
	return Node{}, false
}

// WriteTree prints the visible part of the tree below root, one node per
// line, indented by depth.
func WriteTree(w io.Writer, root Node) error {
	return writeTree(w, root.Children, 0)
}

func writeTree(w io.Writer, nodes []Node, depth int) error {
	for _, n := range nodes {
		marker := " "
		switch {
		case n.Active:
			marker = ">"
		case n.Kind == KindFolder && n.Open:
			marker = "-"
		case n.Kind == KindFolder:
			marker = "+"
		}
		line := fmt.Sprintf("%s%s %s %s", strings.Repeat("  ", depth), marker, n.Icon, n.Label)
		switch {
		case n.State == StateLoading:
			line += " (loading)"
		case n.State == StateFailed:
			line += " (error loading contents)"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if n.Kind == KindFolder && n.Open {
			if err := writeTree(w, n.Children, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
