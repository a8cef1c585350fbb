package github

// Entry is one item of a contents API directory listing, or the
// metadata of a single file.
type Entry struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Type     string `json:"type"` // "dir", "file", "symlink" or "submodule"
	Size     int64  `json:"size"`
	SHA      string `json:"sha"`
	Content  string `json:"content,omitempty"`
	Encoding string `json:"encoding,omitempty"`
}

// ErrorResponse represents an error returned by the API.
type ErrorResponse struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return e.Message
}
