package obsidian

import "fmt"

// Note represents the JSON structure of a note returned by the API.
// It corresponds to the 'NoteJson' schema in the OpenAPI spec.
type Note struct {
	Content     string                 `json:"content"`
	Frontmatter map[string]interface{} `json:"frontmatter"`
	Path        string                 `json:"path"`
	Stat        FileStat               `json:"stat"`
	Tags        []string               `json:"tags"`
}

// FileStat contains file system metadata.
type FileStat struct {
	Ctime float64 `json:"ctime"`
	Mtime float64 `json:"mtime"`
	Size  float64 `json:"size"`
}

// ErrorResponse represents an error returned by the API.
type ErrorResponse struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`

	status int
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return e.Message
}

// StatusCode is the HTTP status the error was returned with.
func (e *ErrorResponse) StatusCode() int {
	if e.status != 0 {
		return e.status
	}
	// errorCode is the status followed by two digits, e.g. 40400.
	return e.ErrorCode / 100
}

// DecodeError is returned when a JSON body cannot be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
