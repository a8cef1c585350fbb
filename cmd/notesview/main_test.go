package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	file := func(path, body string) string {
		return fmt.Sprintf(`{"name": %q, "path": %q, "type": "file", "size": %d, "encoding": "base64", "content": %q}`,
			filepath.Base(path), path, len(body), base64.StdEncoding.EncodeToString([]byte(body)))
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/notes/contents", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "docs", "path": "docs", "type": "dir"},
			{"name": "index.md", "path": "index.md", "type": "file", "size": 10}
		]`)
	})
	mux.HandleFunc("/repos/owner/notes/contents/docs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name": "Guide.md", "path": "docs/Guide.md", "type": "file", "size": 10}]`)
	})
	mux.HandleFunc("/repos/owner/notes/contents/docs/Guide.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, file("docs/Guide.md", "# Guide\n\nBack to [[index]]."))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func run(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := fmt.Sprintf(`{"github": {"repo": "owner/notes", "api_url": %q}}`, apiURL)
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", path}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTreeCmd(t *testing.T) {
	ts := fakeGitHub(t)

	out, err := run(t, ts.URL, "tree")
	require.NoError(t, err)
	assert.Equal(t, "+ 📁 docs\n  📄 index\n", out)

	out, err = run(t, ts.URL, "tree", "docs")
	require.NoError(t, err)
	assert.Equal(t, "- 📁 docs\n    📄 Guide\n  📄 index\n", out)
}

func TestShowCmd(t *testing.T) {
	ts := fakeGitHub(t)

	out, err := run(t, ts.URL, "show", "docs/Guide")
	require.NoError(t, err)
	assert.Contains(t, out, "<!-- Home / docs / Guide -->")
	assert.Contains(t, out, `<h1 class="content-title">Guide</h1>`)
	assert.Contains(t, out, `data-path="index.md"`)

	out, err = run(t, ts.URL, "show", "--links", "docs/Guide.md")
	require.NoError(t, err)
	assert.Equal(t, "index.md\n", out)

	out, err = run(t, ts.URL, "show", "--raw", "Guide")
	require.Error(t, err)
	assert.Contains(t, out, "not found")
}

func TestCheckCmd(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	ts := fakeGitHub(t)

	out, err := run(t, ts.URL, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Source:  github.com/owner/notes")
	assert.Contains(t, out, "Token:   no")
	assert.Contains(t, out, "Found 2 items")

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
	}))
	defer down.Close()

	out, err = run(t, down.URL, "check")
	require.Error(t, err)
	assert.Contains(t, out, "✗ Failed to connect")
	assert.Contains(t, out, "status:  403")
	assert.Contains(t, out, "rate limit exceeded")
}
