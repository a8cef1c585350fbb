package obsidian

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

func TestClient_Vault_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		auth := r.Header.Get("Authorization")
		assert.Equal(t, "Bearer test-token", auth)
		fmt.Fprint(w, `{"files": ["a.md", "b.md"]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	files, err := client.Vault.List(context.Background(), "")
	require.NoError(t, err)

	expected := []string{"a.md", "b.md"}
	assert.Equal(t, expected, files)
}

func TestClient_Vault_ListSubdirectory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/projects/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vault/projects/", r.URL.Path)
		fmt.Fprint(w, `{"files": ["plan.md"]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	files, err := client.Vault.List(context.Background(), "projects")
	require.NoError(t, err)
	assert.Equal(t, []string{"plan.md"}, files)
}

func TestClient_Vault_Get(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/test.md", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		fmt.Fprint(w, "file content")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	content, err := client.Vault.Get(context.Background(), "test.md")
	require.NoError(t, err)
	assert.Equal(t, "file content", content)
}

func TestClient_Vault_GetNote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/test.md", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "application/vnd.olrapi.note+json", r.Header.Get("Accept"))
		fmt.Fprint(w, `{"content": "note content", "stat": {"size": 200}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	note, err := client.Vault.GetNote(context.Background(), "test.md")
	require.NoError(t, err)
	assert.Equal(t, "note content", note.Content)
	assert.Equal(t, float64(200), note.Stat.Size)
}

func TestClient_Provider_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/notes/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"files": ["zeta.md", ".trash/", "Alpha.md", "attachments/", "pic.png"]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	listing, err := client.List(context.Background(), "notes")
	require.NoError(t, err)

	assert.Equal(t, []content.Entry{{Name: "attachments", Path: "notes/attachments", Type: content.TypeFolder}}, listing.Folders)
	require.Len(t, listing.Files, 2)
	assert.Equal(t, "notes/Alpha.md", listing.Files[0].Path)
	assert.Equal(t, "notes/zeta.md", listing.Files[1].Path)
}

func TestClient_Provider_Read(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/notes/a.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content": "# A", "path": "notes/a.md", "stat": {"size": 3}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)

	doc, err := client.Read(context.Background(), "notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, &content.Document{Name: "a.md", Path: "notes/a.md", Content: "# A", Size: 3}, doc)
}

func TestClient_Provider_Errors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/missing.md", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errorCode": 40400, "message": "File not found"}`)
	})
	mux.HandleFunc("/vault/locked.md", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `nope`)
	})
	mux.HandleFunc("/vault/broken.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{broken`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := NewClient(server.URL, "test-token")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = client.Read(ctx, "missing.md")
	var ce *content.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, content.KindRemote, ce.Kind)
	assert.Equal(t, http.StatusNotFound, ce.Status)
	assert.Equal(t, "File not found", ce.Message)

	_, err = client.Read(ctx, "locked.md")
	assert.True(t, content.IsAuth(err))

	_, err = client.Read(ctx, "broken.md")
	assert.Equal(t, content.KindDecode, content.KindOf(err))
}

func TestWithCertificate(t *testing.T) {
	_, err := NewClient("https://127.0.0.1:27124", "k", WithCertificate(filepath.Join(t.TempDir(), "missing.crt")))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.crt")
	require.NoError(t, os.WriteFile(bad, []byte("not a cert"), 0o600))
	_, err = NewClient("https://127.0.0.1:27124", "k", WithCertificate(bad))
	require.Error(t, err)

	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"files": []}`)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "k", WithInsecureTLS())
	require.NoError(t, err)
	_, err = client.Vault.List(context.Background(), "")
	require.NoError(t, err)
}
