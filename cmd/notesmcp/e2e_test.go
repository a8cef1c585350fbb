package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Define minimal JSON-RPC types for the test
type jsonRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int         `json:"id"`
}

type jsonRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      int         `json:"id"`
}

// TestE2E_NotesMCP runs the compiled binary against a fake GitHub API.
func TestE2E_NotesMCP(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	// 1. Start Fake GitHub Server
	note := "# Welcome\n\nSee [[docs/Setup|setup]].\n"
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/notes/contents", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "docs", "path": "docs", "type": "dir"},
			{"name": "Welcome.md", "path": "Welcome.md", "type": "file", "size": 40}
		]`)
	})
	mux.HandleFunc("/repos/owner/notes/contents/Welcome.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"name": "Welcome.md", "path": "Welcome.md", "type": "file", "size": %d, "encoding": "base64", "content": %q}`,
			len(note), base64.StdEncoding.EncodeToString([]byte(note)))
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	// 2. Create Config
	configDir := t.TempDir()
	configPath := filepath.Join(configDir, "config.json")

	configContent := map[string]interface{}{
		"github": map[string]string{
			"repo":    "owner/notes",
			"api_url": ts.URL,
		},
		"mcp": map[string]interface{}{
			"tools": map[string]bool{
				"notes_navigate": true,
				"notes_tree":     false,
			},
		},
	}

	configBytes, err := json.Marshal(configContent)
	require.NoError(t, err)
	err = os.WriteFile(configPath, configBytes, 0644)
	require.NoError(t, err)

	// 3. Build and run notesmcp
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	binPath := filepath.Join(configDir, "notesmcp")
	buildCmd := exec.Command("go", "build", "-o", binPath, ".")
	out, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "Build failed: %s", string(out))

	cmd := exec.CommandContext(ctx, binPath, "-config", configPath)
	cmd.Env = append(os.Environ(), "GITHUB_TOKEN=")

	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)

	cmd.Stderr = os.Stderr // Pass through logs

	err = cmd.Start()
	require.NoError(t, err)
	defer func() {
		_ = cmd.Process.Signal(os.Interrupt)
		_ = cmd.Wait()
	}()

	encoder := json.NewEncoder(stdin)
	decoder := json.NewDecoder(stdout)

	// 4. Send Initialize
	initReq := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  "initialize",
		Params: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"clientInfo": map[string]interface{}{
				"name":    "test-client",
				"version": "1.0",
			},
		},
		ID: 1,
	}
	require.NoError(t, encoder.Encode(initReq))

	var initResp jsonRPCResponse
	require.NoError(t, decoder.Decode(&initResp))
	assert.Nil(t, initResp.Error)

	// 5. Call notes_navigate
	callReq := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  "tools/call",
		Params: map[string]interface{}{
			"name":      "notes_navigate",
			"arguments": map[string]interface{}{"target": "Welcome.md"},
		},
		ID: 2,
	}
	require.NoError(t, encoder.Encode(callReq))

	var callResp jsonRPCResponse
	require.NoError(t, decoder.Decode(&callResp))
	require.Nil(t, callResp.Error, "Tool call returned error")

	resultMap, ok := callResp.Result.(map[string]interface{})
	require.True(t, ok, "Result should be a map")
	assert.NotEqual(t, true, resultMap["isError"])

	content, ok := resultMap["content"].([]interface{})
	require.True(t, ok, "Content should be a list")
	require.NotEmpty(t, content)

	textObj, ok := content[0].(map[string]interface{})
	require.True(t, ok, "Item should be a map")
	assert.Equal(t, "text", textObj["type"])

	resultJSONStr, ok := textObj["text"].(string)
	require.True(t, ok, "Text should be a string")

	var page map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultJSONStr), &page), "Failed to parse result JSON: %s", resultJSONStr)

	assert.Equal(t, "Welcome", page["title"])
	assert.Equal(t, "Welcome.md", page["active_path"])
	assert.Equal(t, []interface{}{"docs/Setup.md"}, page["links"])
}
