package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/bttk/obsidian-viewer/pkg/content"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com/"

const userAgent = "obsidian-viewer"

// Client is the entry point for the GitHub repository contents API.
type Client struct {
	baseURL *url.URL
	repo    string
	token   string
	http    *http.Client
	optErr  error

	Contents *ContentsService
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// NewClient creates a client for repo ("owner/name"). An empty token
// means unauthenticated access.
func NewClient(repo, token string, opts ...Option) (*Client, error) {
	if repo == "" || !strings.Contains(repo, "/") {
		return nil, fmt.Errorf("invalid repository %q: expected owner/name", repo)
	}
	u, err := url.Parse(DefaultBaseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		repo:    strings.Trim(repo, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.optErr != nil {
		return nil, c.optErr
	}

	if c.token != "" {
		c.http = authorizedClient(c.http, c.token)
	}

	c.Contents = &ContentsService{client: c}
	return c, nil
}

// WithHTTPClient allows providing a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			c.optErr = fmt.Errorf("invalid base URL: %w", err)
			return
		}
		c.baseURL = u
	}
}

// authorizedClient wraps base so every request carries the token.
func authorizedClient(base *http.Client, token string) *http.Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "token"})
	hc := oauth2.NewClient(ctx, src)
	hc.Timeout = base.Timeout
	return hc
}

// Repo returns the "owner/name" identifier the client reads from.
func (c *Client) Repo() string {
	return c.repo
}

func (c *Client) contentsURL(path string) string {
	p := "repos/" + c.repo + "/contents"
	if path != "" {
		p += "/" + strings.Trim(path, "/")
	}
	return c.baseURL.ResolveReference(&url.URL{Path: p}).String()
}

func (c *Client) do(req *http.Request, op, path string, v interface{}) error {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return content.NetworkError(op, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return content.NetworkError(op, path, err)
	}

	if resp.StatusCode >= 400 {
		return remoteError(op, path, resp, body)
	}

	// GitHub sometimes answers 200 with an error object.
	if msg, ok := embeddedError(body); ok {
		return content.RemoteError(op, path, resp.StatusCode, "GitHub API: "+msg)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return content.DecodeError(op, path, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func embeddedError(body []byte) (string, bool) {
	var probe struct {
		Message *string `json:"message"`
		Name    *string `json:"name"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", false
	}
	if probe.Message == nil || probe.Name != nil {
		return "", false
	}
	return *probe.Message, true
}

func remoteError(op, path string, resp *http.Response, body []byte) error {
	msg := fmt.Sprintf("status code %d", resp.StatusCode)
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		msg = "GitHub API: " + errResp.Message
	}
	ce := content.RemoteError(op, path, resp.StatusCode, msg)
	if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
		ce.RateLimited = true
	}
	return ce
}
