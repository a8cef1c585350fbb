package obsidian

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client reads a vault through the Obsidian Local REST API.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	optErr  error

	Vault *VaultService
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// NewClient creates a new Obsidian API client.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.optErr != nil {
		return nil, c.optErr
	}

	c.Vault = &VaultService{client: c}
	return c, nil
}

// WithHTTPClient allows providing a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithInsecureTLS disables TLS certificate verification.
// The Local REST API serves a self-signed certificate by default.
func WithInsecureTLS() Option {
	return func(c *Client) {
		tlsConfig(c).InsecureSkipVerify = true
	}
}

// WithCertificate trusts the PEM certificate at path, usually the one
// exported from the plugin settings.
func WithCertificate(path string) Option {
	return func(c *Client) {
		pem, err := os.ReadFile(path)
		if err != nil {
			c.optErr = fmt.Errorf("read certificate: %w", err)
			return
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			c.optErr = fmt.Errorf("no certificates found in %s", path)
			return
		}
		tlsConfig(c).RootCAs = pool
	}
}

func tlsConfig(c *Client) *tls.Config {
	t, ok := c.http.Transport.(*http.Transport)
	if !ok || t == nil {
		t = &http.Transport{}
		c.http.Transport = t
	}
	if t.TLSClientConfig == nil {
		t.TLSClientConfig = &tls.Config{}
	}
	return t.TLSClientConfig
}

func (c *Client) do(req *http.Request, v interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if err := json.Unmarshal(bodyBytes, &errResp); err == nil && errResp.Message != "" {
			errResp.status = resp.StatusCode
			return &errResp
		}
		return &ErrorResponse{
			status:  resp.StatusCode,
			Message: fmt.Sprintf("API error: status code %d, body: %s", resp.StatusCode, string(bodyBytes)),
		}
	}

	if v != nil {
		// raw content
		if strPtr, ok := v.(*string); ok {
			bodyBytes, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			*strPtr = string(bodyBytes)
			return nil
		}

		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return &DecodeError{Err: err}
		}
	}
	return nil
}
