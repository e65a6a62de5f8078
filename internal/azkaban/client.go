package azkaban

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"resty.dev/v3"

	"github.com/azkctl/azkctl/internal/ctxlog"
)

const (
	managerPath  = "/manager"
	executorPath = "/executor"

	defaultTimeout = 30 * time.Second
)

// Client issues the raw HTTP calls against a single server. It knows
// nothing about credentials; Session layers those on top.
type Client struct {
	base string
	http *resty.Client
}

// ClientOption mutates a Client during construction.
type ClientOption func(*Client)

// WithInsecureTLS disables server certificate verification, for servers
// running with self-signed certificates.
func WithInsecureTLS() ClientOption {
	return func(c *Client) {
		c.http.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// NewClient validates rawURL and returns a client for it. Trailing slashes
// are stripped so endpoint paths concatenate cleanly.
func NewClient(rawURL string, opts ...ClientOption) (*Client, error) {
	base := strings.TrimRight(rawURL, "/")
	parsed, err := url.Parse(base)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, Errorf("invalid server url %q", rawURL)
	}

	client := &Client{
		base: base,
		http: resty.New().SetTimeout(defaultTimeout),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// BaseURL returns the validated server URL.
func (c *Client) BaseURL() string {
	return c.base
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// postForm sends a form-encoded POST to path and decodes the JSON response
// into out. A server-reported error field becomes a domain error.
func (c *Client) postForm(ctx context.Context, path string, form map[string]string, out failer) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(c.base + path)
	if err != nil {
		return Errorf("unable to connect to server at %s: %v", c.base, err)
	}
	return c.decode(ctx, path, res.Bytes(), out)
}

// postMultipart sends a multipart POST with one attached file plus regular
// fields, and decodes the JSON response into out.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, fileField, filePath string, out failer) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(fields).
		SetFile(fileField, filePath).
		Post(c.base + path)
	if err != nil {
		return Errorf("unable to connect to server at %s: %v", c.base, err)
	}
	return c.decode(ctx, path, res.Bytes(), out)
}

// postRaw sends a form-encoded POST and returns the raw response body. Used
// by the session probe, whose contract is body-presence rather than JSON.
func (c *Client) postRaw(ctx context.Context, path string, form map[string]string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		Post(c.base + path)
	if err != nil {
		return nil, Errorf("unable to connect to server at %s: %v", c.base, err)
	}
	return res.Bytes(), nil
}

func (c *Client) decode(ctx context.Context, path string, body []byte, out failer) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("server response", "path", path, "bytes", len(body))

	if err := json.Unmarshal(body, out); err != nil {
		return Errorf("unexpected response from server at %s: %v", c.base, err)
	}
	return out.apiErr()
}
