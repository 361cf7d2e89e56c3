package imgsrc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters.
type Params []Param

// Add appends a parameter and returns the extended list.
func (p Params) Add(key, value string) Params {
	return append(p, Param{Key: key, Value: value})
}

// Encode joins the parameters as key=value pairs separated by '&'.
//
// Values are sent as-is; the service expects raw windows-1251 bytes for album
// names. Only bytes that would corrupt the HTTP request line (space, '#' and
// control characters) are percent-encoded.
func (p Params) Encode() string {
	var b strings.Builder
	for i, param := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		writeRaw(&b, param.Key)
		b.WriteByte('=')
		writeRaw(&b, param.Value)
	}
	return b.String()
}

func writeRaw(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c == '#' || c == 0x7f {
			fmt.Fprintf(b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
}

// Response is a raw HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport issues requests against a single host.
//
// The core never interprets the body; it hands it to Validate.
type Transport interface {
	// Host returns the host this transport is bound to.
	Host() string

	// Get issues GET /path?params.
	Get(ctx context.Context, path string, params Params) (*Response, error)

	// Post issues POST /path?params with the given body.
	Post(ctx context.Context, path string, params Params, body []byte, contentType string) (*Response, error)
}

// Dialer creates a transport bound to host. It must not open connections
// eagerly; binding is cheap and happens on every storage-host change.
type Dialer func(host string) Transport

// HTTPTransportConfig configures the default HTTP transport.
type HTTPTransportConfig struct {
	Scheme     string       // Optional: "http" (default) or "https"
	HTTPClient *http.Client // Optional: defaults to http.DefaultClient
	UserAgent  string       // Optional: User-Agent header
}

// HTTPTransport is the default Transport backed by net/http.
type HTTPTransport struct {
	host       string
	scheme     string
	httpClient *http.Client
	userAgent  string
}

// NewHTTPTransport binds an HTTP transport to host.
func NewHTTPTransport(host string, cfg HTTPTransportConfig) *HTTPTransport {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "http"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPTransport{
		host:       host,
		scheme:     scheme,
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
	}
}

// HTTPDialer returns a Dialer producing HTTP transports with cfg.
func HTTPDialer(cfg HTTPTransportConfig) Dialer {
	return func(host string) Transport {
		return NewHTTPTransport(host, cfg)
	}
}

// Host returns the bound host.
func (t *HTTPTransport) Host() string {
	return t.host
}

// Get issues a GET request.
func (t *HTTPTransport) Get(ctx context.Context, path string, params Params) (*Response, error) {
	return t.do(ctx, http.MethodGet, path, params, nil, "")
}

// Post issues a POST request.
func (t *HTTPTransport) Post(ctx context.Context, path string, params Params, body []byte, contentType string) (*Response, error) {
	return t.do(ctx, http.MethodPost, path, params, body, contentType)
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, params Params, body []byte, contentType string) (*Response, error) {
	target := t.url(path, params)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

func (t *HTTPTransport) url(path string, params Params) string {
	target := t.scheme + "://" + t.host + "/" + strings.TrimPrefix(path, "/")
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	return target
}
