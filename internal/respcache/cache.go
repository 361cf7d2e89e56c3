// Package respcache keeps copies of API responses on disk for debugging.
//
// The cache wraps an imgsrc.Transport. Every successful GET is written to
// the cache directory; in replay mode GETs are answered from existing files
// without touching the network. Uploads are never cached.
package respcache

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
)

// Options configures the cache.
type Options struct {
	Dir    string // Cache directory (created on demand)
	Replay bool   // Serve GETs from cached files when present
	Logger zerolog.Logger
}

// Transport is an imgsrc.Transport that records GET responses.
type Transport struct {
	next   imgsrc.Transport
	dir    string
	replay bool
	logger zerolog.Logger
}

// New wraps next with a response cache.
func New(next imgsrc.Transport, opts Options) *Transport {
	return &Transport{
		next:   next,
		dir:    opts.Dir,
		replay: opts.Replay,
		logger: opts.Logger.With().Str("component", "respcache").Logger(),
	}
}

// Wrap returns a Dialer whose transports are cached.
func Wrap(dial imgsrc.Dialer, opts Options) imgsrc.Dialer {
	return func(host string) imgsrc.Transport {
		return New(dial(host), opts)
	}
}

// Host returns the wrapped transport's host.
func (t *Transport) Host() string {
	return t.next.Host()
}

// Get serves from the cache in replay mode, otherwise fetches and records.
func (t *Transport) Get(ctx context.Context, path string, params imgsrc.Params) (*imgsrc.Response, error) {
	file := filepath.Join(t.dir, FileName(path, params))

	if t.replay {
		if data, err := os.ReadFile(file); err == nil {
			t.logger.Info().Str("file", file).Msg("Using cached response")
			return &imgsrc.Response{StatusCode: 200, Body: data}, nil
		}
	}

	resp, err := t.next.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		t.store(file, resp.Body)
	}

	return resp, nil
}

// Post is passed through uncached.
func (t *Transport) Post(ctx context.Context, path string, params imgsrc.Params, body []byte, contentType string) (*imgsrc.Response, error) {
	return t.next.Post(ctx, path, params, body, contentType)
}

// store writes body to file. Failures are logged and otherwise ignored.
func (t *Transport) store(file string, body []byte) {
	if err := os.MkdirAll(t.dir, 0755); err != nil {
		t.logger.Debug().Err(err).Msg("Failed to create cache directory")
		return
	}
	if err := os.WriteFile(file, body, 0644); err != nil {
		t.logger.Debug().Err(err).Str("file", file).Msg("Failed to write cached response")
	}
}

// FileName derives the cache file name for a request.
//
// The path's slashes become dashes and every parameter is appended as
// _key-value. Parameters whose key contains "passw" are left out so password
// digests never reach the disk. The album name sent with "create" is
// windows-1251 on the wire and is converted back to UTF-8.
func FileName(path string, params imgsrc.Params) string {
	var b strings.Builder
	b.WriteString(sanitize(strings.TrimPrefix(path, "/")))
	for _, p := range params {
		if strings.Contains(p.Key, "passw") {
			continue
		}
		value := p.Value
		if p.Key == "create" {
			value = fromWindows1251(value)
		}
		b.WriteString("_" + sanitize(p.Key) + "-" + sanitize(value))
	}
	b.WriteString(".xml")
	return b.String()
}

// fromWindows1251 decodes s, leaving it unchanged if decoding fails.
func fromWindows1251(s string) string {
	decoded, err := charmap.Windows1251.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return decoded
}

func sanitize(s string) string {
	return strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(s)
}
