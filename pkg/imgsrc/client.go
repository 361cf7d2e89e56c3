package imgsrc

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// DefaultRootHost is the API host used for login and album management.
	DefaultRootHost = "imgsrc.ru"

	// DefaultMaxAttempts is the number of tries per uploaded file.
	DefaultMaxAttempts = 3

	pathInfo       = "cli/info.php"
	pathCategories = "cli/cats.php"
	pathUpload     = "cli/post.php"
)

// Config holds client configuration.
type Config struct {
	Username    string         // Required: account login
	PasswordMD5 string         // Required: hex MD5 of the password (see HashPassword)
	RootHost    string         // Optional: API host (defaults to imgsrc.ru)
	Scheme      string         // Optional: "http" (default) or "https"
	HTTPClient  *http.Client   // Optional: HTTP client (defaults to http.DefaultClient)
	Dial        Dialer         // Optional: transport factory (overrides Scheme/HTTPClient, used for testing)
	MaxAttempts int            // Optional: upload attempts per file (defaults to 3)
	RetryDelay  time.Duration  // Optional: pause between upload attempts (defaults to none)
	Encoding    Encoding       // Optional: multipart payload encoding (defaults to binary)
	Observer    UploadObserver // Optional: notified about upload progress
	Logger      Logger         // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client holds one authenticated session.
//
// A Client is not safe for concurrent use: login, album creation and uploads
// run on a single thread of control and mutate the session in place.
type Client struct {
	creds       Credentials
	rootHost    string
	dial        Dialer
	maxAttempts int
	retryDelay  time.Duration
	encoding    Encoding
	observer    UploadObserver
	logger      Logger

	root        Transport
	storage     Transport
	storageHost string
	albums      []*Album
}

// NewClient creates a new client. No request is issued until Login.
//
// Returns an error if required configuration (Username, PasswordMD5) is missing.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("imgsrc: Username is required")
	}
	if cfg.PasswordMD5 == "" {
		return nil, fmt.Errorf("imgsrc: PasswordMD5 is required")
	}

	rootHost := cfg.RootHost
	if rootHost == "" {
		rootHost = DefaultRootHost
	}

	dial := cfg.Dial
	if dial == nil {
		dial = HTTPDialer(HTTPTransportConfig{
			Scheme:     cfg.Scheme,
			HTTPClient: cfg.HTTPClient,
			UserAgent:  "imgsrc/1.0",
		})
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	c := &Client{
		creds: Credentials{
			Username:    cfg.Username,
			PasswordMD5: cfg.PasswordMD5,
		},
		rootHost:    rootHost,
		dial:        dial,
		maxAttempts: maxAttempts,
		retryDelay:  cfg.RetryDelay,
		encoding:    cfg.Encoding,
		observer:    cfg.Observer,
		logger:      cfg.Logger,
	}
	c.root = dial(rootHost)

	return c, nil
}

// Username returns the account login.
func (c *Client) Username() string {
	return c.creds.Username
}

// RootHost returns the API host.
func (c *Client) RootHost() string {
	return c.rootHost
}

// StorageHost returns the bound storage host, or "" before login.
func (c *Client) StorageHost() string {
	return c.storageHost
}

// LoggedIn reports whether a storage host is bound.
func (c *Client) LoggedIn() bool {
	return c.storageHost != ""
}

// Albums returns the current album list.
//
// The slice is a copy; the *Album values are shared with the session and stay
// valid until the next Login or CreateAlbum replaces the list.
func (c *Client) Albums() []*Album {
	out := make([]*Album, len(c.albums))
	copy(out, c.albums)
	return out
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
