package uploader

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jfmyers9/imgsrc/internal/config"
	"github.com/jfmyers9/imgsrc/internal/imageprep"
	"github.com/jfmyers9/imgsrc/internal/journal"
	"github.com/jfmyers9/imgsrc/internal/respcache"
	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
	"github.com/rs/zerolog"
)

// JournalFile is the journal database name inside the data directory
const JournalFile = "uploads.db"

// Options holds optional collaborators
type Options struct {
	// Journal receives upload progress when set
	Journal *journal.Journal

	// HTTPClient overrides the client built from the configured timeout
	HTTPClient *http.Client
}

// Uploader wraps an imgsrc session with the local journal and image preparation
type Uploader struct {
	client  *imgsrc.Client
	prep    *imageprep.Preparer
	sources *sourceObserver
	logger  zerolog.Logger
}

// UploadRequest describes one upload command
type UploadRequest struct {
	Album   string
	Paths   []string            // Files or directories
	Create  bool                // Create the album when it is missing
	Options imgsrc.AlbumOptions // Used when creating
}

// Result is the outcome of an upload
type Result struct {
	Album  *imgsrc.Album
	Files  []string
	Photos []imgsrc.Photo // Photos created by this upload
}

// zerologAdapter adapts zerolog to the imgsrc.Logger interface
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a zerologAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Debug().Msgf(format, args...)
}

// OpenJournal opens the journal in the configured data directory
func OpenJournal(cfg *config.Config) (*journal.Journal, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	j, err := journal.NewJournal(filepath.Join(cfg.DataDir, JournalFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return j, nil
}

// ClientConfig builds the imgsrc client configuration from application config
func ClientConfig(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) imgsrc.Config {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
	}

	dial := imgsrc.HTTPDialer(imgsrc.HTTPTransportConfig{
		Scheme:     cfg.Scheme,
		HTTPClient: httpClient,
		UserAgent:  "imgsrc/1.0",
	})
	if cfg.CacheDir != "" {
		dial = respcache.Wrap(dial, respcache.Options{
			Dir:    cfg.CacheDir,
			Replay: cfg.CacheReplay,
			Logger: logger,
		})
	}

	encoding := imgsrc.EncodingBinary
	if cfg.Upload.Base64 {
		encoding = imgsrc.EncodingBase64
	}

	clientCfg := imgsrc.Config{
		Username:    cfg.Username,
		PasswordMD5: cfg.PasswordMD5,
		RootHost:    cfg.RootHost,
		Dial:        dial,
		MaxAttempts: cfg.Upload.MaxAttempts,
		RetryDelay:  time.Duration(cfg.Upload.RetryDelay) * time.Second,
		Encoding:    encoding,
		Logger:      zerologAdapter{logger: logger.With().Str("component", "imgsrc").Logger()},
	}
	if opts.Journal != nil {
		clientCfg.Observer = journal.NewObserver(ctx, opts.Journal, logger)
	}

	return clientCfg
}

// New creates an Uploader. No request is issued until Login.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*Uploader, error) {
	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("imgsrc credentials not configured. Run 'imgsrc auth' first")
	}

	clientCfg := ClientConfig(ctx, cfg, logger, opts)

	// Observers see the user's paths, not resized scratch copies
	sources := &sourceObserver{next: clientCfg.Observer}
	if clientCfg.Observer != nil {
		clientCfg.Observer = sources
	}

	client, err := imgsrc.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create imgsrc client: %w", err)
	}

	return &Uploader{
		client: client,
		prep: imageprep.New(imageprep.Options{
			MaxDimension: uint(max(cfg.Upload.MaxDimension, 0)),
			Logger:       logger,
		}),
		sources: sources,
		logger:  logger.With().Str("component", "uploader").Logger(),
	}, nil
}

// Client returns the underlying session
func (u *Uploader) Client() *imgsrc.Client {
	return u.client
}

// Login authenticates and loads the album list
func (u *Uploader) Login(ctx context.Context) error {
	if _, err := u.client.Login(ctx); err != nil {
		return fmt.Errorf("failed to login: %w", err)
	}

	u.logger.Debug().
		Str("storage", u.client.StorageHost()).
		Int("albums", len(u.client.Albums())).
		Msg("Logged in")
	return nil
}

// Albums returns the session's albums
func (u *Uploader) Albums() []*imgsrc.Album {
	return u.client.Albums()
}

// CreateAlbum creates a new album
func (u *Uploader) CreateAlbum(ctx context.Context, name string, opts imgsrc.AlbumOptions) (*imgsrc.Album, error) {
	if err := u.client.CreateAlbum(ctx, name, opts); err != nil {
		return nil, fmt.Errorf("failed to create album %q: %w", name, err)
	}

	album, err := u.client.GetAlbum(name)
	if err != nil {
		return nil, fmt.Errorf("created album %q missing from album list: %w", name, err)
	}

	u.logger.Info().Str("album", album.Name).Str("id", album.ID).Msg("Album created")
	return album, nil
}

// Upload expands, prepares and uploads the requested files
func (u *Uploader) Upload(ctx context.Context, req UploadRequest) (*Result, error) {
	files, err := ExpandPaths(req.Paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no images to upload")
	}

	var album *imgsrc.Album
	if req.Create {
		album, err = u.client.GetOrCreateAlbum(ctx, req.Album, req.Options)
	} else {
		album, err = u.client.GetAlbum(req.Album)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find album %q: %w", req.Album, err)
	}

	prepared, cleanup, err := u.prep.Prepare(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare images: %w", err)
	}
	defer cleanup()

	u.sources.track(prepared, files)
	defer u.sources.reset()

	u.logger.Info().
		Str("album", album.Name).
		Int("files", len(prepared)).
		Msg("Uploading")

	before := len(album.Photos)
	uploadErr := u.client.Upload(ctx, album.Name, prepared)

	result := &Result{
		Album:  album,
		Files:  files,
		Photos: append([]imgsrc.Photo(nil), album.Photos[before:]...),
	}

	if uploadErr != nil {
		u.logger.Error().Err(uploadErr).Str("album", album.Name).Msg("Upload failed")
		return result, fmt.Errorf("failed to upload to %q: %w", album.Name, uploadErr)
	}

	return result, nil
}

// Categories fetches the category directory
func (u *Uploader) Categories(ctx context.Context) (map[string]imgsrc.Category, error) {
	cats, err := imgsrc.NewCategoryDirectory(u.client).Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return cats, nil
}
