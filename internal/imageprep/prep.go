// Package imageprep shrinks oversized JPEGs before upload.
package imageprep

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	defaultQuality = 90
)

// Options configures a Preparer.
type Options struct {
	MaxDimension uint // Longest edge in pixels, 0 disables resizing
	Workers      int  // Parallel resize workers (defaults to 4)
	Quality      int  // JPEG quality of resized files (defaults to 90)
	Logger       zerolog.Logger
}

// Preparer resizes images into a scratch directory.
type Preparer struct {
	maxDimension uint
	workers      int
	quality      int
	logger       zerolog.Logger
}

// New creates a Preparer.
func New(opts Options) *Preparer {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	return &Preparer{
		maxDimension: opts.MaxDimension,
		workers:      workers,
		quality:      quality,
		logger:       opts.Logger.With().Str("component", "imageprep").Logger(),
	}
}

// Prepare returns the paths to upload, in the order of files.
//
// JPEGs whose longest edge exceeds the maximum dimension are replaced by a
// resized copy carrying the same base name, since the base name becomes the
// uploaded filename. Everything else is passed through. The returned cleanup
// removes the scratch directory and is never nil.
func (p *Preparer) Prepare(ctx context.Context, files []string) ([]string, func(), error) {
	noop := func() {}
	if p.maxDimension == 0 || len(files) == 0 {
		return files, noop, nil
	}

	scratch, err := os.MkdirTemp("", "imgsrc-prep-*")
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(scratch) }

	out := make([]string, len(files))
	pool := pond.NewPool(p.workers, pond.WithContext(ctx))

	tasks := make([]pond.Task, 0, len(files))
	for i, file := range files {
		tasks = append(tasks, pool.SubmitErr(func() error {
			prepared, err := p.prepareOne(file, filepath.Join(scratch, strconv.Itoa(i)))
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			out[i] = prepared
			return nil
		}))
	}

	var firstErr error
	for _, task := range tasks {
		if err := task.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	pool.StopAndWait()

	if firstErr != nil {
		cleanup()
		return nil, noop, firstErr
	}

	return out, cleanup, nil
}

// prepareOne resizes file into dir when needed and returns the path to upload.
func (p *Preparer) prepareOne(file, dir string) (string, error) {
	if !IsJPEG(file) {
		return file, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		// Not a decodable JPEG; let the server decide.
		p.logger.Debug().Err(err).Str("file", file).Msg("Skipping resize")
		return file, nil
	}
	if uint(max(cfg.Width, cfg.Height)) <= p.maxDimension {
		return file, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return "", err
	}
	img, err := jpeg.Decode(f)
	if err != nil {
		return "", fmt.Errorf("error decoding image: %w", err)
	}

	resized := p.resize(img)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	target := filepath.Join(dir, filepath.Base(file))

	w, err := os.Create(target)
	if err != nil {
		return "", err
	}
	if err := jpeg.Encode(w, resized, &jpeg.Options{Quality: p.quality}); err != nil {
		w.Close()
		return "", fmt.Errorf("error encoding image: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	b := resized.Bounds()
	p.logger.Debug().
		Str("file", file).
		Int("from_width", cfg.Width).
		Int("from_height", cfg.Height).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Msg("Resized image")

	return target, nil
}

// resize fits img into a maxDimension square, keeping the aspect ratio.
func (p *Preparer) resize(img image.Image) image.Image {
	return resize.Thumbnail(p.maxDimension, p.maxDimension, img, resize.Lanczos3)
}

// IsJPEG reports whether path has a JPEG extension.
func IsJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}
