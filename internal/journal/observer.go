package journal

import (
	"context"
	"time"

	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
	"github.com/rs/zerolog"
)

// Observer writes upload progress into a Journal.
//
// Journal errors are logged and never abort an upload.
type Observer struct {
	ctx     context.Context
	journal *Journal
	logger  zerolog.Logger
	now     func() time.Time
}

// NewObserver returns an imgsrc.UploadObserver backed by j.
func NewObserver(ctx context.Context, j *Journal, logger zerolog.Logger) *Observer {
	return &Observer{
		ctx:     ctx,
		journal: j,
		logger:  logger.With().Str("component", "journal").Logger(),
		now:     time.Now,
	}
}

// AttemptFailed records a failed attempt.
func (o *Observer) AttemptFailed(album *imgsrc.Album, file string, attempt int, err error) {
	o.logger.Warn().
		Err(err).
		Str("album", album.Name).
		Str("file", file).
		Int("attempt", attempt).
		Msg("Upload attempt failed")

	f := Failure{
		AlbumName: album.Name,
		File:      file,
		Attempt:   attempt,
		Error:     err.Error(),
		At:        o.now(),
	}
	if err := o.journal.RecordFailure(o.ctx, f); err != nil {
		o.logger.Error().Err(err).Msg("Failed to record upload failure")
	}
}

// FileUploaded records the photos created for file.
func (o *Observer) FileUploaded(album *imgsrc.Album, file string, photos []imgsrc.Photo) {
	at := o.now()
	entries := make([]Entry, 0, len(photos))
	for _, p := range photos {
		entries = append(entries, Entry{
			AlbumID:    album.ID,
			AlbumName:  album.Name,
			File:       file,
			PhotoID:    p.ID,
			Page:       p.Page,
			Small:      p.Small,
			Big:        p.Big,
			UploadedAt: at,
		})
	}

	if err := o.journal.Record(o.ctx, entries); err != nil {
		o.logger.Error().Err(err).Str("file", file).Msg("Failed to record upload")
		return
	}

	o.logger.Info().
		Str("album", album.Name).
		Str("file", file).
		Int("photos", len(photos)).
		Msg("File uploaded")
}
