package imgsrc

import (
	"context"
	"strconv"
	"time"
)

// UploadObserver receives per-file upload progress.
//
// Calls happen synchronously on the uploading goroutine, in file order.
type UploadObserver interface {
	// AttemptFailed is called after each failed attempt for file.
	AttemptFailed(album *Album, file string, attempt int, err error)

	// FileUploaded is called once file has been stored; photos are the
	// records the server returned for it.
	FileUploaded(album *Album, file string, photos []Photo)
}

// Upload sends files to the named album, one request per file, in order.
//
// The service is unstable under multi-file submissions, so files are never
// batched. Each file is tried up to MaxAttempts times with the same body.
// Returned photos are appended to album.Photos and added to album.Size.
//
// Fails with ErrNotLoggedIn before login, ErrNotFound for an unknown album
// (albums are never created implicitly) and ErrUpload once a file runs out of
// attempts. A cancelled ctx is returned as ctx.Err(). Files before the failing
// one remain uploaded.
func (c *Client) Upload(ctx context.Context, albumName string, files []string) error {
	if c.storage == nil {
		return newError(KindNotLoggedIn, "no storage host")
	}

	album, err := c.GetAlbum(albumName)
	if err != nil {
		return err
	}

	params := c.creds.params().Add("album_id", album.ID)

	for _, file := range files {
		c.logDebugf("imgsrc: uploading %s to album %s", file, album.ID)

		photos, err := c.uploadWithRetry(ctx, album, file, params)
		if err != nil {
			return err
		}

		album.Photos = append(album.Photos, photos...)
		album.Size += len(photos)

		if c.observer != nil {
			c.observer.FileUploaded(album, file, photos)
		}
	}

	return nil
}

// uploadWithRetry tries a single file until it succeeds or attempts run out.
func (c *Client) uploadWithRetry(ctx context.Context, album *Album, file string, params Params) ([]Photo, error) {
	body, err := BuildMultipart([]string{file}, c.encoding)
	if err != nil {
		return nil, &Error{Kind: KindUpload, Message: file, Err: err}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		photos, err := c.uploadOnce(ctx, params, body)
		if err == nil {
			return photos, nil
		}
		lastErr = err

		c.logDebugf("imgsrc: %s: upload failed (%v), %d retries left", file, err, c.maxAttempts-attempt)
		if c.observer != nil {
			c.observer.AttemptFailed(album, file, attempt, err)
		}

		if !isRetryable(err) || attempt == c.maxAttempts {
			break
		}
		if !sleep(ctx, c.retryDelay) {
			break
		}
	}

	// Cancellation is reported as the context error itself.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return nil, uploadError(lastErr)
}

// uploadOnce performs one POST and parses the reply.
func (c *Client) uploadOnce(ctx context.Context, params Params, body []byte) ([]Photo, error) {
	resp, err := c.storage.Post(ctx, pathUpload, params, body, ContentType())
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:    KindTransport,
			Message: "code " + strconv.Itoa(resp.StatusCode) + ": " + string(resp.Body),
			Body:    resp.Body,
		}
	}

	env, err := Validate(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseUploads(env)
}

// parseUploads extracts photo records from an upload envelope.
func parseUploads(env *Envelope) ([]Photo, error) {
	if !env.OK {
		return nil, &Error{Kind: KindUpload, Message: env.Failure()}
	}
	if env.Uploads == nil {
		return nil, newError(KindProtocol, "no uploads in response")
	}

	photos := make([]Photo, 0, len(env.Uploads.Photos))
	for _, node := range env.Uploads.Photos {
		photos = append(photos, Photo{
			ID:    node.ID,
			Page:  text(node.Page),
			Small: text(node.Small),
			Big:   text(node.Big),
		})
	}
	return photos, nil
}

// uploadError converts the final attempt failure into ErrUpload, keeping
// the server's message verbatim.
func uploadError(err error) error {
	if e, ok := err.(*Error); ok {
		if e.Kind == KindUpload {
			return e
		}
		msg := e.Message
		if msg == "" {
			msg = e.Kind.String()
		}
		return &Error{Kind: KindUpload, Message: msg, Body: e.Body, Err: e.Err}
	}
	return &Error{Kind: KindUpload, Err: err}
}

// sleep waits for the specified duration or until context is cancelled.
// Returns true if sleep completed, false if context was cancelled.
func sleep(ctx context.Context, duration time.Duration) bool {
	if duration <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(duration):
		return true
	}
}
