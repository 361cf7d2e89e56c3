package imgsrc

import (
	"context"
	"errors"

	"golang.org/x/text/encoding/charmap"
)

// GetAlbum returns the album with exactly this name.
//
// The returned pointer is shared with the session; it stays the same across
// calls until Login or CreateAlbum replaces the album list.
func (c *Client) GetAlbum(name string) (*Album, error) {
	for _, album := range c.albums {
		if album.Name == name {
			return album, nil
		}
	}
	return nil, newError(KindNotFound, "no album %s", name)
}

// CreateAlbum creates a new album and reloads the album list.
//
// An existing album with the same name is reported as ErrCreate without
// contacting the server. This is a convenience guard only; the server remains
// the authority on uniqueness.
//
// Example:
//
//	err := client.CreateAlbum(ctx, "Trip", imgsrc.AlbumOptions{Category: "12"})
func (c *Client) CreateAlbum(ctx context.Context, name string, opts AlbumOptions) error {
	if album, err := c.GetAlbum(name); err == nil {
		return newError(KindCreate, "album %s already exists: %d photos, modified %s",
			name, album.Size, album.Modified)
	}

	encoded, err := charmap.Windows1251.NewEncoder().String(name)
	if err != nil {
		return &Error{Kind: KindCreate, Message: "album name not representable in windows-1251", Err: err}
	}

	params := c.creds.params().Add("create", encoded)
	if opts.Category != "" {
		params = params.Add("create_category", opts.Category)
	}
	if opts.Password != "" {
		params = params.Add("create_passwd", opts.Password)
	}

	c.logDebugf("imgsrc: creating album %q", name)

	env, err := c.callInfo(ctx, params)
	if err != nil {
		if errors.Is(err, ErrProtocolMismatch) {
			return &Error{Kind: KindCreate, Err: err}
		}
		return err
	}

	if !env.OK {
		return &Error{Kind: KindCreate, Message: env.Failure()}
	}

	return c.applyInfo(env)
}

// GetOrCreateAlbum returns the named album, creating it first if needed.
//
// The create response carries the full album list rather than the new album,
// so the album is looked up again by name afterwards.
func (c *Client) GetOrCreateAlbum(ctx context.Context, name string, opts AlbumOptions) (*Album, error) {
	if album, err := c.GetAlbum(name); err == nil {
		return album, nil
	}

	if err := c.CreateAlbum(ctx, name, opts); err != nil {
		return nil, err
	}

	return c.GetAlbum(name)
}
