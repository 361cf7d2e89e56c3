package imgsrc

import (
	"context"
	"errors"
	"strconv"
)

// Login authenticates and loads the account's albums and storage host.
//
// Login is one-shot: calling it on a client that already has a storage host
// fails with ErrAlreadyLoggedIn. A protocol version mismatch is reported as
// ErrLogin (wrapping ErrProtocolMismatch) so that API drift surfaces as an
// authentication failure.
//
// Example:
//
//	if _, err := client.Login(ctx); err != nil {
//	    if errors.Is(err, imgsrc.ErrLogin) {
//	        log.Fatal("check username and password")
//	    }
//	    log.Fatal(err)
//	}
func (c *Client) Login(ctx context.Context) (*Client, error) {
	if c.storageHost != "" {
		return nil, newError(KindAlreadyLoggedIn, "%s", c.creds.Username)
	}

	c.logDebugf("imgsrc: logging in as %s", c.creds.Username)

	env, err := c.callInfo(ctx, c.creds.params())
	if err != nil {
		if errors.Is(err, ErrProtocolMismatch) {
			return nil, &Error{Kind: KindLogin, Err: err}
		}
		return nil, err
	}

	if !env.OK {
		return nil, &Error{Kind: KindLogin, Message: env.Failure()}
	}

	if err := c.applyInfo(env); err != nil {
		return nil, err
	}

	c.logDebugf("imgsrc: logged in, storage %s, %d albums", c.storageHost, len(c.albums))
	return c, nil
}

// callInfo issues GET cli/info.php on the root host and validates the reply.
func (c *Client) callInfo(ctx context.Context, params Params) (*Envelope, error) {
	resp, err := c.root.Get(ctx, pathInfo, params)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Message: "can not load info", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:    KindTransport,
			Message: "info: http status " + strconv.Itoa(resp.StatusCode),
			Body:    resp.Body,
		}
	}
	return Validate(resp.Body)
}

// applyInfo binds the storage host and replaces the album list.
func (c *Client) applyInfo(env *Envelope) error {
	if env.Store == nil {
		return newError(KindProtocol, "no storage id in server response")
	}

	c.bindStorage("e" + text(env.Store) + "." + c.rootHost)

	albums := make([]*Album, 0, len(env.Albums))
	for _, node := range env.Albums {
		albums = append(albums, albumFromNode(node))
	}
	c.albums = albums

	return nil
}

// bindStorage dials host unless the client is already bound to it.
func (c *Client) bindStorage(host string) {
	if c.storageHost == host {
		return
	}
	c.logDebugf("imgsrc: binding storage host %s", host)
	c.storage = c.dial(host)
	c.storageHost = host
}

// albumFromNode converts an <album> element. Missing leaves default.
func albumFromNode(node albumNode) *Album {
	size, err := strconv.Atoi(text(node.Photos))
	if err != nil {
		size = 0
	}
	return &Album{
		ID:       node.ID,
		Name:     text(node.Name),
		Size:     size,
		Modified: text(node.Modified),
		Password: text(node.Password),
		Photos:   []Photo{},
	}
}
