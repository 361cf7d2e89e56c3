// Package imgsrc provides a client library for the iMGSRC.RU photo-hosting API.
//
// # Overview
//
// The service speaks XML over plain HTTP. Every response is an <info>
// envelope carrying a protocol version, a status and an optional error text.
// Login and album creation return the complete album list together with the
// id of the storage shard that accepts uploads for the account.
//
// # Quick Start
//
//	import "github.com/jfmyers9/imgsrc/pkg/imgsrc"
//
//	client, err := imgsrc.NewClient(imgsrc.Config{
//	    Username:    "alice",
//	    PasswordMD5: imgsrc.HashPassword("secret"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := client.Login(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Albums
//
// The album list lives in the client and is replaced wholesale by Login and
// CreateAlbum. Look albums up by name:
//
//	album, err := client.GetOrCreateAlbum(ctx, "Trip", imgsrc.AlbumOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(album.ID, album.Size)
//
// # Uploading
//
// Files are uploaded one request at a time, in order. Each file is retried up
// to Config.MaxAttempts times (default 3) before Upload gives up:
//
//	err := client.Upload(ctx, "Trip", []string{"a.jpg", "b.jpg"})
//	if errors.Is(err, imgsrc.ErrUpload) {
//	    // server or network kept failing for one of the files
//	}
//
// Photos returned by the server are appended to the album's Photos slice.
//
// # Error Handling
//
// All failures are *Error values. Compare kinds with errors.Is:
//
//	switch {
//	case errors.Is(err, imgsrc.ErrLogin):
//	case errors.Is(err, imgsrc.ErrNotFound):
//	case errors.Is(err, imgsrc.ErrMalformedResponse):
//	}
//
// The server's error text is kept verbatim in Error.Message.
//
// # Transport
//
// Requests go through the Transport interface. The default is an HTTP
// transport; tests and tools can supply their own Dialer:
//
//	client, err := imgsrc.NewClient(imgsrc.Config{
//	    Username:    "alice",
//	    PasswordMD5: digest,
//	    Dial: func(host string) imgsrc.Transport {
//	        return myTransport(host)
//	    },
//	})
//
// # Categories
//
// The category tree is reference data fetched once per CategoryDirectory:
//
//	dir := imgsrc.NewCategoryDirectory(client)
//	cats, err := dir.Categories(ctx)
package imgsrc
