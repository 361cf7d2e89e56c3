package imgsrc

import (
	"crypto/md5"
	"encoding/hex"
)

// Credentials identify the account on every authenticated request.
type Credentials struct {
	Username    string // Account login
	PasswordMD5 string // Hex MD5 digest of the password
}

// HashPassword returns the digest the service expects in the passwd parameter.
func HashPassword(plain string) string {
	sum := md5.Sum([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// params returns the login/passwd query pair.
func (c Credentials) params() Params {
	return Params{
		{Key: "login", Value: c.Username},
		{Key: "passwd", Value: c.PasswordMD5},
	}
}

// Album is a photo album owned by the logged-in user.
//
// Photos holds the records uploaded through this client only; the server does
// not echo album history.
type Album struct {
	ID       string  // Opaque server identifier
	Name     string  // Album name (unique per account, enforced server-side)
	Size     int     // Photo count
	Modified string  // Last-modified timestamp as sent by the server
	Password string  // Optional album password
	Photos   []Photo // Photos uploaded during this session
}

// Photo is a single uploaded image.
type Photo struct {
	ID    string // Server identifier
	Page  string // Photo page URL
	Small string // Small thumbnail URL
	Big   string // Full-size image URL
}

// Category is an entry of the service's album category tree.
type Category struct {
	Name     string
	ParentID string
}

// AlbumOptions are optional settings for a new album.
type AlbumOptions struct {
	Category string // Category ID (see CategoryDirectory)
	Password string // Album password
}
