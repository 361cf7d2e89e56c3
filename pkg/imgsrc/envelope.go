package imgsrc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

const (
	// ProtocolVersion is the only envelope version this client understands.
	ProtocolVersion = "0.8"

	statusOK = "OK"
)

// Envelope is a validated <info> response.
//
// Payload elements are decoded once during validation so callers navigate
// them without re-parsing. Pointer fields are nil when the element is absent.
type Envelope struct {
	Proto        string
	Status       string
	OK           bool
	ErrorMessage string // Text of <error>, empty if absent
	HasError     bool   // Whether <error> was present

	Store      *string
	Albums     []albumNode
	Uploads    *uploadsNode
	Categories []categoryNode
}

// info mirrors the XML envelope.
type info struct {
	XMLName    xml.Name       `xml:"info"`
	Proto      string         `xml:"proto,attr"`
	Status     *string        `xml:"status"`
	Error      *string        `xml:"error"`
	Store      *string        `xml:"store"`
	Albums     []albumNode    `xml:"albums>album"`
	Uploads    *uploadsNode   `xml:"uploads"`
	Categories []categoryNode `xml:"categories>category"`
}

type albumNode struct {
	ID       string  `xml:"id,attr"`
	Name     *string `xml:"name"`
	Photos   *string `xml:"photos"`
	Modified *string `xml:"modified"`
	Password *string `xml:"password"`
}

type uploadsNode struct {
	Photos []photoNode `xml:"photo"`
}

type photoNode struct {
	ID    string  `xml:"id,attr"`
	Page  *string `xml:"page"`
	Small *string `xml:"small"`
	Big   *string `xml:"big"`
}

type categoryNode struct {
	ID       *string `xml:"id,attr"`
	Name     *string `xml:"name"`
	ParentID *string `xml:"parent_id"`
}

// Validate parses body as an <info> envelope.
//
// It fails with ErrMalformedResponse when the document is not XML, the root is
// not <info>, or <status> is missing, and with ErrProtocolMismatch when the
// proto attribute differs from ProtocolVersion. A non-OK status is not an
// error here; callers decide how to surface it.
func Validate(body []byte) (*Envelope, error) {
	var doc info

	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		return nil, &Error{
			Kind:    KindMalformedResponse,
			Message: "invalid xml",
			Body:    body,
			Err:     err,
		}
	}

	if doc.Proto != ProtocolVersion {
		return nil, &Error{
			Kind:    KindProtocolMismatch,
			Message: fmt.Sprintf("unsupported protocol version %q", doc.Proto),
			Body:    body,
		}
	}

	if doc.Status == nil {
		return nil, &Error{
			Kind:    KindMalformedResponse,
			Message: "no status in response",
			Body:    body,
		}
	}

	env := &Envelope{
		Proto:      doc.Proto,
		Status:     strings.TrimSpace(*doc.Status),
		Store:      doc.Store,
		Albums:     doc.Albums,
		Uploads:    doc.Uploads,
		Categories: doc.Categories,
	}
	env.OK = env.Status == statusOK
	if doc.Error != nil {
		env.HasError = true
		env.ErrorMessage = *doc.Error
	}

	return env, nil
}

// Failure returns the server's error text, or "unknown" when none was sent.
func (e *Envelope) Failure() string {
	if e.HasError {
		return e.ErrorMessage
	}
	return "unknown"
}

// charsetReader decodes non-UTF-8 documents; the service declares
// windows-1251 on some endpoints.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// text returns the trimmed content of an optional leaf, or "".
func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
