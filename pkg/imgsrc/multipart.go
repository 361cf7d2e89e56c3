package imgsrc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Boundary separates multipart parts.
const Boundary = "x----------------------------Rai8cheth7thi6ee"

// Encoding selects how file payloads are written into the multipart body.
type Encoding int

const (
	// EncodingBinary writes raw bytes with a Content-Length header.
	EncodingBinary Encoding = iota

	// EncodingBase64 writes MIME base64 with Content-Transfer-Encoding.
	//
	// The service does not handle this reliably; it is kept for endpoint
	// experiments and is never selected by default.
	EncodingBase64
)

// String returns the encoding name.
func (e Encoding) String() string {
	switch e {
	case EncodingBinary:
		return "binary"
	case EncodingBase64:
		return "base64"
	default:
		return "unknown"
	}
}

const base64LineLength = 60

// ContentType returns the request Content-Type for multipart bodies.
func ContentType() string {
	return "multipart/form-data, boundary=" + Boundary
}

// BuildMultipart builds a form-data body with one part per file.
//
// Parts are named u1, u2, ... in order. An empty path yields an empty part
// with an empty filename, which the service accepts as an endpoint probe.
func BuildMultipart(files []string, enc Encoding) ([]byte, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("imgsrc: no files")
	}

	var buf bytes.Buffer
	for i, file := range files {
		var (
			filename string
			data     []byte
		)
		if file != "" {
			filename = filepath.Base(file)
			content, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}
			data = content
		}
		writePart(&buf, i+1, filename, data, enc)
	}
	buf.WriteString("--" + Boundary + "--\r\n")

	return buf.Bytes(), nil
}

func writePart(buf *bytes.Buffer, index int, filename string, data []byte, enc Encoding) {
	contentType := "image/jpeg"
	if len(data) == 0 {
		contentType = "application/octet-stream"
	}

	buf.WriteString("--" + Boundary + "\r\n")
	fmt.Fprintf(buf, "Content-Disposition: form-data; name=\"u%d\"; filename=\"%s\"\r\n", index, filename)
	buf.WriteString("Content-Type: " + contentType + "\r\n")
	if enc == EncodingBase64 {
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	} else {
		buf.WriteString("Content-Length: " + strconv.Itoa(len(data)) + "\r\n")
	}
	buf.WriteString("\r\n")

	if enc == EncodingBase64 {
		writeBase64(buf, data)
	} else {
		buf.Write(data)
	}
	buf.WriteString("\r\n")
}

// writeBase64 writes data as newline-terminated base64 lines.
func writeBase64(buf *bytes.Buffer, data []byte) {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := base64LineLength
		if n > len(encoded) {
			n = len(encoded)
		}
		buf.WriteString(encoded[:n])
		buf.WriteByte('\n')
		encoded = encoded[n:]
	}
}
