package uploader

import (
	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
)

// sourceObserver reports upload progress against the user's files.
//
// Image preparation may substitute a resized scratch copy for a file; the
// client only ever sees that copy. sourceObserver maps it back to the
// original path before notifying next.
type sourceObserver struct {
	next    imgsrc.UploadObserver
	sources map[string]string // prepared path -> original path
}

// track records the originals for one batch. prepared and originals are
// parallel slices.
func (o *sourceObserver) track(prepared, originals []string) {
	o.sources = make(map[string]string, len(prepared))
	for i, path := range prepared {
		o.sources[path] = originals[i]
	}
}

func (o *sourceObserver) reset() {
	o.sources = nil
}

func (o *sourceObserver) source(file string) string {
	if original, ok := o.sources[file]; ok {
		return original
	}
	return file
}

func (o *sourceObserver) AttemptFailed(album *imgsrc.Album, file string, attempt int, err error) {
	o.next.AttemptFailed(album, o.source(file), attempt, err)
}

func (o *sourceObserver) FileUploaded(album *imgsrc.Album, file string, photos []imgsrc.Photo) {
	o.next.FileUploaded(album, o.source(file), photos)
}
