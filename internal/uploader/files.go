package uploader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jfmyers9/imgsrc/internal/imageprep"
)

// ExpandPaths turns command line arguments into the list of files to upload
//
// Directories expand to the JPEG files directly inside them, sorted by name.
// Plain files are kept as given, whatever their extension, and the argument
// order is preserved.
func ExpandPaths(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		images, err := dirImages(path)
		if err != nil {
			return nil, err
		}
		files = append(files, images...)
	}

	return files, nil
}

// dirImages lists the JPEG files in dir
func dirImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() || !imageprep.IsJPEG(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(images)
	return images, nil
}
