package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jfmyers9/imgsrc/internal/journal"
	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
	"github.com/mattn/go-runewidth"
)

// Column widths for tabular output
const (
	idWidth       = 10
	nameWidth     = 32
	countWidth    = 7
	modifiedWidth = 20
	fileWidth     = 28
)

// printAlbums writes one line per album
func printAlbums(w io.Writer, albums []*imgsrc.Album) {
	fmt.Fprintln(w, row(
		padToWidth("ID", idWidth),
		padToWidth("NAME", nameWidth),
		padToWidth("PHOTOS", countWidth),
		padToWidth("MODIFIED", modifiedWidth),
		"LOCKED",
	))

	for _, a := range albums {
		locked := ""
		if a.Password != "" {
			locked = "yes"
		}
		fmt.Fprintln(w, row(
			padToWidth(a.ID, idWidth),
			padToWidth(a.Name, nameWidth),
			padToWidth(strconv.Itoa(a.Size), countWidth),
			padToWidth(a.Modified, modifiedWidth),
			locked,
		))
	}
}

// printPhotos writes one line per photo with its page and full-size URLs
func printPhotos(w io.Writer, photos []imgsrc.Photo) {
	for _, p := range photos {
		fmt.Fprintln(w, row(padToWidth(p.ID, idWidth), p.Page))
		if p.Big != "" {
			fmt.Fprintln(w, row(padToWidth("", idWidth), p.Big))
		}
	}
}

// printCategories writes categories sorted by numeric id
func printCategories(w io.Writer, cats map[string]imgsrc.Category) {
	ids := make([]string, 0, len(cats))
	for id := range cats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})

	fmt.Fprintln(w, row(padToWidth("ID", idWidth), padToWidth("NAME", nameWidth), "PARENT"))
	for _, id := range ids {
		c := cats[id]
		fmt.Fprintln(w, row(padToWidth(id, idWidth), padToWidth(c.Name, nameWidth), c.ParentID))
	}
}

// printEntries writes journal entries
func printEntries(w io.Writer, entries []journal.Entry) {
	fmt.Fprintln(w, row(
		padToWidth("UPLOADED", modifiedWidth),
		padToWidth("ALBUM", nameWidth),
		padToWidth("FILE", fileWidth),
		"PAGE",
	))

	for _, e := range entries {
		fmt.Fprintln(w, row(
			padToWidth(e.UploadedAt.Format("2006-01-02 15:04:05"), modifiedWidth),
			padToWidth(e.AlbumName, nameWidth),
			padToWidth(baseName(e.File), fileWidth),
			e.Page,
		))
	}
}

// printFailures writes failed attempts
func printFailures(w io.Writer, failures []journal.Failure) {
	if len(failures) == 0 {
		fmt.Fprintln(w, "No failures recorded.")
		return
	}

	for _, f := range failures {
		fmt.Fprintln(w, row(
			padToWidth(f.At.Format("2006-01-02 15:04:05"), modifiedWidth),
			padToWidth(f.AlbumName, nameWidth),
			padToWidth(fmt.Sprintf("%s #%d", baseName(f.File), f.Attempt), fileWidth),
			f.Error,
		))
	}
}

func row(cols ...string) string {
	return strings.TrimRight(strings.Join(cols, " "), " ")
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text // no padding requested
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			return runewidth.Truncate(ellipsis, width, "")
		}

		truncated := runewidth.Truncate(text, width-ellipsisWidth, "")
		result := truncated + ellipsis

		// Wide runes can leave the result one column short
		if resultWidth := runewidth.StringWidth(result); resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	} else if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	return text
}
