package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jfmyers9/imgsrc/internal/journal"
	"github.com/jfmyers9/imgsrc/pkg/imgsrc"
	"github.com/mattn/go-runewidth"
)

func TestPadToWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{
			name:     "no padding when width is 0",
			input:    "Hello",
			width:    0,
			expected: "Hello",
		},
		{
			name:     "pad short text with spaces",
			input:    "Hi",
			width:    10,
			expected: "Hi        ",
		},
		{
			name:     "exact width unchanged",
			input:    "Hello",
			width:    5,
			expected: "Hello",
		},
		{
			name:     "truncate long text with ellipsis",
			input:    "This is a very long album name",
			width:    20,
			expected: "This is a very lo...",
		},
		{
			name:     "cyrillic album name",
			input:    "Отпуск",
			width:    10,
			expected: "Отпуск    ",
		},
		{
			name:     "truncate wide characters",
			input:    "日本語とても長いテキスト",
			width:    10,
			expected: "日本語... ",
		},
		{
			name:     "minimum width for truncation",
			input:    "Hello",
			width:    3,
			expected: "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := padToWidth(tt.input, tt.width)
			if result != tt.expected {
				t.Errorf("padToWidth(%q, %d) = %q, expected %q",
					tt.input, tt.width, result, tt.expected)
			}

			if tt.width > 0 {
				resultWidth := runewidth.StringWidth(result)
				if resultWidth != tt.width {
					t.Errorf("padToWidth(%q, %d) produced width %d, expected %d",
						tt.input, tt.width, resultWidth, tt.width)
				}
			}
		})
	}
}

func TestPrintAlbums(t *testing.T) {
	var buf bytes.Buffer
	printAlbums(&buf, []*imgsrc.Album{
		{ID: "42", Name: "Trip", Size: 5, Modified: "2024-01-01"},
		{ID: "43", Name: "Private", Size: 0, Password: "x"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "42 ") || !strings.Contains(lines[1], "Trip") || !strings.Contains(lines[1], "2024-01-01") {
		t.Errorf("unexpected row: %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "yes") {
		t.Errorf("expected locked album, got %q", lines[2])
	}
	if strings.HasSuffix(lines[1], "yes") {
		t.Errorf("expected unlocked album, got %q", lines[1])
	}
}

func TestPrintCategories_SortedNumerically(t *testing.T) {
	var buf bytes.Buffer
	printCategories(&buf, map[string]imgsrc.Category{
		"10": {Name: "Ten", ParentID: "1"},
		"2":  {Name: "Two"},
		"1":  {Name: "One", ParentID: "0"},
	})

	out := buf.String()
	one := strings.Index(out, "One")
	two := strings.Index(out, "Two")
	ten := strings.Index(out, "Ten")
	if one < 0 || two < 0 || ten < 0 || !(one < two && two < ten) {
		t.Errorf("expected numeric order, got:\n%s", out)
	}
}

func TestPrintEntries(t *testing.T) {
	var buf bytes.Buffer
	printEntries(&buf, []journal.Entry{
		{AlbumName: "Trip", File: "/photos/a.jpg", Page: "http://imgsrc.ru/p/1", UploadedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)},
	})

	out := buf.String()
	if !strings.Contains(out, "2024-05-01 12:00:00") || !strings.Contains(out, "a.jpg") || strings.Contains(out, "/photos/") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "http://imgsrc.ru/p/1") {
		t.Errorf("expected page URL in output:\n%s", out)
	}
}
