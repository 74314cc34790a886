package m3u

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/valyala/bytebufferpool"
)

const TimestampLayout = "2006-01-02 15:04:05"

// FormatEntry renders a channel as its #EXTINF line followed by its URL line.
func FormatEntry(ch Channel) string {
	return fmt.Sprintf("%s:-1 tvg-logo=\"%s\" group-title=\"%s\",%s\n%s\n",
		InfoDirective, ch.LogoURL, ch.Group, ch.Name, ch.URL)
}

// Encode writes a complete playlist to w: header, generation timestamp,
// promo entry, then every channel in order. It returns the number of
// entries written, promo included.
func Encode(w io.Writer, promo Channel, channels []Channel, generatedAt time.Time) (int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(HeaderDirective + "\n")
	_, _ = buf.WriteString(fmt.Sprintf("# Auto-updated on: %s\n", generatedAt.Format(TimestampLayout)))

	_, _ = buf.WriteString(FormatEntry(promo))
	for _, ch := range channels {
		_, _ = buf.WriteString(FormatEntry(ch))
	}

	if _, err := buf.WriteTo(w); err != nil {
		return 0, err
	}

	return len(channels) + 1, nil
}

type Writer struct {
	fs afero.Fs
}

func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write replaces the playlist at path. Content goes to a temporary sibling
// first and is renamed into place once fully written.
func (w *Writer) Write(path string, promo Channel, channels []Channel, generatedAt time.Time) (int, error) {
	if err := w.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("error creating output directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := w.fs.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("error creating output file: %w", err)
	}

	count, err := Encode(file, promo, channels, generatedAt)
	if err != nil {
		file.Close()
		_ = w.fs.Remove(tmpPath)
		return 0, fmt.Errorf("error writing playlist: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = w.fs.Remove(tmpPath)
		return 0, fmt.Errorf("error closing output file: %w", err)
	}

	if err := w.fs.Rename(tmpPath, path); err != nil {
		_ = w.fs.Remove(tmpPath)
		return 0, fmt.Errorf("error moving playlist into place: %w", err)
	}

	return count, nil
}
