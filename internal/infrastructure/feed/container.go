package feed

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/farofertas/backend/internal/domain"
)

const textEntryExt = ".csv"

// zipMagic is the local file header signature every ZIP archive starts with
var zipMagic = []byte("PK\x03\x04")

// IsZip reports whether body looks like a ZIP archive
func IsZip(body []byte) bool {
	return bytes.HasPrefix(body, zipMagic)
}

// Resolve returns a stream over the feed text. Archives are sniffed by content
// type or magic bytes; the first .csv entry is decompressed lazily as it is read.
func Resolve(body []byte, contentType string) (io.ReadCloser, error) {
	if !strings.Contains(strings.ToLower(contentType), "zip") && !IsZip(body) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, &domain.ParseError{Err: fmt.Errorf("open archive: %w", err)}
	}

	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(f.Name), textEntryExt) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, &domain.ParseError{Err: fmt.Errorf("open entry %s: %w", f.Name, err)}
		}
		return rc, nil
	}

	return nil, domain.ErrNoTextEntry
}
