// Package archivefmt dispatches to the right decompressor for a Debian
// archive file extension. Used for both Packages indices and .deb
// data/control tarballs.
package archivefmt

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// UnknownCompressionError reports a file extension the decompressor table
// does not recognise.
type UnknownCompressionError struct {
	Name string
}

func (e *UnknownCompressionError) Error() string {
	return fmt.Sprintf("unrecognized file format: %q", e.Name)
}

// Decompress returns an io.Reader that yields the decompressed bytes of r,
// selecting the decompressor by name's extension. A name with no recognised
// compression extension (including none at all) passes r through unchanged.
func Decompress(name string, r io.Reader) (io.Reader, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return gzip.NewReader(r)
	case strings.HasSuffix(name, ".xz"):
		return xz.NewReader(r)
	case strings.HasSuffix(name, ".bz2"):
		return bzip2.NewReader(r), nil
	case strings.HasSuffix(name, ".lzma"):
		return lzma.NewReader(r)
	case strings.HasSuffix(name, ".zst"):
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return decoder.IOReadCloser(), nil
	default:
		return r, nil
	}
}

// DecompressBytes is a convenience wrapper around Decompress for callers
// that already hold the full compressed payload in memory (index files, as
// opposed to the streamed .deb data tarball).
func DecompressBytes(name string, data []byte) ([]byte, error) {
	reader, err := Decompress(name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating decompressor for %q: %w", name, err)
	}
	return io.ReadAll(reader)
}

// HasKnownCompressionExtension reports whether name ends in a recognised
// compression extension or is a bare name with none at all (".tar",
// "Packages", etc., both of which are legal "no compression" inputs).
func HasKnownCompressionExtension(name string) bool {
	for _, ext := range []string{".gz", ".xz", ".bz2", ".lzma", ".zst"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	if strings.HasSuffix(name, ".tar") {
		return true
	}
	return !strings.Contains(name, ".")
}
