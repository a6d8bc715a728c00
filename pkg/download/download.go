// Package download fetches each resolved package's .deb file into the
// workspace downloads directory.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arc-language/debstrap/pkg/pkgfile"
	"github.com/arc-language/debstrap/pkg/transport"
)

// Downloader fetches closure members into a directory.
type Downloader struct {
	Client *transport.Client
	Dir    string
}

// DownloadAll downloads every package in closure, in the given (already
// sorted) iteration order, using the leaf file name under Dir. A failure is
// fatal; there is no retry or parallelism.
func (d *Downloader) DownloadAll(ctx context.Context, closure []pkgfile.Package) error {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	for _, pkg := range closure {
		url := pkg.OriginURIScheme + pkg.OriginURIPath + "/" + pkg.FileName
		dest := filepath.Join(d.Dir, filepath.Base(pkg.FileName))

		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("creating %q: %w", dest, err)
		}

		_, err = d.Client.Download(ctx, url, f)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("downloading %q: %w", url, err)
		}
		if closeErr != nil {
			return fmt.Errorf("closing %q: %w", dest, closeErr)
		}
	}

	return nil
}
