// Package extract pulls the data (and, when needed, control) portion out of
// a .deb archive into the target directory.
package extract

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"

	"github.com/arc-language/debstrap/pkg/archivefmt"
)

// Backend selects how a .deb's member tarball is streamed out.
type Backend string

const (
	// BackendAr reads the .deb as an ar archive directly in-process.
	BackendAr Backend = "ar"
	// BackendDpkgDeb shells out to dpkg-deb --fsys-tarfile.
	BackendDpkgDeb Backend = "dpkg-deb"
)

// Extractor extracts .deb archives into a target directory using the
// configured backend.
type Extractor struct {
	Backend Backend
}

// ExtractData extracts the data.tar.* member of debPath into targetDir.
func (e *Extractor) ExtractData(ctx context.Context, debPath, targetDir string) error {
	switch e.Backend {
	case BackendDpkgDeb:
		return e.extractViaDpkgDeb(ctx, debPath, targetDir)
	default:
		return e.extractViaAr(debPath, "data.tar", targetDir)
	}
}

// ExtractControl returns the contents of the control file inside debPath's
// control.tar.* member.
func (e *Extractor) ExtractControl(debPath string) (string, error) {
	f, err := os.Open(debPath)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", debPath, err)
	}
	defer f.Close()

	arReader := ar.NewReader(f)
	for {
		header, err := arReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading ar entry: %w", err)
		}
		if !strings.HasPrefix(header.Name, "control.tar") {
			continue
		}

		tr, err := tarReaderFor(header.Name, arReader)
		if err != nil {
			return "", err
		}

		for {
			th, err := tr.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return "", fmt.Errorf("reading tar entry: %w", err)
			}
			if strings.TrimPrefix(th.Name, "./") == "control" {
				data, err := io.ReadAll(tr)
				if err != nil {
					return "", fmt.Errorf("reading control: %w", err)
				}
				return string(data), nil
			}
		}
	}

	return "", fmt.Errorf("no control.tar.* found in %q", debPath)
}

// extractViaAr implements the ar backend: find the first member whose name
// matches prefix, decompress per extension, and stream the tar entries onto
// disk.
func (e *Extractor) extractViaAr(debPath, prefix, targetDir string) error {
	f, err := os.Open(debPath)
	if err != nil {
		return fmt.Errorf("opening %q: %w", debPath, err)
	}
	defer f.Close()

	arReader := ar.NewReader(f)
	for {
		header, err := arReader.Next()
		if err == io.EOF {
			return fmt.Errorf("no %s.* found in %q", prefix, debPath)
		}
		if err != nil {
			return fmt.Errorf("reading ar entry: %w", err)
		}
		if !strings.HasPrefix(header.Name, prefix) {
			continue
		}

		tr, err := tarReaderFor(header.Name, arReader)
		if err != nil {
			return err
		}
		return extractTar(tr, targetDir)
	}
}

func tarReaderFor(name string, r io.Reader) (*tar.Reader, error) {
	if !archivefmt.HasKnownCompressionExtension(name) {
		return nil, &archivefmt.UnknownCompressionError{Name: name}
	}
	decompressed, err := archivefmt.Decompress(name, r)
	if err != nil {
		return nil, fmt.Errorf("decompressing %q: %w", name, err)
	}
	return tar.NewReader(decompressed), nil
}

func extractTar(tr *tar.Reader, targetDir string) error {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		cleanPath := strings.TrimPrefix(header.Name, "./")
		if cleanPath == "" || cleanPath == "." {
			continue
		}
		targetPath := filepath.Join(targetDir, cleanPath)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fmt.Errorf("creating directory %q: %w", targetPath, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fmt.Errorf("creating parent of %q: %w", targetPath, err)
			}
			os.Remove(targetPath)
			if err := os.Symlink(header.Linkname, targetPath); err != nil {
				return fmt.Errorf("creating symlink %q -> %q: %w", targetPath, header.Linkname, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return fmt.Errorf("creating parent of %q: %w", targetPath, err)
			}
			out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return fmt.Errorf("creating file %q: %w", targetPath, err)
			}
			_, copyErr := io.Copy(out, tr)
			closeErr := out.Close()
			if copyErr != nil {
				return fmt.Errorf("writing %q: %w", targetPath, copyErr)
			}
			if closeErr != nil {
				return fmt.Errorf("closing %q: %w", targetPath, closeErr)
			}
		}
	}
}

// extractViaDpkgDeb shells out to dpkg-deb --fsys-tarfile and streams the
// resulting tarball through the same extraction routine as the ar backend.
func (e *Extractor) extractViaDpkgDeb(ctx context.Context, debPath, targetDir string) error {
	cmd := exec.CommandContext(ctx, "dpkg-deb", "--fsys-tarfile", debPath)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("piping dpkg-deb stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting dpkg-deb: %w", err)
	}

	if err := extractTar(tar.NewReader(stdout), targetDir); err != nil {
		cmd.Wait()
		return err
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("dpkg-deb exited with error: %w", err)
	}

	return nil
}
