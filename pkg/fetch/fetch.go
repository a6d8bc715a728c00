// Package fetch is the index fetcher: for each (uri × suite) it downloads
// and parses a Release file, then for each (component × architecture) it
// discovers, downloads, decompresses and verifies a Packages index.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/arc-language/debstrap/pkg/archivefmt"
	"github.com/arc-language/debstrap/pkg/diagnostics"
	"github.com/arc-language/debstrap/pkg/integrity"
	"github.com/arc-language/debstrap/pkg/release"
	"github.com/arc-language/debstrap/pkg/sources"
	"github.com/arc-language/debstrap/pkg/transport"
)

func readAll(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// ReleaseMissingError reports that dists/<suite>/Release does not exist on
// the mirror.
type ReleaseMissingError struct{ URL string }

func (e *ReleaseMissingError) Error() string { return fmt.Sprintf("failed to find Release file: %q", e.URL) }

// IndexMissingError reports that no Packages variant exists under a
// component/architecture directory.
type IndexMissingError struct{ URL string }

func (e *IndexMissingError) Error() string { return fmt.Sprintf("failed to find package list: %q", e.URL) }

// Fetcher downloads and verifies Release/Packages files into an index
// directory.
type Fetcher struct {
	Client   *transport.Client
	IndexDir string
	Log      *diagnostics.Logger
}

// FetchedIndex is one downloaded, verified Packages file alongside the
// origin coordinates it was read under.
type FetchedIndex struct {
	Path         string
	URI          sources.URI
	Suite        string
	Component    string
	Architecture string
}

// FetchAll walks every SourcesEntry in entry-then-uri-then-suite-then-
// component-then-architecture order. Callers rely on this ordering to
// produce deterministic package database ranking.
func (f *Fetcher) FetchAll(ctx context.Context, entries []sources.Entry) ([]FetchedIndex, error) {
	var indices []FetchedIndex

	for _, entry := range entries {
		for _, uri := range entry.URIs {
			for _, s := range entry.Suites {
				rel, err := f.fetchRelease(ctx, uri, s)
				if err != nil {
					return nil, err
				}

				for _, component := range entry.Components {
					for _, architecture := range entry.Architectures {
						idx, err := f.fetchPackages(ctx, uri, s, component, architecture, rel)
						if err != nil {
							return nil, err
						}
						indices = append(indices, *idx)
					}
				}
			}
		}
	}

	return indices, nil
}

func (f *Fetcher) fetchRelease(ctx context.Context, uri sources.URI, s string) (release.Release, error) {
	url := fmt.Sprintf("%s%s/dists/%s/Release", uri.Scheme, uri.Path, s)

	exists, err := f.Client.Exists(ctx, url)
	if err != nil {
		return release.Release{}, fmt.Errorf("probing %q: %w", url, err)
	}
	if !exists {
		return release.Release{}, &ReleaseMissingError{URL: url}
	}

	content, err := f.Client.GetString(ctx, url)
	if err != nil {
		return release.Release{}, fmt.Errorf("failed to download Release file: %w", err)
	}

	fileName := ReleaseFileName(uri.Path, s)
	if err := os.WriteFile(filepath.Join(f.IndexDir, fileName), []byte(content), 0644); err != nil {
		return release.Release{}, fmt.Errorf("writing %q: %w", fileName, err)
	}

	return release.Parse(content), nil
}

func (f *Fetcher) fetchPackages(ctx context.Context, uri sources.URI, s, component, architecture string, rel release.Release) (*FetchedIndex, error) {
	parentURL := fmt.Sprintf("%s%s/dists/%s/%s/binary-%s", uri.Scheme, uri.Path, s, component, architecture)

	var downloaded bool
	var raw []byte
	var chosenName string

	for _, candidate := range packagesCandidates {
		url := parentURL + "/" + candidate

		exists, err := f.Client.Exists(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("probing %q: %w", url, err)
		}
		if !exists {
			continue
		}

		resp, err := f.Client.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		body, err := readAll(resp)
		if err != nil {
			return nil, err
		}

		raw = body
		chosenName = candidate
		downloaded = true
		break
	}

	if !downloaded {
		return nil, &IndexMissingError{URL: parentURL}
	}

	decompressed, err := archivefmt.DecompressBytes(chosenName, raw)
	if err != nil {
		return nil, fmt.Errorf("decompressing %q: %w", chosenName, err)
	}

	fileName := PackagesFileName(uri.Path, s, component, architecture)
	path := filepath.Join(f.IndexDir, fileName)
	if err := os.WriteFile(path, decompressed, 0644); err != nil {
		return nil, fmt.Errorf("writing %q: %w", fileName, err)
	}

	if err := f.verify(path, component, architecture, rel); err != nil {
		return nil, err
	}

	return &FetchedIndex{Path: path, URI: uri, Suite: s, Component: component, Architecture: architecture}, nil
}

func (f *Fetcher) verify(path, component, architecture string, rel release.Release) error {
	key := release.IndexKey(component, architecture)

	if entry, ok := rel.SHA256Hashes[key]; ok {
		return integrity.VerifyFileChecksum(integrity.SHA256, path, entry.Digest, entry.Size)
	}
	if entry, ok := rel.MD5Hashes[key]; ok {
		f.Log.Warning("falling back to using md5 checksum.")
		return integrity.VerifyFileChecksum(integrity.MD5, path, entry.Digest, entry.Size)
	}

	return fmt.Errorf("failed to find checksum for file: %q", path)
}
