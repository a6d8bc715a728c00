package bootstrap

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/debstrap/pkg/pkgfile"
	"github.com/arc-language/debstrap/pkg/sources"
)

func TestPreInstallWiresAllSteps(t *testing.T) {
	target := t.TempDir()
	closure := []pkgfile.Package{{Name: "bash"}}

	opts := Options{Suite: "bookworm", Architectures: []string{"amd64"}, SignedByKeyring: "debian-archive-keyring.gpg"}
	require.NoError(t, preInstall(target, closure, nil, opts, false))

	_, err := os.Stat(filepath.Join(target, "var/lib/dpkg/status"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(target, "etc/fstab"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(target, "usr/sbin/policy-rc.d"))
	assert.NoError(t, err)

	link, err := os.Readlink(filepath.Join(target, "bin/sh"))
	require.NoError(t, err)
	assert.Equal(t, "bash", link)
}

func TestPreInstallEmitsSourcesListWhenAptInClosure(t *testing.T) {
	target := t.TempDir()
	closure := []pkgfile.Package{{Name: "apt"}}
	entries := []sources.Entry{{
		URIs:       []sources.URI{{Scheme: "https://", Path: "deb.debian.org/debian"}},
		Suites:     []string{"bookworm"},
		Components: []string{"main"},
	}}

	opts := Options{Suite: "bookworm", Architectures: []string{"amd64"}, SignedByKeyring: "debian-archive-keyring.gpg"}
	require.NoError(t, preInstall(target, closure, entries, opts, false))

	_, err := os.Stat(filepath.Join(target, "etc/apt/sources.list.d/sources.sources"))
	assert.NoError(t, err)
}

func TestPreInstallMarksUnsupportedSplitUsrWhenRequestedOnUnsupportedSuite(t *testing.T) {
	target := t.TempDir()
	closure := []pkgfile.Package{{Name: "bash"}}

	opts := Options{Suite: "trixie", Architectures: []string{"amd64"}, SignedByKeyring: "debian-archive-keyring.gpg"}
	require.NoError(t, preInstall(target, closure, nil, opts, true))

	_, err := os.Stat(filepath.Join(target, "etc/unsupported-skip-usrmerge-conversion"))
	assert.NoError(t, err)
}

func TestFinalizeDirectoryFormatLeavesDirectoryInPlace(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, finalize(target, Options{OutputFormat: "directory"}))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFinalizeTarballFormatWritesTarball(t *testing.T) {
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "file.txt"), []byte("hello"), 0644))

	destPath := filepath.Join(t.TempDir(), "out.tar")
	require.NoError(t, finalize(target, Options{OutputFormat: "tarball", OutputPath: destPath}))

	f, err := os.Open(destPath)
	require.NoError(t, err)
	defer f.Close()

	tr := tar.NewReader(f)
	header, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "file.txt", header.Name)

	data, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDefaultTarballNameFormat(t *testing.T) {
	name := defaultTarballName(Options{Suite: "bookworm", Variant: "standard"})
	assert.Regexp(t, `^bookworm_standard_\d{4}y-\d{2}m-\d{2}d\.tar$`, name)
}
