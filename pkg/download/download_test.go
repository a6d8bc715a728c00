package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/debstrap/pkg/pkgfile"
	"github.com/arc-language/debstrap/pkg/transport"
)

func TestDownloadAll(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debian/pool/main/b/bash/bash_5.2.15-2_amd64.deb", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("deb contents"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := t.TempDir()
	d := &Downloader{Client: transport.New(5 * time.Second), Dir: dir}

	closure := []pkgfile.Package{{
		Name:            "bash",
		FileName:        "pool/main/b/bash/bash_5.2.15-2_amd64.deb",
		OriginURIScheme: "http://",
		OriginURIPath:   server.Listener.Addr().String() + "/debian",
	}}

	require.NoError(t, d.DownloadAll(context.Background(), closure))

	data, err := os.ReadFile(filepath.Join(dir, "bash_5.2.15-2_amd64.deb"))
	require.NoError(t, err)
	assert.Equal(t, "deb contents", string(data))
}

func TestDownloadAllFailsOnMissingFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debian/pool/main/b/bash/bash_5.2.15-2_amd64.deb", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	d := &Downloader{Client: transport.New(5 * time.Second), Dir: t.TempDir()}

	closure := []pkgfile.Package{{
		Name:            "bash",
		FileName:        "pool/main/b/bash/bash_5.2.15-2_amd64.deb",
		OriginURIScheme: "http://",
		OriginURIPath:   server.Listener.Addr().String() + "/debian",
	}}

	err := d.DownloadAll(context.Background(), closure)
	assert.Error(t, err)
}

func TestDownloadAllCreatesDirectory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/pkg.deb", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	d := &Downloader{Client: transport.New(5 * time.Second), Dir: dir}

	closure := []pkgfile.Package{{
		Name:            "x",
		FileName:        "pkg.deb",
		OriginURIScheme: "http://",
		OriginURIPath:   server.Listener.Addr().String(),
	}}

	require.NoError(t, d.DownloadAll(context.Background(), closure))
	_, err := os.Stat(dir)
	assert.NoError(t, err)
}
