package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseURIHTTP(t *testing.T) {
	scheme, path, ok := ParseURI("http://deb.debian.org/debian")
	assert.True(t, ok)
	assert.Equal(t, "http://", scheme)
	assert.Equal(t, "deb.debian.org/debian", path)
}

func TestParseURIHTTPS(t *testing.T) {
	scheme, path, ok := ParseURI("https://deb.debian.org/debian/")
	assert.True(t, ok)
	assert.Equal(t, "https://", scheme)
	assert.Equal(t, "deb.debian.org/debian", path)
}

func TestParseURICollapsesRepeatedSlashes(t *testing.T) {
	_, path, ok := ParseURI("https://deb.debian.org//debian//pool")
	assert.True(t, ok)
	assert.Equal(t, "deb.debian.org/debian/pool", path)
}

func TestParseURIRejectsOtherSchemes(t *testing.T) {
	_, _, ok := ParseURI("ftp://deb.debian.org/debian")
	assert.False(t, ok)
}

func TestGetDebianArchitectureName(t *testing.T) {
	name, ok := GetDebianArchitectureName("x86_64")
	assert.True(t, ok)
	assert.Equal(t, "amd64", name)

	name, ok = GetDebianArchitectureName("aarch64")
	assert.True(t, ok)
	assert.Equal(t, "arm64", name)

	_, ok = GetDebianArchitectureName("amd64")
	assert.True(t, ok, "already-Debian-form names should still resolve")

	_, ok = GetDebianArchitectureName("not-a-machine")
	assert.False(t, ok)
}
