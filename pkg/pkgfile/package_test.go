package pkgfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const bashStanza = `Package: bash
Version: 5.2.15-2
Architecture: amd64
Essential: yes
Priority: required
Section: shells
Depends: base-files (>= 2.1.12), debianutils (>= 2.15)
Pre-Depends: libc6 (>= 2.34)
Provides: sh
Installed-Size: 5000
Filename: pool/main/b/bash/bash_5.2.15-2_amd64.deb
Size: 1500000
Maintainer: Debian Bash Maintainers
Description: GNU Bourne Again SHell
Homepage: https://www.gnu.org/software/bash/`

func TestParsePackage(t *testing.T) {
	pkg := ParsePackage(bashStanza, "bookworm", "main", "amd64", "https://", "deb.debian.org/debian")

	assert.Equal(t, "bash", pkg.Name)
	assert.Equal(t, "5.2.15-2", pkg.Version)
	assert.Equal(t, "amd64", pkg.Architecture)
	assert.True(t, pkg.IsEssential)
	assert.False(t, pkg.IsBuildEssential)
	assert.Equal(t, "required", pkg.Priority)
	assert.Equal(t, "shells", pkg.Section)
	assert.Equal(t, []string{"base-files", "debianutils"}, pkg.Depends.Names())
	assert.Equal(t, []string{"libc6"}, pkg.PreDepends.Names())
	assert.Equal(t, []string{"sh"}, pkg.Provides.Names())
	assert.Equal(t, uint64(5000), pkg.InstalledSize)
	assert.Equal(t, "pool/main/b/bash/bash_5.2.15-2_amd64.deb", pkg.FileName)
	assert.Equal(t, uint64(1500000), pkg.FileSize)
	assert.Equal(t, "GNU Bourne Again SHell", pkg.Description)
	assert.Equal(t, "bookworm", pkg.OriginSuite)
	assert.Equal(t, "main", pkg.OriginComponent)
}

func TestParsePackageDescriptionEmDashNormalized(t *testing.T) {
	stanza := "Package: foo\nDescription: does this — and that\n"
	pkg := ParsePackage(stanza, "", "", "", "", "")
	assert.Equal(t, "does this - and that", pkg.Description)
}

func TestParseStanzas(t *testing.T) {
	content := bashStanza + "\n\nPackage: coreutils\nVersion: 9.1-1\nArchitecture: amd64\n"
	packages := ParseStanzas(content, "bookworm", "main", "amd64", "https://", "deb.debian.org/debian")
	assert.Len(t, packages, 2)
	assert.Equal(t, "bash", packages[0].Name)
	assert.Equal(t, "coreutils", packages[1].Name)
}

func TestPackageLessOrdersByName(t *testing.T) {
	a := Package{Name: "bash", Version: "1"}
	b := Package{Name: "coreutils", Version: "1"}
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestPackageLessFallsBackToVersionThenArchThenFileName(t *testing.T) {
	a := Package{Name: "bash", Version: "1"}
	b := Package{Name: "bash", Version: "2"}
	assert.True(t, a.Less(b))

	c := Package{Name: "bash", Version: "1", Architecture: "amd64"}
	d := Package{Name: "bash", Version: "1", Architecture: "arm64"}
	assert.True(t, c.Less(d))

	e := Package{Name: "bash", Version: "1", Architecture: "amd64", FileName: "a.deb"}
	f := Package{Name: "bash", Version: "1", Architecture: "amd64", FileName: "b.deb"}
	assert.True(t, e.Less(f))
}

func TestPackageEqual(t *testing.T) {
	a := Package{Name: "bash", Version: "1", Architecture: "amd64", FileName: "x.deb"}
	b := Package{Name: "bash", Version: "1", Architecture: "amd64", FileName: "x.deb"}
	c := Package{Name: "bash", Version: "1", Architecture: "amd64", FileName: "y.deb"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
