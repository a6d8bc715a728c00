package sources

import (
	"fmt"
	"strings"

	"github.com/arc-language/debstrap/pkg/suite"
)

// SignedByKeyring looks up the keyring path a deb822-style sources stanza
// should reference for a given suite, falling back to the Debian keyring
// for anything not recognised as Ubuntu.
func SignedByKeyring(s string) string {
	if suite.IsUbuntu(s) {
		return "ubuntu-archive-keyring.gpg"
	}
	return "debian-archive-keyring.gpg"
}

// EmitDeb822 renders the sources.sources file contents for a list of
// entries, one "Types/URIs/Suites/Components/Signed-By" stanza per entry.
func EmitDeb822(entries []Entry, signedBy string) string {
	var b strings.Builder

	for i, e := range entries {
		if i != 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Types: deb deb-src\nURIs: %s\nSuites: %s\nComponents: %s\nSigned-By: /usr/share/keyrings/%s\n",
			Join(e.URIs, " "), strings.Join(e.Suites, " "), strings.Join(e.Components, " "), signedBy)
	}

	return b.String()
}

// EmitOneLineStyle renders the sources.list file contents: for each entry,
// URI and suite, a deb-src line followed by a deb line.
func EmitOneLineStyle(entries []Entry) string {
	var b strings.Builder

	for entryIdx, e := range entries {
		if entryIdx != 0 {
			b.WriteString("\n")
		}
		components := strings.Join(e.Components, " ")

		for uriIdx, u := range e.URIs {
			if uriIdx != 0 {
				b.WriteString("\n")
			}
			for suiteIdx, s := range e.Suites {
				if suiteIdx != 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "deb-src %s %s %s\ndeb %s %s %s\n", u, s, components, u, s, components)
			}
		}
	}

	return b.String()
}

// Emit renders a sources list in the given dialect ("deb822-style" or
// "one-line-style") along with the conventional file name it belongs in.
func Emit(entries []Entry, format, signedBy string) (fileName, content string) {
	if format == "one-line-style" {
		return "sources.list", EmitOneLineStyle(entries)
	}
	return "sources.sources", EmitDeb822(entries, signedBy)
}
