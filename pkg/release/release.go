// Package release parses a Debian archive Release file.
package release

import "github.com/arc-language/debstrap/pkg/rfc822"

// Release is the parsed summary of a single Release file.
type Release struct {
	Origin      string
	Label       string
	Version     string
	Suite       string
	CodeName    string
	Date        string
	ValidUntil  string
	Description string

	Architectures []string
	Components    []string

	SHA256Hashes map[string]rfc822.HashEntry
	MD5Hashes    map[string]rfc822.HashEntry
}

// Parse parses the single stanza that makes up a Release file.
func Parse(content string) Release {
	stanzas := rfc822.SplitStanzas(content)
	stanza := ""
	if len(stanzas) > 0 {
		stanza = stanzas[0]
	}

	r := Release{
		Architectures: rfc822.FieldList(stanza, "Architectures"),
		Components:    rfc822.FieldList(stanza, "Components"),
		SHA256Hashes:  rfc822.HashBlock(stanza, "SHA256:"),
		MD5Hashes:     rfc822.HashBlock(stanza, "MD5Sum:"),
	}

	r.Origin, _ = rfc822.Field(stanza, "Origin")
	r.Label, _ = rfc822.Field(stanza, "Label")
	r.Version, _ = rfc822.Field(stanza, "Version")
	r.Suite, _ = rfc822.Field(stanza, "Suite")
	r.CodeName, _ = rfc822.Field(stanza, "Codename")
	r.Date, _ = rfc822.Field(stanza, "Date")
	r.ValidUntil, _ = rfc822.Field(stanza, "Valid-Until")
	r.Description, _ = rfc822.Field(stanza, "Description")

	return r
}

// IndexKey builds the relative path Release's hash tables key index files
// under: "<component>/binary-<architecture>/Packages".
func IndexKey(component, architecture string) string {
	return component + "/binary-" + architecture + "/Packages"
}
