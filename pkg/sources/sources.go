// Package sources builds and validates the repository descriptors a
// bootstrap run fetches indices from.
package sources

import (
	"fmt"
	"strings"

	"github.com/arc-language/debstrap/pkg/rfc822"
	"github.com/arc-language/debstrap/pkg/suite"
)

// URI is a parsed (scheme, path) pair.
type URI struct {
	Scheme string
	Path   string
}

func (u URI) String() string { return u.Scheme + u.Path }

// Entry is one repository descriptor: a cross-product of URIs, suites,
// components and architectures.
type Entry struct {
	URIs          []URI
	Suites        []string
	Components    []string
	Architectures []string
}

func dedupe(values []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func parseURIs(raw []string) ([]URI, error) {
	uris := make([]URI, 0, len(raw))
	for _, r := range raw {
		scheme, path, ok := suite.ParseURI(r)
		if !ok {
			return nil, fmt.Errorf("invalid URI: %q", r)
		}
		uris = append(uris, URI{Scheme: scheme, Path: path})
	}
	return uris, nil
}

func validateSuites(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("no suite(s) were provided")
	}
	if !suite.IsPrimarySuite(raw[0]) {
		return nil, fmt.Errorf("unrecognized suite: %q", raw[0])
	}
	return dedupe(raw), nil
}

func validateComponents(raw []string) ([]string, error) {
	if len(raw) == 0 {
		raw = []string{"main"}
	}
	if raw[0] != "main" {
		return nil, fmt.Errorf("invalid first component: %q", raw[0])
	}
	return dedupe(raw), nil
}

// FromFile parses a deb822-style ".sources" file into a list of Entry
// values, one per blank-line-separated record. Components default to
// "main"; a record without an Architectures field is rejected rather than
// defaulted to the host machine.
func FromFile(content string) ([]Entry, error) {
	var entries []Entry

	for _, stanza := range rfc822.SplitStanzas(content) {
		rawURIs := rfc822.FieldList(stanza, "URIs")
		if len(rawURIs) == 0 {
			return nil, fmt.Errorf("no URI(s) were provided")
		}
		uris, err := parseURIs(rawURIs)
		if err != nil {
			return nil, err
		}

		suites, err := validateSuites(rfc822.FieldList(stanza, "Suites"))
		if err != nil {
			return nil, err
		}

		components, err := validateComponents(rfc822.FieldList(stanza, "Components"))
		if err != nil {
			return nil, err
		}

		rawArches := rfc822.FieldList(stanza, "Architectures")
		if len(rawArches) == 0 {
			return nil, fmt.Errorf("no architecture(s) were provided")
		}
		architectures, err := translateArchitectures(rawArches)
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{
			URIs:          uris,
			Suites:        suites,
			Components:    components,
			Architectures: architectures,
		})
	}

	return entries, nil
}

// FromFlags builds a single Entry from CLI-equivalent inputs: components
// default to "main" (as in FromFile), architectures default to hostMachine
// (FromFile has no such default), and URIs default per the suite registry's
// default mirror for the first suite/architecture.
func FromFlags(uris, suites, components, architectures []string, hostMachine string) (Entry, error) {
	parsedSuites, err := validateSuites(suites)
	if err != nil {
		return Entry{}, err
	}

	parsedComponents, err := validateComponents(components)
	if err != nil {
		return Entry{}, err
	}

	if len(architectures) == 0 {
		architectures = []string{hostMachine}
	}
	parsedArchitectures, err := translateArchitectures(architectures)
	if err != nil {
		return Entry{}, err
	}

	if len(uris) == 0 {
		uris = suite.DefaultMirrors(parsedSuites[0], parsedArchitectures[0])
	}
	parsedURIs, err := parseURIs(uris)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		URIs:          parsedURIs,
		Suites:        parsedSuites,
		Components:    parsedComponents,
		Architectures: parsedArchitectures,
	}, nil
}

func translateArchitectures(raw []string) ([]string, error) {
	translated := make([]string, 0, len(raw))
	seen := map[string]bool{}

	for _, a := range raw {
		name, ok := suite.GetDebianArchitectureName(a)
		if !ok {
			// Already a Debian-form architecture token (amd64, arm64, ...).
			name = a
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		translated = append(translated, name)
	}

	return translated, nil
}

// ExpandHostArchitectures expands the special "host" architecture token
// into the host machine name plus every architecture natively executable on
// it, preserving any additional user-supplied architectures listed after it.
func ExpandHostArchitectures(raw []string, hostMachine string, nativelyExecutable []string) []string {
	expanded := make([]string, 0, len(raw)+len(nativelyExecutable))

	for _, a := range raw {
		if a != "host" {
			expanded = append(expanded, a)
			continue
		}
		expanded = append(expanded, hostMachine)
		expanded = append(expanded, nativelyExecutable...)
	}

	return expanded
}

// Join renders a stanza's URIs back into "scheme+path" strings, used when
// emitting sources.sources / sources.list.
func Join(uris []URI, sep string) string {
	parts := make([]string, len(uris))
	for i, u := range uris {
		parts[i] = u.String()
	}
	return strings.Join(parts, sep)
}
