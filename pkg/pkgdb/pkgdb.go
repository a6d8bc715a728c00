// Package pkgdb is the in-memory mapping from package name to the ordered
// list of candidate Package records ingested for it.
package pkgdb

import "github.com/arc-language/debstrap/pkg/pkgfile"

// Database maps a package name to every candidate parsed for it, in
// ingestion order.
type Database struct {
	byName map[string][]pkgfile.Package
}

// New returns an empty database.
func New() *Database {
	return &Database{byName: make(map[string][]pkgfile.Package)}
}

// Add appends a package to its name's candidate list.
func (d *Database) Add(pkg pkgfile.Package) {
	d.byName[pkg.Name] = append(d.byName[pkg.Name], pkg)
}

// AddStanzas parses and adds every stanza of a Packages-index file.
func (d *Database) AddStanzas(content, originSuite, originComponent, originArchitecture, originURIScheme, originURIPath string) {
	for _, pkg := range pkgfile.ParseStanzas(content, originSuite, originComponent, originArchitecture, originURIScheme, originURIPath) {
		d.Add(pkg)
	}
}

// Get returns the candidate list for name, or nil if absent.
func (d *Database) Get(name string) []pkgfile.Package {
	return d.byName[name]
}

// First returns the first-ingested candidate for name; callers use this
// everywhere a single Package is needed, per the "first candidate wins"
// convention (see DESIGN.md's open-question note on candidate selection).
func (d *Database) First(name string) (pkgfile.Package, bool) {
	candidates := d.byName[name]
	if len(candidates) == 0 {
		return pkgfile.Package{}, false
	}
	return candidates[0], true
}

// Has reports whether name is a key in the database.
func (d *Database) Has(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// Names returns every package name currently in the database. Order is
// unspecified; callers that need determinism sort the result.
func (d *Database) Names() []string {
	names := make([]string, 0, len(d.byName))
	for name := range d.byName {
		names = append(names, name)
	}
	return names
}

// All returns every first-ranked candidate in the database.
func (d *Database) All() []pkgfile.Package {
	out := make([]pkgfile.Package, 0, len(d.byName))
	for _, candidates := range d.byName {
		out = append(out, candidates[0])
	}
	return out
}

// Len reports the number of distinct package names in the database.
func (d *Database) Len() int {
	return len(d.byName)
}
