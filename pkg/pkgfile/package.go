package pkgfile

import (
	"strconv"
	"strings"

	"github.com/arc-language/debstrap/pkg/rfc822"
)

// Package is a candidate binary package parsed from a Packages-index
// stanza, carrying the repository coordinates it was read from.
type Package struct {
	Name         string
	Version      string
	Architecture string

	Section  string
	Priority string

	Depends       RelationshipField
	PreDepends    RelationshipField
	Recommends    RelationshipField
	Suggests      RelationshipField
	Enhances      RelationshipField
	Breaks        RelationshipField
	Conflicts     RelationshipField
	Provides      RelationshipField
	Replaces      RelationshipField

	IsEssential      bool
	IsBuildEssential bool

	FileName      string
	FileSize      uint64
	InstalledSize uint64

	Maintainer  string
	Description string
	Homepage    string

	OriginSuite        string
	OriginComponent    string
	OriginArchitecture string
	OriginURIScheme    string
	OriginURIPath      string
}

// Less implements the ordering used for sort-and-dedup throughout the
// resolver: by Name, then Version, then Architecture, then FileName. No other
// field is compared, so packages that differ only elsewhere sort as equal.
func (p Package) Less(other Package) bool {
	if p.Name != other.Name {
		return p.Name < other.Name
	}
	if p.Version != other.Version {
		return p.Version < other.Version
	}
	if p.Architecture != other.Architecture {
		return p.Architecture < other.Architecture
	}
	return p.FileName < other.FileName
}

// Equal reports whether two packages are identical under the same ordering.
func (p Package) Equal(other Package) bool {
	return p.Name == other.Name && p.Version == other.Version &&
		p.Architecture == other.Architecture && p.FileName == other.FileName
}

// ParsePackage parses a single Packages-index stanza, attaching the origin
// coordinates it was fetched from.
func ParsePackage(stanza, originSuite, originComponent, originArchitecture, originURIScheme, originURIPath string) Package {
	pkg := Package{
		OriginSuite:        originSuite,
		OriginComponent:    originComponent,
		OriginArchitecture: originArchitecture,
		OriginURIScheme:    originURIScheme,
		OriginURIPath:      originURIPath,
	}

	for _, line := range strings.Split(stanza, "\n") {
		switch {
		case line == "Essential: yes":
			pkg.IsEssential = true
		case line == "Build-Essential: yes":
			pkg.IsBuildEssential = true
		case hasField(line, "Package"):
			pkg.Name = fieldValue(line, "Package")
		case hasField(line, "Version"):
			pkg.Version = fieldValue(line, "Version")
		case hasField(line, "Architecture"):
			pkg.Architecture = fieldValue(line, "Architecture")
		case hasField(line, "Section"):
			pkg.Section = fieldValue(line, "Section")
		case hasField(line, "Priority"):
			pkg.Priority = fieldValue(line, "Priority")
		case hasField(line, "Depends"):
			pkg.Depends = ParseRelationshipField(fieldValue(line, "Depends"))
		case hasField(line, "Pre-Depends"):
			pkg.PreDepends = ParseRelationshipField(fieldValue(line, "Pre-Depends"))
		case hasField(line, "Recommends"):
			pkg.Recommends = ParseRelationshipField(fieldValue(line, "Recommends"))
		case hasField(line, "Suggests"):
			pkg.Suggests = ParseRelationshipField(fieldValue(line, "Suggests"))
		case hasField(line, "Enhances"):
			pkg.Enhances = ParseRelationshipField(fieldValue(line, "Enhances"))
		case hasField(line, "Breaks"):
			pkg.Breaks = ParseRelationshipField(fieldValue(line, "Breaks"))
		case hasField(line, "Conflicts"):
			pkg.Conflicts = ParseRelationshipField(fieldValue(line, "Conflicts"))
		case hasField(line, "Provides"):
			pkg.Provides = ParseRelationshipField(fieldValue(line, "Provides"))
		case hasField(line, "Replaces"):
			pkg.Replaces = ParseRelationshipField(fieldValue(line, "Replaces"))
		case hasField(line, "Filename"):
			pkg.FileName = fieldValue(line, "Filename")
		case hasField(line, "Size"):
			pkg.FileSize, _ = strconv.ParseUint(fieldValue(line, "Size"), 10, 64)
		case hasField(line, "Installed-Size"):
			pkg.InstalledSize, _ = strconv.ParseUint(fieldValue(line, "Installed-Size"), 10, 64)
		case hasField(line, "Maintainer"):
			pkg.Maintainer = fieldValue(line, "Maintainer")
		case hasField(line, "Description"):
			pkg.Description = strings.ReplaceAll(fieldValue(line, "Description"), "—", "-")
		case hasField(line, "Homepage"):
			pkg.Homepage = fieldValue(line, "Homepage")
		}
	}

	return pkg
}

// ParseStanzas splits a Packages-index file and parses every stanza.
func ParseStanzas(content, originSuite, originComponent, originArchitecture, originURIScheme, originURIPath string) []Package {
	stanzas := rfc822.SplitStanzas(content)
	packages := make([]Package, 0, len(stanzas))
	for _, stanza := range stanzas {
		packages = append(packages, ParsePackage(stanza, originSuite, originComponent, originArchitecture, originURIScheme, originURIPath))
	}
	return packages
}

func hasField(line, key string) bool {
	return strings.HasPrefix(line, key+": ")
}

func fieldValue(line, key string) string {
	return strings.TrimPrefix(line, key+": ")
}
