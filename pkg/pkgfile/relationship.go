// Package pkgfile parses a single Packages-index stanza into a Package
// record, including the Depends/Recommends/... relationship grammar.
package pkgfile

import "strings"

// Relationship is one alternative in a dependency clause: a name, an
// optional architecture qualifier, and an optional (unenforced) version
// constraint.
type Relationship struct {
	Name         string
	Version      string
	Architecture string
}

// RelationshipField is an ordered sequence of clauses; each clause is an
// ordered sequence of alternatives joined by OR.
type RelationshipField [][]Relationship

// ParseRelationshipField parses a field value such as:
//
//	libc6 (>= 2.36), perl | perl-base
//
// into clauses split on "," and alternatives split on "|", per the grammar:
//
//	field       := clause ("," clause)*
//	clause      := alternative ("|" alternative)*
//	alternative := name [":" arch] [" (" constraint ")"]
func ParseRelationshipField(value string) RelationshipField {
	var field RelationshipField

	for _, clause := range strings.Split(value, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		var alternatives []Relationship
		for _, alt := range strings.Split(clause, "|") {
			alternatives = append(alternatives, parseAlternative(strings.TrimSpace(alt)))
		}
		field = append(field, alternatives)
	}

	return field
}

func parseAlternative(alt string) Relationship {
	alt = strings.TrimSuffix(alt, ")")

	var rel Relationship
	parts := strings.SplitN(alt, " (", 2)

	nameAndArch := strings.TrimSpace(parts[0])
	if idx := strings.Index(nameAndArch, ":"); idx >= 0 {
		rel.Name = nameAndArch[:idx]
		rel.Architecture = nameAndArch[idx+1:]
	} else {
		rel.Name = nameAndArch
	}

	if len(parts) == 2 {
		rel.Version = strings.TrimSpace(parts[1])
	}

	return rel
}

// Names returns the first-entry name of every clause, the set consulted by
// the resolver when walking a package's direct requirements.
func (f RelationshipField) Names() []string {
	names := make([]string, 0, len(f))
	for _, clause := range f {
		if len(clause) == 0 {
			continue
		}
		names = append(names, clause[0].Name)
	}
	return names
}

// FlattenNames returns every alternative's name across every clause, used to
// test whether a package provides a given virtual name.
func (f RelationshipField) FlattenNames() []string {
	var names []string
	for _, clause := range f {
		for _, alt := range clause {
			names = append(names, alt.Name)
		}
	}
	return names
}
