// Package variant derives the initial seed package set for a bootstrap run
// from a variant label (essential/required/buildd/important/standard/custom).
package variant

import (
	"fmt"
	"sort"

	"github.com/arc-language/debstrap/pkg/pkgdb"
	"github.com/arc-language/debstrap/pkg/pkgfile"
)

// MissingPackageError reports that a named package does not exist in the
// database, raised by the custom variant and by Include.
type MissingPackageError struct {
	Name string
}

func (e *MissingPackageError) Error() string {
	return fmt.Sprintf("missing package: %q", e.Name)
}

func priorityAtLeast(priority string, levels ...string) bool {
	for _, level := range levels {
		if priority == level {
			return true
		}
	}
	return false
}

// Seed builds the initial package set for a variant label.
func Seed(db *pkgdb.Database, label string, custom []string) ([]pkgfile.Package, error) {
	switch label {
	case "essential":
		return withExtra(db, essentialOnly(db), "mawk"), nil
	case "required":
		set := essentialOrPriority(db, "required")
		return withExtra(db, set, "apt"), nil
	case "buildd":
		set := essentialOrPriority(db, "required")
		for _, p := range db.All() {
			if p.IsBuildEssential {
				set = append(set, p)
			}
		}
		return withExtra(db, set, "apt", "build-essential"), nil
	case "important":
		return essentialOrPriority(db, "required", "important"), nil
	case "standard":
		return essentialOrPriority(db, "required", "important", "standard"), nil
	case "custom":
		return resolveCustom(db, custom)
	default:
		return nil, fmt.Errorf("unrecognized variant: %q", label)
	}
}

func essentialOnly(db *pkgdb.Database) []pkgfile.Package {
	var set []pkgfile.Package
	for _, p := range db.All() {
		if p.IsEssential {
			set = append(set, p)
		}
	}
	return set
}

func essentialOrPriority(db *pkgdb.Database, priorities ...string) []pkgfile.Package {
	var set []pkgfile.Package
	for _, p := range db.All() {
		if p.IsEssential || priorityAtLeast(p.Priority, priorities...) {
			set = append(set, p)
		}
	}
	return set
}

// withExtra adds each named extra package to set when present in db,
// silently skipping any that aren't found.
func withExtra(db *pkgdb.Database, set []pkgfile.Package, extras ...string) []pkgfile.Package {
	for _, extra := range extras {
		if pkg, ok := db.First(extra); ok {
			set = append(set, pkg)
		}
	}
	return set
}

func resolveCustom(db *pkgdb.Database, names []string) ([]pkgfile.Package, error) {
	set := make([]pkgfile.Package, 0, len(names))
	for _, name := range names {
		pkg, ok := db.First(name)
		if !ok {
			return nil, &MissingPackageError{Name: name}
		}
		set = append(set, pkg)
	}
	return set, nil
}

// Include appends packages named in include to set, failing if any is
// absent from the database.
func Include(db *pkgdb.Database, set []pkgfile.Package, include []string) ([]pkgfile.Package, error) {
	for _, name := range include {
		pkg, ok := db.First(name)
		if !ok {
			return nil, &MissingPackageError{Name: name}
		}
		set = append(set, pkg)
	}
	return set, nil
}

// Exclude drops packages named in exclude from set by name.
func Exclude(set []pkgfile.Package, exclude []string) []pkgfile.Package {
	if len(exclude) == 0 {
		return set
	}

	excluded := map[string]bool{}
	for _, name := range exclude {
		excluded[name] = true
	}

	out := set[:0]
	for _, p := range set {
		if !excluded[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// SortDedupe sorts set under the Package total order and removes
// duplicates, the final step before freezing the seed set.
func SortDedupe(set []pkgfile.Package) []pkgfile.Package {
	sort.Slice(set, func(i, j int) bool { return set[i].Less(set[j]) })

	out := set[:0]
	for i, p := range set {
		if i > 0 && p.Equal(set[i-1]) {
			continue
		}
		out = append(out, p)
	}
	return out
}
