// Package resolve computes the transitive dependency closure of a seed
// package set against a package database.
package resolve

import (
	"fmt"
	"sort"

	"github.com/arc-language/debstrap/pkg/pkgdb"
	"github.com/arc-language/debstrap/pkg/pkgfile"
)

// UnresolvableError reports a requirement that could not be satisfied by
// any database entry or provider.
type UnresolvableError struct {
	Name string
}

func (e *UnresolvableError) Error() string {
	return fmt.Sprintf("failed to find package: %q", e.Name)
}

type provider struct {
	pkg      pkgfile.Package
	provides []string
}

func buildProvidersIndex(db *pkgdb.Database) []provider {
	var providers []provider

	for _, name := range db.Names() {
		pkg, _ := db.First(name)
		if len(pkg.Provides) == 0 {
			continue
		}
		providers = append(providers, provider{pkg: pkg, provides: pkg.Provides.Names()})
	}

	sort.Slice(providers, func(i, j int) bool {
		if providers[i].pkg.Equal(providers[j].pkg) {
			return false
		}
		return providers[i].pkg.Less(providers[j].pkg)
	})
	providers = dedupeProviders(providers)

	return providers
}

func dedupeProviders(in []provider) []provider {
	out := in[:0]
	for i, p := range in {
		if i > 0 && p.pkg.Equal(in[i-1].pkg) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortDedupe(packages []pkgfile.Package) []pkgfile.Package {
	sort.Slice(packages, func(i, j int) bool { return packages[i].Less(packages[j]) })

	out := packages[:0]
	for i, p := range packages {
		if i > 0 && p.Equal(packages[i-1]) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func contains(packages []pkgfile.Package, p pkgfile.Package) bool {
	for _, existing := range packages {
		if existing.Equal(p) {
			return true
		}
	}
	return false
}

func removeProhibited(packages []pkgfile.Package, prohibit []string) []pkgfile.Package {
	if len(prohibit) == 0 {
		return packages
	}

	prohibited := map[string]bool{}
	for _, name := range prohibit {
		prohibited[name] = true
	}

	out := make([]pkgfile.Package, 0, len(packages))
	for _, p := range packages {
		if !prohibited[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// Resolve computes the closure of seed under Depends, Pre-Depends, and
// (when considerRecommends) Recommends, consulting db and a Provides-backed
// providers index, honouring prohibit. Mirrors the frontier/accumulator
// algorithm: each iteration strips prohibited packages, sort-dedupes the
// frontier into the closure, then expands to the next frontier.
func Resolve(db *pkgdb.Database, seed []pkgfile.Package, considerRecommends bool, prohibit []string) ([]pkgfile.Package, error) {
	providers := buildProvidersIndex(db)

	frontier := append([]pkgfile.Package(nil), seed...)
	var closure []pkgfile.Package

	for len(frontier) > 0 {
		frontier = removeProhibited(frontier, prohibit)
		frontier = sortDedupe(frontier)

		closure = append(closure, frontier...)
		closure = sortDedupe(closure)

		var next []pkgfile.Package

		for _, current := range frontier {
			var missing []string

			fields := []pkgfile.RelationshipField{current.Depends, current.PreDepends}
			if considerRecommends {
				fields = append(fields, current.Recommends)
			}

			for _, field := range fields {
				for _, name := range field.Names() {
					if candidate, ok := db.First(name); ok {
						next = append(next, candidate)
					} else {
						missing = append(missing, name)
					}
				}
			}

			for _, name := range missing {
				resolved, err := resolveProvider(name, providers, closure)
				if err != nil {
					return nil, err
				}
				next = append(next, resolved)
			}
		}

		next = sortDedupe(next)

		frontier = frontier[:0]
		for _, candidate := range next {
			if !contains(closure, candidate) {
				frontier = append(frontier, candidate)
			}
		}
	}

	if len(closure) == 0 {
		return nil, fmt.Errorf("failed to resolve dependencies")
	}

	return closure, nil
}

// resolveProvider implements the virtual-package tie-break: prefer a
// provider already present in the closure; otherwise the first provider in
// sorted order.
func resolveProvider(name string, providers []provider, closure []pkgfile.Package) (pkgfile.Package, error) {
	for _, p := range providers {
		if providesName(p, name) && contains(closure, p.pkg) {
			return p.pkg, nil
		}
	}

	for _, p := range providers {
		if providesName(p, name) {
			return p.pkg, nil
		}
	}

	return pkgfile.Package{}, &UnresolvableError{Name: name}
}

func providesName(p provider, name string) bool {
	for _, provided := range p.provides {
		if provided == name {
			return true
		}
	}
	return false
}
