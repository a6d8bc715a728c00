package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/debstrap/pkg/pkgdb"
	"github.com/arc-language/debstrap/pkg/pkgfile"
)

func names(packages []pkgfile.Package) []string {
	out := make([]string, len(packages))
	for i, p := range packages {
		out[i] = p.Name
	}
	return out
}

// Simple direct dependency pulls in a single additional package.
func TestResolveSimpleDependency(t *testing.T) {
	db := pkgdb.New()
	db.Add(pkgfile.Package{Name: "bash", Depends: pkgfile.ParseRelationshipField("libc6")})
	db.Add(pkgfile.Package{Name: "libc6"})

	seed := []pkgfile.Package{{Name: "bash", Depends: pkgfile.ParseRelationshipField("libc6")}}

	closure, err := Resolve(db, seed, false, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bash", "libc6"}, names(closure))
}

// A virtual package (Provides) satisfies a dependency with no
// Same-named database entry.
func TestResolveVirtualPackage(t *testing.T) {
	db := pkgdb.New()
	mailx := pkgfile.Package{Name: "bsd-mailx", Provides: pkgfile.ParseRelationshipField("mail-transport-agent")}
	db.Add(mailx)

	seed := []pkgfile.Package{{Name: "app", Depends: pkgfile.ParseRelationshipField("mail-transport-agent")}}

	closure, err := Resolve(db, seed, false, nil)
	require.NoError(t, err)
	assert.Contains(t, names(closure), "bsd-mailx")
}

// When a provider is already present in the closure, it is
// Preferred over any other provider of the same virtual name.
func TestResolveVirtualPackagePrefersClosureMember(t *testing.T) {
	db := pkgdb.New()
	db.Add(pkgfile.Package{Name: "exim4", Provides: pkgfile.ParseRelationshipField("mail-transport-agent")})
	db.Add(pkgfile.Package{Name: "bsd-mailx", Provides: pkgfile.ParseRelationshipField("mail-transport-agent")})

	seed := []pkgfile.Package{
		{Name: "exim4", Provides: pkgfile.ParseRelationshipField("mail-transport-agent")},
		{Name: "app", Depends: pkgfile.ParseRelationshipField("mail-transport-agent")},
	}

	closure, err := Resolve(db, seed, false, nil)
	require.NoError(t, err)
	assert.Contains(t, names(closure), "exim4")
	assert.NotContains(t, names(closure), "bsd-mailx")
}

// Alternative-clause fallback limitation. The resolver only
// Consults the first alternative in a clause; if it is absent entirely
// (not just unsatisfiable-by-provider), resolution fails rather than
// Falling through to the next alternative.
func TestResolveOnlyTriesFirstAlternative(t *testing.T) {
	db := pkgdb.New()
	db.Add(pkgfile.Package{Name: "perl-base"})

	seed := []pkgfile.Package{{Name: "app", Depends: pkgfile.ParseRelationshipField("perl | perl-base")}}

	_, err := Resolve(db, seed, false, nil)
	assert.Error(t, err)

	var unresolvable *UnresolvableError
	assert.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "perl", unresolvable.Name)
}

// A prohibited package is stripped from the frontier even when
// It would otherwise be pulled in by a dependency.
func TestResolveProhibition(t *testing.T) {
	db := pkgdb.New()
	db.Add(pkgfile.Package{Name: "recommended-tool"})

	seed := []pkgfile.Package{
		{Name: "app", Depends: pkgfile.ParseRelationshipField("recommended-tool")},
		{Name: "recommended-tool"},
	}

	closure, err := Resolve(db, seed, false, []string{"recommended-tool"})
	require.NoError(t, err)
	assert.NotContains(t, names(closure), "recommended-tool")
	assert.Contains(t, names(closure), "app")
}

func TestResolveConsidersRecommendsOnlyWhenEnabled(t *testing.T) {
	db := pkgdb.New()
	db.Add(pkgfile.Package{Name: "nice-to-have"})

	seed := []pkgfile.Package{{Name: "app", Recommends: pkgfile.ParseRelationshipField("nice-to-have")}}

	closure, err := Resolve(db, seed, false, nil)
	require.NoError(t, err)
	assert.NotContains(t, names(closure), "nice-to-have")

	closure, err = Resolve(db, seed, true, nil)
	require.NoError(t, err)
	assert.Contains(t, names(closure), "nice-to-have")
}

func TestResolveMissingDependencyIsUnresolvable(t *testing.T) {
	db := pkgdb.New()
	seed := []pkgfile.Package{{Name: "app", Depends: pkgfile.ParseRelationshipField("ghost-package")}}

	_, err := Resolve(db, seed, false, nil)
	var unresolvable *UnresolvableError
	assert.ErrorAs(t, err, &unresolvable)
	assert.Equal(t, "ghost-package", unresolvable.Name)
}

func TestResolveDedupesClosure(t *testing.T) {
	db := pkgdb.New()
	libc := pkgfile.Package{Name: "libc6"}
	db.Add(libc)

	seed := []pkgfile.Package{
		{Name: "bash", Depends: pkgfile.ParseRelationshipField("libc6")},
		{Name: "coreutils", Depends: pkgfile.ParseRelationshipField("libc6")},
	}

	closure, err := Resolve(db, seed, false, nil)
	require.NoError(t, err)

	count := 0
	for _, p := range closure {
		if p.Name == "libc6" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
