package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/debstrap/pkg/pkgdb"
	"github.com/arc-language/debstrap/pkg/pkgfile"
)

func newTestDB() *pkgdb.Database {
	db := pkgdb.New()
	db.Add(pkgfile.Package{Name: "mawk", Priority: "important"})
	db.Add(pkgfile.Package{Name: "apt", Priority: "important"})
	db.Add(pkgfile.Package{Name: "build-essential", Priority: "standard"})
	db.Add(pkgfile.Package{Name: "bash", IsEssential: true, Priority: "required"})
	db.Add(pkgfile.Package{Name: "gcc", IsBuildEssential: true, Priority: "optional"})
	db.Add(pkgfile.Package{Name: "coreutils", IsEssential: true, Priority: "required"})
	db.Add(pkgfile.Package{Name: "vim", Priority: "important"})
	db.Add(pkgfile.Package{Name: "less", Priority: "standard"})
	return db
}

func names(set []pkgfile.Package) []string {
	out := make([]string, len(set))
	for i, p := range set {
		out[i] = p.Name
	}
	return out
}

func TestSeedEssentialIncludesMawk(t *testing.T) {
	db := newTestDB()
	set, err := Seed(db, "essential", nil)
	require.NoError(t, err)
	assert.Contains(t, names(set), "mawk")
	assert.Contains(t, names(set), "bash")
	assert.NotContains(t, names(set), "vim")
}

func TestSeedRequiredIncludesApt(t *testing.T) {
	db := newTestDB()
	set, err := Seed(db, "required", nil)
	require.NoError(t, err)
	assert.Contains(t, names(set), "apt")
	assert.Contains(t, names(set), "bash")
	assert.NotContains(t, names(set), "vim")
}

// Buildd variant pulls in Build-Essential-flagged packages plus the
// build-essential metapackage.
func TestSeedBuilddIncludesBuildEssentialPackages(t *testing.T) {
	db := newTestDB()
	set, err := Seed(db, "buildd", nil)
	require.NoError(t, err)
	assert.Contains(t, names(set), "gcc")
	assert.Contains(t, names(set), "build-essential")
	assert.Contains(t, names(set), "apt")
	assert.Contains(t, names(set), "bash")
}

func TestSeedSkipsMissingExtraPackagesInsteadOfFailing(t *testing.T) {
	db := pkgdb.New()
	db.Add(pkgfile.Package{Name: "bash", IsEssential: true, Priority: "required"})

	set, err := Seed(db, "essential", nil)
	require.NoError(t, err)
	assert.NotContains(t, names(set), "mawk")
	assert.Contains(t, names(set), "bash")

	set, err = Seed(db, "required", nil)
	require.NoError(t, err)
	assert.NotContains(t, names(set), "apt")

	set, err = Seed(db, "buildd", nil)
	require.NoError(t, err)
	assert.NotContains(t, names(set), "apt")
	assert.NotContains(t, names(set), "build-essential")
}

func TestSeedImportantAndStandard(t *testing.T) {
	db := newTestDB()

	important, err := Seed(db, "important", nil)
	require.NoError(t, err)
	assert.Contains(t, names(important), "vim")
	assert.NotContains(t, names(important), "less")

	standard, err := Seed(db, "standard", nil)
	require.NoError(t, err)
	assert.Contains(t, names(standard), "less")
}

func TestSeedCustom(t *testing.T) {
	db := newTestDB()
	set, err := Seed(db, "custom", []string{"bash", "vim"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bash", "vim"}, names(set))
}

func TestSeedCustomMissingPackage(t *testing.T) {
	db := newTestDB()
	_, err := Seed(db, "custom", []string{"ghost"})
	var missing *MissingPackageError
	assert.ErrorAs(t, err, &missing)
	assert.Equal(t, "ghost", missing.Name)
}

func TestSeedUnrecognizedVariant(t *testing.T) {
	db := newTestDB()
	_, err := Seed(db, "bogus", nil)
	assert.Error(t, err)
}

func TestIncludeAndExclude(t *testing.T) {
	db := newTestDB()
	set, err := Seed(db, "essential", nil)
	require.NoError(t, err)

	set, err = Include(db, set, []string{"vim"})
	require.NoError(t, err)
	assert.Contains(t, names(set), "vim")

	set = Exclude(set, []string{"mawk"})
	assert.NotContains(t, names(set), "mawk")
}

func TestIncludeMissingPackage(t *testing.T) {
	db := newTestDB()
	_, err := Include(db, nil, []string{"ghost"})
	var missing *MissingPackageError
	assert.ErrorAs(t, err, &missing)
}

func TestSortDedupe(t *testing.T) {
	set := []pkgfile.Package{
		{Name: "vim", Version: "1"},
		{Name: "bash", Version: "1"},
		{Name: "bash", Version: "1"},
	}
	result := SortDedupe(set)
	assert.Equal(t, []string{"bash", "vim"}, names(result))
}
