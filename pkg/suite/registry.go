// Package suite is the static registry of Debian and Ubuntu suites: their
// default mirrors, merged-/usr policy, and sources-list dialect.
package suite

// Debian suite lists.
var (
	DebianCurrentSuites = []string{
		"unstable", "testing", "stable", "oldstable", "oldoldstable",
		"sid", "trixie", "bookworm", "bullseye", "buster",
	}
	DebianObsoleteSuites = []string{"stretch", "jessie"}
)

const (
	DebianCurrentMirror  = "https://deb.debian.org/debian"
	DebianPortsMirror    = "https://deb.debian.org/debian-ports"
	DebianObsoleteMirror = "http://archive.debian.org/debian"
)

// Ubuntu suite lists.
var (
	UbuntuCurrentSuites = []string{
		"devel", "noble", "mantic", "lunar", "jammy", "focal", "bionic", "xenial", "trusty",
	}
	UbuntuObsoleteSuites = []string{
		"kinetic", "impish", "hirsute", "groovy", "eoan", "disco", "cosmic", "artful",
		"zesty", "yakkety", "wily", "vivid", "utopic", "saucy", "raring", "quantal", "precise",
	}
)

const (
	UbuntuCurrentMirror  = "http://archive.ubuntu.com/ubuntu"
	UbuntuPortsMirror    = "http://ports.ubuntu.com/ubuntu-ports"
	UbuntuObsoleteMirror = "https://old-releases.ubuntu.com/ubuntu"
)

// debianMainArchitectures are the architectures served from the main Debian
// mirror; anything else falls back to the ports mirror.
var debianMainArchitectures = map[string]bool{
	"amd64": true, "arm64": true, "armel": true, "armhf": true, "i386": true,
	"mips64el": true, "mipsel": true, "ppc64el": true, "s390x": true,
}

// ubuntuMainArchitectures are the architectures served from the main Ubuntu
// mirror; anything else falls back to the ports mirror.
var ubuntuMainArchitectures = map[string]bool{
	"amd64": true, "i386": true,
}

func contains(list []string, s string) bool {
	for _, entry := range list {
		if entry == s {
			return true
		}
	}
	return false
}

// IsPrimarySuite reports whether suite is a recognised Debian or Ubuntu
// suite name, current or obsolete.
func IsPrimarySuite(s string) bool {
	return contains(DebianCurrentSuites, s) || contains(DebianObsoleteSuites, s) ||
		contains(UbuntuCurrentSuites, s) || contains(UbuntuObsoleteSuites, s)
}

// IsDebian reports whether suite belongs to the Debian suite lists.
func IsDebian(s string) bool {
	return contains(DebianCurrentSuites, s) || contains(DebianObsoleteSuites, s)
}

// IsUbuntu reports whether suite belongs to the Ubuntu suite lists.
func IsUbuntu(s string) bool {
	return contains(UbuntuCurrentSuites, s) || contains(UbuntuObsoleteSuites, s)
}

// DefaultMirrors returns the default mirror URI for a suite given an
// architecture, selecting a ports mirror for non-mainstream architectures.
func DefaultMirrors(s, architecture string) []string {
	switch {
	case contains(DebianCurrentSuites, s):
		if debianMainArchitectures[architecture] {
			return []string{DebianCurrentMirror}
		}
		return []string{DebianPortsMirror}
	case contains(DebianObsoleteSuites, s):
		return []string{DebianObsoleteMirror}
	case contains(UbuntuCurrentSuites, s):
		if ubuntuMainArchitectures[architecture] {
			return []string{UbuntuCurrentMirror}
		}
		return []string{UbuntuPortsMirror}
	case contains(UbuntuObsoleteSuites, s):
		return []string{UbuntuObsoleteMirror}
	default:
		return nil
	}
}

// oneLineStyleSuites is the fixed blacklist of suites that still use the
// legacy one-line sources.list format instead of deb822.
var oneLineStyleSuites = map[string]bool{
	"jessie": true, "wily": true, "vivid": true, "utopic": true,
	"trusty": true, "saucy": true, "raring": true, "quantal": true, "precise": true,
}

// DefaultSourcesListFormat returns "one-line-style" or "deb822-style".
func DefaultSourcesListFormat(s string) string {
	if oneLineStyleSuites[s] {
		return "one-line-style"
	}
	return "deb822-style"
}

// splitUsrBuildd is the set of suites where the buildd variant stays
// split-/usr while every other variant is merged-/usr.
var splitUsrBuildd = map[string]bool{
	"bookworm": true, "bullseye": true, "buster": true, "hirsute": true,
}

// mergedUsrBlacklist is the set of suites that never merge /usr.
var mergedUsrBlacklist = map[string]bool{
	"stretch": true, "jessie": true,
	"groovy": true, "focal": true, "eoan": true, "disco": true, "cosmic": true,
	"bionic": true, "artful": true, "zesty": true, "yakkety": true, "xenial": true,
	"wily": true, "vivid": true, "utopic": true, "trusty": true, "saucy": true,
	"raring": true, "quantal": true, "precise": true,
}

// DefaultMergeUsr reports whether suite+variant should use a merged /usr
// layout.
func DefaultMergeUsr(s, variant string) bool {
	if mergedUsrBlacklist[s] {
		return false
	}
	if splitUsrBuildd[s] {
		return variant != "buildd"
	}
	return true
}

// IsSplitUsrSupported reports whether split-/usr remains a legal layout for
// suite; false for suites where merged-/usr is mandatory.
func IsSplitUsrSupported(s string) bool {
	return mergedUsrBlacklist[s] || splitUsrBuildd[s]
}

// CaseSpecificPackages augments the seed for non-essential/non-custom
// variants with ca-certificates, and apt-transport-https on older suites.
func CaseSpecificPackages(s, variant string) []string {
	if variant == "essential" || variant == "custom" {
		return nil
	}

	packages := []string{"ca-certificates"}

	switch s {
	case "stretch", "jessie", "zesty", "yakkety", "xenial", "wily", "vivid",
		"utopic", "trusty", "saucy", "raring", "quantal", "precise":
		packages = append(packages, "apt-transport-https")
	}

	return packages
}

// DefaultHostname returns the hostname conventionally used inside a
// bootstrapped root of this suite.
func DefaultHostname(s string) string {
	switch {
	case IsDebian(s):
		return "debian"
	case IsUbuntu(s):
		return "ubuntu"
	default:
		return ""
	}
}

// DefaultOutputFileName builds the conventional "<Distro>_<suite>_<arch>_<variant>"
// base name for tarball/directory output.
func DefaultOutputFileName(s, architecture, variant string) string {
	switch {
	case IsDebian(s):
		return "Debian_" + s + "_" + architecture + "_" + variant
	case IsUbuntu(s):
		return "Ubuntu_" + s + "_" + architecture + "_" + variant
	default:
		return ""
	}
}
