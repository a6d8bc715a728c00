package fetch

import "strings"

// ReleaseFileName builds the canonical per-origin name a downloaded Release
// file is renamed to inside the workspace index directory.
func ReleaseFileName(path, s string) string {
	return sanitize(path + "_dists_" + s + "_Release")
}

// PackagesFileName builds the canonical per-origin name a downloaded
// Packages index is renamed to.
func PackagesFileName(path, s, component, architecture string) string {
	return sanitize(path + "_dists_" + s + "_" + component + "_binary-" + architecture + "_Packages")
}

func sanitize(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}

// packagesCandidates is the fixed compressed-variant order the index
// fetcher probes under a binary-<arch> directory.
var packagesCandidates = []string{"Packages.xz", "Packages.gz", "Packages.bz2", "Packages.lzma", "Packages"}
