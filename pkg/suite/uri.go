package suite

import "strings"

// ParseURI splits a URI into scheme and path: reject anything but http(s),
// collapse repeated slashes, and strip leading/trailing slashes.
func ParseURI(raw string) (scheme, path string, ok bool) {
	switch {
	case strings.HasPrefix(raw, "http://"):
		scheme = "http://"
		path = strings.TrimPrefix(raw, "http://")
	case strings.HasPrefix(raw, "https://"):
		scheme = "https://"
		path = strings.TrimPrefix(raw, "https://")
	default:
		return "", "", false
	}

	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")

	return scheme, path, true
}

// debianArchitectureNames maps a native machine-name reported by uname(1)
// (or Go's runtime.GOARCH) onto the Debian architecture token the archive
// uses.
var debianArchitectureNames = map[string]string{
	"x86_64":  "amd64",
	"amd64":   "amd64",
	"aarch64": "arm64",
	"arm64":   "arm64",
	"armv7l":  "armhf",
	"armv6l":  "armel",
	"i686":    "i386",
	"i386":    "i386",
	"ppc64le": "ppc64el",
	"s390x":   "s390x",
	"riscv64": "riscv64",
	"mips64":  "mips64el",
	"mips":    "mipsel",
	"loongarch64": "loong64",
}

// GetDebianArchitectureName translates a machine name into the archive's
// architecture token. Returns false if the name is not recognised.
func GetDebianArchitectureName(machine string) (string, bool) {
	name, ok := debianArchitectureNames[machine]
	return name, ok
}
