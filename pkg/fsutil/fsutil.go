// Package fsutil holds the filesystem helpers the orchestrator and chroot
// installer share: file creation and appends (written in place, not through
// a temporary file and rename), moves, and the /usr-merge layout.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// CreateFile writes contents to path, truncating any existing file.
func CreateFile(path, contents string) error {
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("failed to create file: %q: %w", path, err)
	}
	return nil
}

// AppendFile appends contents to path, creating it if absent.
func AppendFile(path, contents string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(contents); err != nil {
		return fmt.Errorf("failed to append file: %q: %w", path, err)
	}
	return nil
}

// MoveFile renames a file, falling back to copy-then-remove across devices.
func MoveFile(from, to string) error {
	if err := os.Rename(from, to); err == nil {
		return nil
	}

	src, err := os.Open(from)
	if err != nil {
		return fmt.Errorf("opening %q: %w", from, err)
	}
	defer src.Close()

	dst, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("creating %q: %w", to, err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return fmt.Errorf("copying %q to %q: %w", from, to, err)
	}

	return os.Remove(from)
}

// usrMergeExtensions maps an architecture to the usr directories it adds on
// top of the base {bin, lib, sbin} set.
var usrMergeExtensions = map[string][]string{
	"amd64":    {"lib32", "lib64", "libx32"},
	"i386":     {"lib64", "libx32"},
	"loong64":  {"lib32", "lib64"},
	"mipsel":   {"lib32", "lib64"},
	"mips64el": {"lib32", "lib64", "libo32"},
	"powerpc":  {"lib64"},
	"ppc64":    {"lib32", "lib64"},
	"ppc64el":  {"lib64"},
	"s390x":    {"lib32"},
	"sparc64":  {"lib32", "lib64"},
	"x32":      {"lib32", "lib64", "libx32"},
}

// MergeUsrDirectories creates <root>/usr plus, for the base set {bin, lib,
// sbin} extended per architecture, <root>/usr/<name> with <root>/<name> a
// relative symlink to it.
func MergeUsrDirectories(root string, architectures []string) error {
	dirs := map[string]bool{"bin": true, "lib": true, "sbin": true}
	for _, arch := range architectures {
		for _, extra := range usrMergeExtensions[arch] {
			dirs[extra] = true
		}
	}

	usrRoot := filepath.Join(root, "usr")
	if err := os.MkdirAll(usrRoot, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %q: %w", usrRoot, err)
	}

	names := make([]string, 0, len(dirs))
	for name := range dirs {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		usrDir := filepath.Join(usrRoot, name)
		if err := os.MkdirAll(usrDir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %q: %w", usrDir, err)
		}

		link := filepath.Join(root, name)
		target, err := filepath.Rel(root, usrDir)
		if err != nil {
			return fmt.Errorf("computing relative symlink for %q: %w", link, err)
		}
		if err := os.Symlink(target, link); err != nil {
			return fmt.Errorf("failed to create link: %q: %w", link, err)
		}
	}

	return nil
}
