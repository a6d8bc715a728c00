package chroot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arc-language/debstrap/pkg/fsutil"
	"github.com/arc-language/debstrap/pkg/pkgfile"
	"github.com/arc-language/debstrap/pkg/sources"
	"github.com/arc-language/debstrap/pkg/suite"
)

const policyRcD = `#!/bin/sh
exit 101
`

const startStopDaemonShim = `#!/bin/sh
echo "Warning: Fake start-stop-daemon called, doing nothing." >&2
exit 0
`

// WriteDpkgBookkeeping creates the empty var/lib/dpkg/{status,available,arch}
// files and appends each target architecture, newline-terminated, to arch.
func WriteDpkgBookkeeping(target string, architectures []string) error {
	dir := filepath.Join(target, "var/lib/dpkg")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %q: %w", dir, err)
	}

	for _, name := range []string{"status", "available"} {
		if err := fsutil.CreateFile(filepath.Join(dir, name), ""); err != nil {
			return err
		}
	}

	var archContent string
	for _, a := range architectures {
		archContent += a + "\n"
	}
	return fsutil.CreateFile(filepath.Join(dir, "arch"), archContent)
}

const defaultFstab = `# /etc/fstab: static file system information.
#
# <file system> <mount point>   <type>  <options>       <dump>  <pass>
`

const defaultHosts = `127.0.0.1	localhost
::1		localhost ip6-localhost ip6-loopback

# The following lines are desirable for IPv6 capable hosts
fe00::0		ip6-localnet
ff00::0		ip6-mcastprefix
ff02::1		ip6-allnodes
ff02::2		ip6-allrouters
`

// WriteDefaultEtcFiles installs the documented placeholder etc/fstab and
// etc/hosts.
func WriteDefaultEtcFiles(target string) error {
	etc := filepath.Join(target, "etc")
	if err := os.MkdirAll(etc, 0755); err != nil {
		return fmt.Errorf("creating %q: %w", etc, err)
	}
	if err := fsutil.CreateFile(filepath.Join(etc, "fstab"), defaultFstab); err != nil {
		return err
	}
	return fsutil.CreateFile(filepath.Join(etc, "hosts"), defaultHosts)
}

// EmitSourcesListIfAptPresent writes a sources list file per the chosen
// dialect when apt is part of the closure.
func EmitSourcesListIfAptPresent(target string, closure []pkgfile.Package, entries []sources.Entry, s, signedBy string) error {
	hasApt := false
	for _, pkg := range closure {
		if pkg.Name == "apt" {
			hasApt = true
			break
		}
	}
	if !hasApt {
		return nil
	}

	format := suite.DefaultSourcesListFormat(s)
	fileName, content := sources.Emit(entries, format, signedBy)

	dir := filepath.Join(target, "etc/apt")
	if format == "deb822-style" {
		dir = filepath.Join(dir, "sources.list.d")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %q: %w", dir, err)
	}
	return fsutil.CreateFile(filepath.Join(dir, fileName), content)
}

// MarkUnsupportedSplitUsr creates the warning file when split-/usr is chosen
// on a suite that does not support it.
func MarkUnsupportedSplitUsr(target, s string, splitUsrRequested bool) error {
	if !splitUsrRequested || suite.IsSplitUsrSupported(s) {
		return nil
	}
	etc := filepath.Join(target, "etc")
	if err := os.MkdirAll(etc, 0755); err != nil {
		return fmt.Errorf("creating %q: %w", etc, err)
	}
	return fsutil.CreateFile(filepath.Join(etc, "unsupported-skip-usrmerge-conversion"), "")
}

// InstallPolicyRcD writes the usr/sbin/policy-rc.d shim that makes
// maintainer scripts refuse to start services during install.
func InstallPolicyRcD(target string) error {
	dir := filepath.Join(target, "usr/sbin")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %q: %w", dir, err)
	}
	path := filepath.Join(dir, "policy-rc.d")
	if err := fsutil.CreateFile(path, policyRcD); err != nil {
		return err
	}
	return os.Chmod(path, 0755)
}

// RemovePolicyRcD removes the shim installed by InstallPolicyRcD.
func RemovePolicyRcD(target string) error {
	return os.Remove(filepath.Join(target, "usr/sbin/policy-rc.d"))
}

// locateStartStopDaemon finds the real start-stop-daemon, preferring sbin
// over usr/sbin.
func locateStartStopDaemon(target string) (string, bool) {
	for _, dir := range []string{"sbin", "usr/sbin"} {
		path := filepath.Join(target, dir, "start-stop-daemon")
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// InstallStartStopDaemonShim renames the real start-stop-daemon aside with
// the .ORIGINAL suffix and installs a no-op shim in its place.
func InstallStartStopDaemonShim(target string) error {
	path, found := locateStartStopDaemon(target)
	if !found {
		return nil
	}
	if err := os.Rename(path, path+".ORIGINAL"); err != nil {
		return fmt.Errorf("renaming %q aside: %w", path, err)
	}
	if err := fsutil.CreateFile(path, startStopDaemonShim); err != nil {
		return err
	}
	return os.Chmod(path, 0755)
}

// RestoreStartStopDaemon removes the shim and restores the .ORIGINAL binary.
func RestoreStartStopDaemon(target string) error {
	path, found := locateStartStopDaemon(target)
	if !found {
		return nil
	}
	original := path + ".ORIGINAL"
	if _, err := os.Stat(original); err != nil {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing shim %q: %w", path, err)
	}
	return os.Rename(original, path)
}

// LinkShellIfDashAbsent symlinks bin/bash as both bin/sh and bin/dash when
// dash is not part of the closure.
func LinkShellIfDashAbsent(target string, closure []pkgfile.Package) error {
	for _, pkg := range closure {
		if pkg.Name == "dash" {
			return nil
		}
	}

	bin := filepath.Join(target, "bin")
	if err := os.MkdirAll(bin, 0755); err != nil {
		return fmt.Errorf("creating %q: %w", bin, err)
	}
	for _, name := range []string{"sh", "dash"} {
		link := filepath.Join(bin, name)
		os.Remove(link)
		if err := os.Symlink("bash", link); err != nil {
			return fmt.Errorf("linking %q: %w", link, err)
		}
	}
	return nil
}

// ReestablishShellAlternatives re-registers /bin/sh and /bin/dash with
// update-alternatives inside the chroot, pointing both at /bin/bash. Must
// run after the target's virtual filesystems are mounted, mirroring
// LinkShellIfDashAbsent's dash-absent condition.
func ReestablishShellAlternatives(ctx context.Context, target string, closure []pkgfile.Package) error {
	for _, pkg := range closure {
		if pkg.Name == "dash" {
			return nil
		}
	}

	for _, name := range []string{"sh", "dash"} {
		cmd := exec.CommandContext(ctx, "chroot", target, "update-alternatives",
			"--force", "--install", "/bin/"+name, name, "/bin/bash", "999")
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("update-alternatives for %q: %w: %s", name, err, out)
		}
	}
	return nil
}

// awkCandidates is the preference order for picking a provider to symlink
// as usr/bin/awk.
var awkCandidates = []string{"mawk", "original-awk", "gawk"}

// LinkAwk symlinks the first installed awk provider into usr/bin/awk.
func LinkAwk(target string, closure []pkgfile.Package) error {
	installed := make(map[string]bool, len(closure))
	for _, pkg := range closure {
		installed[pkg.Name] = true
	}

	for _, candidate := range awkCandidates {
		if !installed[candidate] {
			continue
		}
		link := filepath.Join(target, "usr/bin/awk")
		os.Remove(link)
		return os.Symlink(candidate, link)
	}
	return nil
}
