package chroot

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// mountPoint is one virtual kernel filesystem mounted into the target, in
// the fixed order they must be mounted and the reverse order they must be
// torn down.
type mountPoint struct {
	relPath string
	fstype  string
	bind    string // source path for a bind mount, empty otherwise
}

func mountPoints(target string) []mountPoint {
	return []mountPoint{
		{relPath: "dev", bind: "/dev"},
		{relPath: "dev/pts", bind: "/dev/pts"},
		{relPath: "proc", fstype: "proc"},
		{relPath: "sys", fstype: "sysfs"},
		{relPath: "run", fstype: "tmpfs"},
	}
}

// MountVirtualFileSystems mounts /dev, /dev/pts, proc, sysfs and tmpfs (at
// run) into target in that order. Any failure unmounts everything mounted
// so far before returning the error.
func MountVirtualFileSystems(target string) error {
	points := mountPoints(target)

	for i, mp := range points {
		dest := filepath.Join(target, mp.relPath)
		if err := os.MkdirAll(dest, 0755); err != nil {
			unmountUpTo(target, points, i)
			return fmt.Errorf("creating mount point %q: %w", dest, err)
		}

		var cmd *exec.Cmd
		if mp.bind != "" {
			cmd = exec.Command("mount", "--bind", mp.bind, dest)
		} else {
			cmd = exec.Command("mount", "-t", mp.fstype, mp.fstype, dest)
		}

		if out, err := cmd.CombinedOutput(); err != nil {
			unmountUpTo(target, points, i)
			return fmt.Errorf("mounting %q: %w: %s", dest, err, strings.TrimSpace(string(out)))
		}
	}

	return nil
}

func unmountUpTo(target string, points []mountPoint, lastIndex int) {
	for i := lastIndex; i >= 0; i-- {
		dest := filepath.Join(target, points[i].relPath)
		unmountPath(dest)
	}
}

// UnmountVirtualFileSystems unmounts run, sys, proc, dev/pts, dev in that
// reverse order. Each unmount is idempotent: a path that is not currently a
// mount point is silently skipped.
func UnmountVirtualFileSystems(target string) {
	points := mountPoints(target)
	for i := len(points) - 1; i >= 0; i-- {
		unmountPath(filepath.Join(target, points[i].relPath))
	}
}

func unmountPath(path string) {
	if !isMounted(path) {
		return
	}
	exec.Command("umount", path).Run()
}

// isMounted reports whether path appears as a mount point in the kernel's
// mount table.
func isMounted(path string) bool {
	data, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if fields[1] == path {
			return true
		}
	}
	return false
}

// UnmountUnderTarget unmounts anything still mounted under target, walking
// the kernel mount table for paths with target as a prefix and unmounting
// them in reverse mount-table order (most recently mounted first).
// Used by cleanup-on-exit when the normal unmount sequence may not have run.
func UnmountUnderTarget(target string) {
	data, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return
	}

	var under []string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if strings.HasPrefix(fields[1], target) {
			under = append(under, fields[1])
		}
	}

	for i := len(under) - 1; i >= 0; i-- {
		exec.Command("umount", under[i]).Run()
	}
}
