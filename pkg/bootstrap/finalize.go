package bootstrap

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arc-language/debstrap/pkg/chroot"
	"github.com/arc-language/debstrap/pkg/pkgfile"
	"github.com/arc-language/debstrap/pkg/sources"
)

// preInstall runs the chroot installer's pre-install sequence: dpkg
// bookkeeping files, default etc/fstab and etc/hosts, sources list
// emission, the split-/usr warning marker, and the policy-rc.d /
// start-stop-daemon / shell / awk shims. splitUsrRequested is the inverse of
// the merge-usr policy already applied to target by the caller.
func preInstall(target string, closure []pkgfile.Package, entries []sources.Entry, opts Options, splitUsrRequested bool) error {
	if err := chroot.WriteDpkgBookkeeping(target, opts.Architectures); err != nil {
		return err
	}
	if err := chroot.WriteDefaultEtcFiles(target); err != nil {
		return err
	}
	if err := chroot.EmitSourcesListIfAptPresent(target, closure, entries, opts.Suite, opts.SignedByKeyring); err != nil {
		return err
	}
	if err := chroot.MarkUnsupportedSplitUsr(target, opts.Suite, splitUsrRequested); err != nil {
		return err
	}
	if err := chroot.InstallPolicyRcD(target); err != nil {
		return err
	}
	if err := chroot.InstallStartStopDaemonShim(target); err != nil {
		return err
	}
	if err := chroot.LinkShellIfDashAbsent(target, closure); err != nil {
		return err
	}
	return chroot.LinkAwk(target, closure)
}

// finalize produces the bootstrap's final output: either the target
// directory is left in place, or it is packed into an uncompressed tarball
// using the default naming scheme.
func finalize(target string, opts Options) error {
	if opts.OutputFormat != "tarball" {
		return nil
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = defaultTarballName(opts)
	}

	return writeTarball(target, outputPath)
}

func defaultTarballName(opts Options) string {
	now := time.Now()
	return fmt.Sprintf("%s_%s_%04dy-%02dm-%02dd.tar", opts.Suite, opts.Variant, now.Year(), now.Month(), now.Day())
}

func writeTarball(root, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating %q: %w", destPath, err)
	}
	defer f.Close()

	tw := tar.NewWriter(f)
	defer tw.Close()

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		link := ""
		if info.Mode()&os.ModeSymlink != 0 {
			link, err = os.Readlink(path)
			if err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = relPath

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if info.Mode().IsRegular() {
			in, err := os.Open(path)
			if err != nil {
				return err
			}
			defer in.Close()
			if _, err := io.Copy(tw, in); err != nil {
				return err
			}
		}

		return nil
	})
}
