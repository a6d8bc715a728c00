package chroot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/arc-language/debstrap/pkg/diagnostics"
	"github.com/arc-language/debstrap/pkg/extract"
	"github.com/arc-language/debstrap/pkg/hooks"
)

// Options configures the dpkg invocation environment for the in-chroot
// install phase.
type Options struct {
	DebianFrontend        string // "noninteractive" or "dialog"
	DebconfNonInteractive bool
	Colors                bool // DPKG_COLORS=always|never
	Term                  string
}

func (o Options) env() []string {
	nonInteractiveSeen := "false"
	if o.DebconfNonInteractive {
		nonInteractiveSeen = "true"
	}
	colors := "never"
	if o.Colors {
		colors = "always"
	}

	return []string{
		"HOME=/root",
		"TERM=" + o.Term,
		"PATH=/usr/sbin:/usr/bin:/sbin:/bin",
		"DEBIAN_FRONTEND=" + o.DebianFrontend,
		"DEBCONF_NONINTERACTIVE_SEEN=" + nonInteractiveSeen,
		"DEBCONF_NOWARNINGS=yes",
		"DPKG_COLORS=" + colors,
	}
}

// InstallBuckets runs dpkg --install against each priority bucket directory
// under <target>/packages, in the fixed order essential, required,
// important, standard, remaining, running the "essential" hook immediately
// after the essential bucket completes. A bucket directory that does not
// exist is skipped.
func InstallBuckets(ctx context.Context, target string, opts Options, essentialHooks []string, hookEnv hooks.Env, log *diagnostics.Logger) error {
	for _, bucket := range extract.Ordered() {
		dir := filepath.Join(target, "packages", string(bucket))
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		if err := installBucket(ctx, target, dir, opts); err != nil {
			return fmt.Errorf("installing %s bucket: %w", bucket, err)
		}

		if bucket == extract.BucketEssential {
			hooks.Run(ctx, hooks.Essential, essentialHooks, hookEnv, log)
		}
	}

	return nil
}

func installBucket(ctx context.Context, target, bucketDir string, opts Options) error {
	relDir, err := filepath.Rel(target, bucketDir)
	if err != nil {
		return fmt.Errorf("computing relative bucket path: %w", err)
	}

	script := fmt.Sprintf("cd /%s && dpkg --force-depends --force-confold --install *.deb", relDir)

	cmd := exec.CommandContext(ctx, "chroot", target, "/bin/sh", "-c", script)
	cmd.Env = opts.env()

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}
