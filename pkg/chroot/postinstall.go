package chroot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arc-language/debstrap/pkg/diagnostics"
	"github.com/arc-language/debstrap/pkg/extract"
	"github.com/arc-language/debstrap/pkg/hooks"
)

// FinishInstall runs the post-install sequence: unmount virtual filesystems,
// remove the policy-rc.d and start-stop-daemon shims, remove the bucket
// directories, reset machine-id, and run the "done" hook.
func FinishInstall(ctx context.Context, target string, doneHooks []string, hookEnv hooks.Env, log *diagnostics.Logger) {
	UnmountVirtualFileSystems(target)

	if err := RemovePolicyRcD(target); err != nil {
		log.Warning("failed to remove policy-rc.d shim.")
	}
	if err := RestoreStartStopDaemon(target); err != nil {
		log.Warning("failed to restore start-stop-daemon.")
	}

	for _, bucket := range extract.Ordered() {
		os.RemoveAll(filepath.Join(target, "packages", string(bucket)))
	}

	resetMachineID(target)

	hooks.Run(ctx, hooks.Done, doneHooks, hookEnv, log)
}

// resetMachineID overwrites etc/machine-id with the placeholder value dpkg
// expects a fresh root to carry, if the file exists.
func resetMachineID(target string) {
	path := filepath.Join(target, "etc/machine-id")
	if _, err := os.Stat(path); err != nil {
		return
	}
	os.WriteFile(path, []byte("uninitialized\n"), 0644)
}
