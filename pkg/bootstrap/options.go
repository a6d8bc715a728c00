// Package bootstrap is the orchestrator: it drives the full pipeline from
// sources through chroot install, owns the workspace and target directory
// lifecycles, and guarantees cleanup on every exit path.
package bootstrap

import (
	"github.com/arc-language/debstrap/pkg/chroot"
)

// ExitMode selects how far the pipeline runs before it is considered done.
type ExitMode string

const (
	ExitPrintInitialSet ExitMode = "print_initial_set"
	ExitPrintTargetSet  ExitMode = "print_target_set"
	ExitPrintBothSets   ExitMode = "print_both_sets"
	ExitDownloadOnly    ExitMode = "download_packages"
	ExitExtractOnly     ExitMode = "extract_packages"
	ExitFull            ExitMode = "full"
)

// TargetAction names a pre-flight check or cleanup step that can be skipped
// via Options.TargetActionsToSkip.
type TargetAction string

const (
	ActionArchitectureCheck TargetAction = "architecture_check"
	ActionOutputDirCheck    TargetAction = "output_directory_check"
	ActionPackagesRemoval   TargetAction = "packages_removal"
	ActionWorkspaceRemoval  TargetAction = "workspace_removal"
)

// Options configures one bootstrap run end to end.
type Options struct {
	Suite         string
	Variant       string
	Components    []string
	Architectures []string
	Mirrors       []string

	SourcesPath string

	Include  []string
	Exclude  []string
	Prohibit []string

	ConsiderRecommends bool

	ExtractBackend        string
	ExtractOnlyEssentials bool

	OutputFormat string // "tarball" or "directory"
	OutputPath   string
	Directory    string // workspace override

	SignedByKeyring string

	Hooks map[string][]string

	ExitMode            ExitMode
	TargetActionsToSkip map[TargetAction]bool

	InstallOptions chroot.Options

	Color bool
	Debug bool
}

// SkipsAction reports whether a is in Options.TargetActionsToSkip.
func (o Options) SkipsAction(a TargetAction) bool {
	return o.TargetActionsToSkip[a]
}
