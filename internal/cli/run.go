// internal/cli/run.go
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/debstrap/pkg/bootstrap"
	"github.com/arc-language/debstrap/pkg/chroot"
	"github.com/arc-language/debstrap/pkg/core"
	"github.com/arc-language/debstrap/pkg/sources"
	"github.com/arc-language/debstrap/pkg/suite"
)

var (
	flagVariant               string
	flagComponents            []string
	flagArchitectures         []string
	flagMirrors               []string
	flagSourcesPath           string
	flagInclude               []string
	flagExclude               []string
	flagProhibit              []string
	flagConsiderRecommends    bool
	flagExtractBackend        string
	flagExtractOnlyEssentials bool
	flagOutputFormat          string
	flagOutputPath            string
	flagDirectory             string
	flagPrintInitialSet       bool
	flagPrintTargetSet        bool
	flagPrintBothSets         bool
	flagDownloadOnly          bool
	flagExtractOnly           bool
	flagSkipActions           []string
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap <suite> [target]",
	Short: "Build a root filesystem for suite",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBootstrap,
}

func init() {
	bootstrapCmd.Flags().StringVar(&flagVariant, "variant", "", "seed variant: essential, required, buildd, important, standard, custom")
	bootstrapCmd.Flags().StringSliceVar(&flagComponents, "components", nil, "archive components")
	bootstrapCmd.Flags().StringSliceVar(&flagArchitectures, "architectures", nil, "target architectures")
	bootstrapCmd.Flags().StringSliceVar(&flagMirrors, "mirrors", nil, "archive mirror URLs")
	bootstrapCmd.Flags().StringVar(&flagSourcesPath, "sources", "", "path to a deb822-style sources file")
	bootstrapCmd.Flags().StringSliceVar(&flagInclude, "include", nil, "extra package names to add to the seed")
	bootstrapCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "package names to remove from the seed")
	bootstrapCmd.Flags().StringSliceVar(&flagProhibit, "prohibit", nil, "package names the resolver must never pull in")
	bootstrapCmd.Flags().BoolVar(&flagConsiderRecommends, "with-recommends", false, "follow Recommends relationships during resolution")
	bootstrapCmd.Flags().StringVar(&flagExtractBackend, "extract-backend", "", "deb extraction backend: ar or dpkg-deb")
	bootstrapCmd.Flags().BoolVar(&flagExtractOnlyEssentials, "extract-only-essentials", true, "extract only the essential bucket before the chroot install phase")
	bootstrapCmd.Flags().StringVar(&flagOutputFormat, "output-format", "", "directory or tarball")
	bootstrapCmd.Flags().StringVar(&flagOutputPath, "output", "", "output tarball path")
	bootstrapCmd.Flags().StringVar(&flagDirectory, "directory", "", "override workspace directory (must exist and be empty)")
	bootstrapCmd.Flags().BoolVar(&flagPrintInitialSet, "print-initial-set", false, "print the seed set and exit")
	bootstrapCmd.Flags().BoolVar(&flagPrintTargetSet, "print-target-set", false, "print the resolved closure and exit")
	bootstrapCmd.Flags().BoolVar(&flagPrintBothSets, "print-both-sets", false, "print the seed set, then the resolved closure, and exit")
	bootstrapCmd.Flags().BoolVar(&flagDownloadOnly, "download-packages", false, "download the resolved closure and exit")
	bootstrapCmd.Flags().BoolVar(&flagExtractOnly, "extract-packages", false, "download and extract the resolved closure and exit")
	bootstrapCmd.Flags().StringSliceVar(&flagSkipActions, "skip", nil, "target actions to skip: architecture_check, output_directory_check, packages_removal, workspace_removal")
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	suiteName := args[0]

	opts := bootstrap.Options{
		Suite:                 suiteName,
		Variant:               firstNonEmpty(flagVariant, config.Variant),
		Components:            firstNonEmptySlice(flagComponents, config.Components),
		Architectures:         firstNonEmptySlice(flagArchitectures, config.Architectures),
		Mirrors:               firstNonEmptySlice(flagMirrors, mirrorsOrDefault(suiteName, config)),
		SourcesPath:           firstNonEmpty(flagSourcesPath, config.SourcesPath),
		Include:               append(flagInclude, config.Include...),
		Exclude:               append(flagExclude, config.Exclude...),
		Prohibit:              append(flagProhibit, config.Prohibit...),
		ConsiderRecommends:    flagConsiderRecommends || config.ConsiderRecommends,
		ExtractBackend:        firstNonEmpty(flagExtractBackend, config.ExtractBackend),
		ExtractOnlyEssentials: flagExtractOnlyEssentials,
		OutputFormat:          firstNonEmpty(flagOutputFormat, config.OutputFormat),
		OutputPath:            flagOutputPath,
		Directory:             firstNonEmpty(flagDirectory, config.Directory),
		SignedByKeyring:       sources.SignedByKeyring(suiteName),
		Hooks:                 config.Hooks,
		ExitMode:              exitMode(),
		TargetActionsToSkip:   skipSet(flagSkipActions, config.TargetActionsToSkip),
		InstallOptions: chroot.Options{
			DebianFrontend:        "noninteractive",
			DebconfNonInteractive: true,
			Colors:                config.Color,
			Term:                  normalizeTerm(os.Getenv("TERM"), config.Color),
		},
		Color: config.Color,
		Debug: config.Debug,
	}

	if len(args) == 2 {
		opts.OutputPath = args[1]
	}

	return bootstrap.Run(context.Background(), opts)
}

func exitMode() bootstrap.ExitMode {
	switch {
	case flagPrintBothSets:
		return bootstrap.ExitPrintBothSets
	case flagPrintInitialSet:
		return bootstrap.ExitPrintInitialSet
	case flagPrintTargetSet:
		return bootstrap.ExitPrintTargetSet
	case flagDownloadOnly:
		return bootstrap.ExitDownloadOnly
	case flagExtractOnly:
		return bootstrap.ExitExtractOnly
	default:
		return bootstrap.ExitFull
	}
}

func skipSet(flagValues, configValues []string) map[bootstrap.TargetAction]bool {
	set := make(map[bootstrap.TargetAction]bool)
	for _, v := range append(flagValues, configValues...) {
		set[bootstrap.TargetAction(v)] = true
	}
	return set
}

func mirrorsOrDefault(suiteName string, cfg *core.Config) []string {
	if len(cfg.Mirrors) != 0 {
		return cfg.Mirrors
	}
	arch := "amd64"
	if len(cfg.Architectures) != 0 {
		arch = cfg.Architectures[0]
	}
	return suite.DefaultMirrors(suiteName, arch)
}

func normalizeTerm(term string, color bool) string {
	if term == "linux" {
		return "linux"
	}
	if color {
		return "xterm-256color"
	}
	return "dumb"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptySlice(slices ...[]string) []string {
	for _, s := range slices {
		if len(s) != 0 {
			return s
		}
	}
	return nil
}
