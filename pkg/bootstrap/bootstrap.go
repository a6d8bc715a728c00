package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	debstrap "github.com/arc-language/debstrap"
	"github.com/arc-language/debstrap/pkg/chroot"
	"github.com/arc-language/debstrap/pkg/diagnostics"
	"github.com/arc-language/debstrap/pkg/download"
	"github.com/arc-language/debstrap/pkg/extract"
	"github.com/arc-language/debstrap/pkg/fetch"
	"github.com/arc-language/debstrap/pkg/fsutil"
	"github.com/arc-language/debstrap/pkg/hooks"
	"github.com/arc-language/debstrap/pkg/pkgdb"
	"github.com/arc-language/debstrap/pkg/pkgfile"
	"github.com/arc-language/debstrap/pkg/resolve"
	"github.com/arc-language/debstrap/pkg/sources"
	"github.com/arc-language/debstrap/pkg/suite"
	"github.com/arc-language/debstrap/pkg/transport"
	"github.com/arc-language/debstrap/pkg/variant"
)

// Run drives the whole pipeline for opts, returning the terminal error if
// any stage fails. Cleanup is attempted on every exit path regardless of
// outcome.
func Run(ctx context.Context, opts Options) error {
	log := diagnostics.New(diagnostics.Config{Color: opts.Color, Debug: opts.Debug})

	if os.Getenv("USER") != "root" {
		return &debstrap.Error{Kind: debstrap.PermissionDenied, Op: "bootstrap", Err: debstrap.ErrNotRoot}
	}

	workspace, err := acquireWorkspace(opts.Directory)
	if err != nil {
		return &debstrap.Error{Kind: debstrap.FilesystemError, Op: "create workspace", Err: err}
	}
	defer cleanupWorkspace(workspace, opts, log)

	target := filepath.Join(workspace, "target")
	if err := os.MkdirAll(target, 0755); err != nil {
		return &debstrap.Error{Kind: debstrap.FilesystemError, Op: "create target", Err: err}
	}
	defer chroot.UnmountUnderTarget(target)

	entries, err := loadEntries(opts)
	if err != nil {
		return err
	}

	db, _, err := buildDatabase(ctx, workspace, entries, log)
	if err != nil {
		return err
	}

	seed, err := buildSeed(db, opts)
	if err != nil {
		return err
	}

	if opts.ExitMode == ExitPrintInitialSet || opts.ExitMode == ExitPrintBothSets {
		printSet(seed)
	}
	if opts.ExitMode == ExitPrintInitialSet {
		return nil
	}

	closure, err := resolve.Resolve(db, seed, opts.ConsiderRecommends, opts.Prohibit)
	if err != nil {
		return &debstrap.Error{Kind: debstrap.Unresolvable, Op: "resolve", Err: err}
	}

	if opts.ExitMode == ExitPrintTargetSet || opts.ExitMode == ExitPrintBothSets {
		printSet(closure)
		return nil
	}

	downloadDir := filepath.Join(workspace, "packages", "downloaded")
	downloader := &download.Downloader{Client: transport.New(30 * time.Second), Dir: downloadDir}
	if err := downloader.DownloadAll(ctx, closure); err != nil {
		return &debstrap.Error{Kind: debstrap.NetworkFailure, Op: "download", Err: err}
	}

	hookEnv := hooks.Env{Workspace: workspace, Packages: downloadDir, Target: target}
	hooks.Run(ctx, hooks.Download, opts.Hooks[string(hooks.Download)], hookEnv, log)

	if opts.ExitMode == ExitDownloadOnly {
		return nil
	}

	buckets := extract.Partition(closure)
	extractor := &extract.Extractor{Backend: extract.Backend(opts.ExtractBackend)}

	toExtractNow := extract.Ordered()
	if opts.ExtractOnlyEssentials {
		toExtractNow = []extract.Bucket{extract.BucketEssential}
	}

	if err := extractBuckets(ctx, extractor, buckets, toExtractNow, downloadDir, target); err != nil {
		return &debstrap.Error{Kind: debstrap.ExtractionFailure, Op: "extract", Err: err}
	}

	mergeUsr := suite.DefaultMergeUsr(opts.Suite, opts.Variant)
	if mergeUsr {
		if err := fsutil.MergeUsrDirectories(target, opts.Architectures); err != nil {
			return &debstrap.Error{Kind: debstrap.FilesystemError, Op: "usr-merge", Err: err}
		}
	}

	hooks.Run(ctx, hooks.Extract, opts.Hooks[string(hooks.Extract)], hookEnv, log)

	if opts.ExitMode == ExitExtractOnly {
		return nil
	}

	defer func() {
		chroot.RemovePolicyRcD(target)
		chroot.RestoreStartStopDaemon(target)
	}()
	if err := preInstall(target, closure, entries, opts, !mergeUsr); err != nil {
		return &debstrap.Error{Kind: debstrap.InstallFailure, Op: "pre-install", Err: err}
	}

	if err := chroot.MountVirtualFileSystems(target); err != nil {
		return &debstrap.Error{Kind: debstrap.MountFailure, Op: "mount", Err: err}
	}

	if err := chroot.ReestablishShellAlternatives(ctx, target, closure); err != nil {
		return &debstrap.Error{Kind: debstrap.InstallFailure, Op: "shell alternatives", Err: err}
	}

	if err := stageBucketsForInstall(buckets, downloadDir, target); err != nil {
		return &debstrap.Error{Kind: debstrap.FilesystemError, Op: "stage packages", Err: err}
	}

	if err := chroot.InstallBuckets(ctx, target, opts.InstallOptions, opts.Hooks[string(hooks.Essential)], hookEnv, log); err != nil {
		return &debstrap.Error{Kind: debstrap.InstallFailure, Op: "install", Err: err}
	}

	hooks.Run(ctx, hooks.Target, opts.Hooks[string(hooks.Target)], hookEnv, log)

	chroot.FinishInstall(ctx, target, opts.Hooks[string(hooks.Done)], hookEnv, log)

	return finalize(target, opts)
}

func loadEntries(opts Options) ([]sources.Entry, error) {
	data, err := os.ReadFile(opts.SourcesPath)
	if err == nil {
		entries, err := sources.FromFile(string(data))
		if err != nil {
			return nil, &debstrap.Error{Kind: debstrap.InvalidSourcesFile, Op: "parse sources", Err: err}
		}
		return entries, nil
	}

	entry, err := sources.FromFlags(opts.Mirrors, []string{opts.Suite}, opts.Components, opts.Architectures, "")
	if err != nil {
		return nil, &debstrap.Error{Kind: debstrap.InvalidSourcesFile, Op: "build sources", Err: err}
	}
	return []sources.Entry{entry}, nil
}

func buildDatabase(ctx context.Context, workspace string, entries []sources.Entry, log *diagnostics.Logger) (*pkgdb.Database, []fetch.FetchedIndex, error) {
	indexDir := filepath.Join(workspace, "lists")
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return nil, nil, &debstrap.Error{Kind: debstrap.FilesystemError, Op: "create lists dir", Err: err}
	}

	fetcher := &fetch.Fetcher{Client: transport.New(30 * time.Second), IndexDir: indexDir, Log: log}
	indices, err := fetcher.FetchAll(ctx, entries)
	if err != nil {
		return nil, nil, &debstrap.Error{Kind: debstrap.NetworkFailure, Op: "fetch indices", Err: err}
	}

	db := pkgdb.New()
	for _, idx := range indices {
		content, err := os.ReadFile(idx.Path)
		if err != nil {
			return nil, nil, &debstrap.Error{Kind: debstrap.FilesystemError, Op: "read index", Name: idx.Path, Err: err}
		}
		db.AddStanzas(string(content), idx.Suite, idx.Component, idx.Architecture, idx.URI.Scheme, idx.URI.Path)
	}

	return db, indices, nil
}

func buildSeed(db *pkgdb.Database, opts Options) ([]pkgfile.Package, error) {
	seed, err := variant.Seed(db, opts.Variant, nil)
	if err != nil {
		return nil, &debstrap.Error{Kind: debstrap.MissingPackage, Op: "build seed", Err: err}
	}

	include := append(suite.CaseSpecificPackages(opts.Suite, opts.Variant), opts.Include...)

	seed, err = variant.Include(db, seed, include)
	if err != nil {
		return nil, &debstrap.Error{Kind: debstrap.MissingPackage, Op: "include", Err: err}
	}

	seed = variant.Exclude(seed, opts.Exclude)
	return variant.SortDedupe(seed), nil
}

func printSet(pkgs []pkgfile.Package) {
	for _, p := range pkgs {
		fmt.Println(p.Name)
	}
}

func acquireWorkspace(override string) (string, error) {
	if override != "" {
		entries, err := os.ReadDir(override)
		if err != nil {
			return "", fmt.Errorf("opening workspace directory: %w", err)
		}
		if len(entries) != 0 {
			return "", debstrap.ErrWorkspaceNotEmpty
		}
		return override, nil
	}

	suffix, err := randomSuffix(8)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(os.TempDir(), "debstrap."+suffix)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func randomSuffix(n int) (string, error) {
	buf := make([]byte, n/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating workspace suffix: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func cleanupWorkspace(workspace string, opts Options, log *diagnostics.Logger) {
	if opts.SkipsAction(ActionWorkspaceRemoval) {
		return
	}
	if err := os.RemoveAll(workspace); err != nil {
		log.Warning("failed to remove workspace.")
	}
}
