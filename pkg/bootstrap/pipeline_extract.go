package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arc-language/debstrap/pkg/extract"
	"github.com/arc-language/debstrap/pkg/pkgfile"
)

// extractBuckets manually unpacks every package in the named buckets
// straight into the target rootfs. This is how the essential bucket gets a
// working dpkg/bash/coreutils in place before the chroot can run anything.
func extractBuckets(ctx context.Context, extractor *extract.Extractor, buckets map[extract.Bucket][]pkgfile.Package, toExtract []extract.Bucket, downloadDir, target string) error {
	for _, bucket := range toExtract {
		for _, pkg := range buckets[bucket] {
			debPath := filepath.Join(downloadDir, filepath.Base(pkg.FileName))
			if err := extractor.ExtractData(ctx, debPath, target); err != nil {
				return fmt.Errorf("extracting %s: %w", pkg.Name, err)
			}
		}
	}
	return nil
}

// stageBucketsForInstall copies every closure member's .deb file into
// target/packages/<bucket>/ so the chroot install phase can run dpkg
// --install against each bucket in priority order and register it in
// dpkg's status database, regardless of whether the bucket's data was also
// manually extracted ahead of time.
func stageBucketsForInstall(buckets map[extract.Bucket][]pkgfile.Package, downloadDir, target string) error {
	for _, bucket := range extract.Ordered() {
		pkgs := buckets[bucket]
		if len(pkgs) == 0 {
			continue
		}

		bucketDir := filepath.Join(target, "packages", string(bucket))
		if err := os.MkdirAll(bucketDir, 0755); err != nil {
			return fmt.Errorf("creating bucket directory %q: %w", bucketDir, err)
		}

		for _, pkg := range pkgs {
			src := filepath.Join(downloadDir, filepath.Base(pkg.FileName))
			dst := filepath.Join(bucketDir, filepath.Base(pkg.FileName))
			if err := copyFile(src, dst); err != nil {
				return fmt.Errorf("staging %s: %w", pkg.Name, err)
			}
		}
	}

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
