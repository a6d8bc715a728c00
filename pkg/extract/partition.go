package extract

import "github.com/arc-language/debstrap/pkg/pkgfile"

// Bucket is one of the five priority buckets packages are partitioned into
// when essentials-only extraction (or the chroot installer's two-phase
// install) needs to stage essential packages ahead of everything else.
type Bucket string

const (
	BucketEssential Bucket = "essential"
	BucketRequired  Bucket = "required"
	BucketImportant Bucket = "important"
	BucketStandard  Bucket = "standard"
	BucketRemaining Bucket = "remaining"
)

// bucketOrder is the fixed extraction/install order.
var bucketOrder = []Bucket{BucketEssential, BucketRequired, BucketImportant, BucketStandard, BucketRemaining}

// Partition splits closure into its five priority buckets, preserving the
// relative order packages appear in within each bucket.
func Partition(closure []pkgfile.Package) map[Bucket][]pkgfile.Package {
	buckets := make(map[Bucket][]pkgfile.Package, len(bucketOrder))

	for _, pkg := range closure {
		b := bucketFor(pkg)
		buckets[b] = append(buckets[b], pkg)
	}

	return buckets
}

// Ordered returns the bucket names in the fixed order they are extracted or
// installed.
func Ordered() []Bucket {
	return bucketOrder
}

func bucketFor(pkg pkgfile.Package) Bucket {
	if pkg.IsEssential {
		return BucketEssential
	}
	switch pkg.Priority {
	case "required":
		return BucketRequired
	case "important":
		return BucketImportant
	case "standard":
		return BucketStandard
	default:
		return BucketRemaining
	}
}
