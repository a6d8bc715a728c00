package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestVerifyFileChecksumSuccess(t *testing.T) {
	content := "package contents"
	path := writeTempFile(t, content)

	sum := sha256.Sum256([]byte(content))
	digest := hex.EncodeToString(sum[:])

	err := VerifyFileChecksum(SHA256, path, digest, uint64(len(content)))
	assert.NoError(t, err)
}

// A checksum mismatch is reported distinctly from a size
// Mismatch.
func TestVerifyFileChecksumMismatch(t *testing.T) {
	content := "package contents"
	path := writeTempFile(t, content)

	err := VerifyFileChecksum(SHA256, path, "0000000000000000000000000000000000000000000000000000000000000000", uint64(len(content)))
	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, path, mismatch.Path)
}

func TestVerifyFileChecksumSizeMismatch(t *testing.T) {
	content := "package contents"
	path := writeTempFile(t, content)

	err := VerifyFileChecksum(SHA256, path, "irrelevant", uint64(len(content))+1)
	var mismatch *SizeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, uint64(len(content)+1), mismatch.Expected)
}

func TestVerifyFileChecksumCaseInsensitive(t *testing.T) {
	content := "package contents"
	path := writeTempFile(t, content)

	sum := sha256.Sum256([]byte(content))
	digest := hex.EncodeToString(sum[:])

	err := VerifyFileChecksum(SHA256, path, toUpper(digest), uint64(len(content)))
	assert.NoError(t, err)
}

func toUpper(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

func TestVerifyFileChecksumMD5(t *testing.T) {
	content := "md5 contents"
	path := writeTempFile(t, content)

	err := VerifyFileChecksum(MD5, path, "bogus", uint64(len(content)))
	var mismatch *ChecksumMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestVerifyFileChecksumMissingFile(t *testing.T) {
	err := VerifyFileChecksum(SHA256, filepath.Join(t.TempDir(), "missing"), "x", 0)
	assert.Error(t, err)
}
