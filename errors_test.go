package debstrap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormattingWithName(t *testing.T) {
	err := &Error{Kind: ChecksumMismatch, Op: "verify download", Name: "bash_5.2.15-2_amd64.deb", Err: errors.New("digest mismatch")}
	assert.Contains(t, err.Error(), string(ChecksumMismatch))
	assert.Contains(t, err.Error(), "verify download")
	assert.Contains(t, err.Error(), "bash_5.2.15-2_amd64.deb")
	assert.Contains(t, err.Error(), "digest mismatch")
}

func TestErrorFormattingWithoutName(t *testing.T) {
	err := &Error{Kind: MountFailure, Op: "mount proc", Err: errors.New("permission denied")}
	assert.NotContains(t, err.Error(), `""`)
	assert.Contains(t, err.Error(), "mount proc")
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("underlying")
	err := &Error{Kind: NetworkFailure, Op: "fetch", Err: inner}
	assert.Same(t, inner, errors.Unwrap(err))
	assert.True(t, errors.Is(err, inner))
}

func TestSentinelErrors(t *testing.T) {
	assert.EqualError(t, ErrNotRoot, "must be run as root")
	assert.EqualError(t, ErrWorkspaceNotEmpty, "workspace directory is not empty")
	assert.EqualError(t, ErrTargetNotEmpty, "target directory is not empty")
}
