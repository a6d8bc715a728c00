// Package rfc822 splits a Debian-archive metadata file (Release, Packages,
// .sources) into the stanzas that make up its RFC-822-like wire format.
package rfc822

import (
	"strconv"
	"strings"
)

// SplitStanzas splits content on blank lines and returns each non-empty
// stanza with trailing/leading blank lines trimmed. Both Release (a single
// stanza) and Packages (many stanzas) files use this as their first pass.
func SplitStanzas(content string) []string {
	var stanzas []string

	for _, block := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
		block = strings.Trim(block, "\n")
		if block == "" {
			continue
		}
		stanzas = append(stanzas, block)
	}

	return stanzas
}

// Field reports the value of a scalar "Key: value" line within a stanza, and
// whether the key was present at all.
func Field(stanza, key string) (string, bool) {
	prefix := key + ": "
	for _, line := range strings.Split(stanza, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix), true
		}
	}
	return "", false
}

// FieldList reads a scalar field and splits it on whitespace, the form used
// by Architectures and Components.
func FieldList(stanza, key string) []string {
	value, ok := Field(stanza, key)
	if !ok {
		return nil
	}
	return strings.Fields(value)
}

// HashBlock collects the continuation lines of a hash block such as:
//
//	SHA256:
//	 <digest> <size> <path>
//	 <digest> <size> <path>
//
// Returns a map from relative path to (digest, size).
func HashBlock(stanza, header string) map[string]HashEntry {
	entries := map[string]HashEntry{}
	lines := strings.Split(stanza, "\n")

	inBlock := false
	for _, line := range lines {
		if strings.HasPrefix(line, header) {
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}
		if !strings.HasPrefix(line, " ") {
			break
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		size, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		entries[fields[2]] = HashEntry{Digest: fields[0], Size: size}
	}

	return entries
}

// HashEntry is one line of a Release hash block.
type HashEntry struct {
	Digest string
	Size   uint64
}
