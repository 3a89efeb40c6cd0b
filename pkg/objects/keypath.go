// Package objects implements the object/folder view synthesis and the
// versioned bulk-mutation engine behind the bucket browser API.
//
// The package is a logic layer over the store primitives: it owns key
// normalization, pagination-following, folder view building, batched
// multi-object delete, prefix-scoped delete, and version-aware restore.
// It owns no wire protocol and persists nothing; every value is built
// fresh per request.
package objects

import "strings"

// KeyDelimiter is the path separator for hierarchical object keys.
const KeyDelimiter = "/"

// SplitKey splits a key into its non-empty path segments, discarding
// leading, trailing, and doubled separators.
//
//	SplitKey("")          → nil
//	SplitKey("/foo/bar/") → ["foo", "bar"]
//	SplitKey("a//b")      → ["a", "b"]
func SplitKey(key string) []string {
	if key == "" {
		return nil
	}
	var segments []string
	for _, part := range strings.Split(key, KeyDelimiter) {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// BuildKey joins prefix segments and a name into a normalized key with
// single separators and no leading or trailing separator. Each prefix
// element and the name are themselves normalized by SplitKey, so a
// "/"-delimited prefix string works the same as individual segments.
//
// BuildKey is idempotent: feeding its result back through BuildKey with
// no prefix returns the same key.
//
//	BuildKey("foo//xyz//", "bar", "baz") → "bar/baz/foo/xyz"
//	BuildKey("/foo", "")                 → "foo"
func BuildKey(name string, prefix ...string) string {
	var segments []string
	for _, p := range prefix {
		segments = append(segments, SplitKey(p)...)
	}
	segments = append(segments, SplitKey(name)...)
	return strings.Join(segments, KeyDelimiter)
}

// KeyName returns the leaf segment of a key, or "" for an empty key.
func KeyName(key string) string {
	segments := SplitKey(key)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}
