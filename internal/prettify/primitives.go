// Package prettify collapses verbose template expansions, normalizes
// ABI-specific and compiler-specific spellings, and shortens standard
// library typedefs so identifiers match what programmers actually write
// (spec §4.8).
//
// Grounded on original_source/source/utility/prettify.cpp and
// include/utility/replace.hpp for the four replacement primitives.
package prettify

import (
	"regexp"
	"strings"

	"github.com/clang-build-profiler/cbp-go/internal/cbperrors"
)

// ReplaceAll is the literal substring replacement primitive (spec §4.8).
func ReplaceAll(s, from, to string) string {
	return strings.ReplaceAll(s, from, to)
}

// ReplaceAllRegex is the regex replacement primitive.
func ReplaceAllRegex(s string, pattern *regexp.Regexp, to string) string {
	return pattern.ReplaceAllString(s, to)
}

// ReplaceAllDynamically repeatedly replaces every occurrence of from with
// to until a fixpoint is reached, so that a replacement which creates a new
// match (e.g. "> > >" collapsing to ">>>") is caught on a later pass
// instead of being left half-done. It rejects configurations where to is a
// suffix of from, which would let the scan recreate the same match forever.
func ReplaceAllDynamically(s, from, to string) (string, error) {
	if strings.HasSuffix(from, to) {
		return "", cbperrors.New(cbperrors.SelfSimilarReplacement,
			"replacement %q -> %q never terminates: %q is a suffix of %q", from, to, to, from)
	}

	for {
		next := strings.ReplaceAll(s, from, to)
		if next == s {
			return s, nil
		}
		s = next
	}
}

// ReplaceAllTemplate replaces from (which must end in '<') together with
// everything up to and including its matching '>', tracking angle-bracket
// depth so nested templates inside the argument are not truncated early.
func ReplaceAllTemplate(s, from, to string) (string, error) {
	if !strings.HasSuffix(from, "<") {
		return "", cbperrors.New(cbperrors.InvalidTemplatePattern, "pattern %q does not end in '<'", from)
	}

	for {
		idx := strings.Index(s, from)
		if idx < 0 {
			return s, nil
		}
		end, ok := matchingAngleEnd(s, idx+len(from))
		if !ok {
			return s, nil
		}
		s = s[:idx] + to + s[end+1:]
	}
}

// matchingAngleEnd scans forward from pos (just past an already-opened '<')
// tracking depth, returning the index of the '>' that closes it.
func matchingAngleEnd(s string, pos int) (int, bool) {
	depth := 1
	for i := pos; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
