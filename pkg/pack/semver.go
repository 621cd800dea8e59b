package pack

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// validSemver reports whether v is syntactically a valid semver string
// (MAJOR.MINOR.PATCH[-pre][+build]), delegating to Masterminds/semver for
// the parse.
func validSemver(v string) bool {
	_, err := semver.NewVersion(v)
	return err == nil
}

// compareVersions orders two semver strings by comparing their dot-segment
// numeric components left to right, treating any missing segment as 0, and
// ignoring pre-release and build metadata entirely.
//
// This deliberately differs from Masterminds/semver's own Compare, which
// follows strict SemVer precedence (a pre-release sorts below its release,
// e.g. 1.0.0-rc1 < 1.0.0). spec.md's ordering rule has no such exception —
// "1.0" and "1.0.0" compare equal, and pre-release/build suffixes play no
// part in the comparison — so the comparison is implemented directly here
// rather than reused from the library.
func compareVersions(a, b string) int {
	segA := numericSegments(a)
	segB := numericSegments(b)

	n := len(segA)
	if len(segB) > n {
		n = len(segB)
	}
	for i := 0; i < n; i++ {
		var x, y int64
		if i < len(segA) {
			x = segA[i]
		}
		if i < len(segB) {
			y = segB[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}

// numericSegments strips pre-release/build metadata and splits the
// remaining MAJOR.MINOR.PATCH core on '.', parsing each segment as an
// integer.
func numericSegments(v string) []int64 {
	core := v
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	parts := strings.Split(core, ".")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			n = 0
		}
		out = append(out, n)
	}
	return out
}
