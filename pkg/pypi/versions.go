/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: versions.go
Description: Legacy version ordering for release listings. Tokenizes version
strings into numeric and alphabetic segments and compares them so that releases
sort newest-first the way the index presents them, including pre-release and
dev markers sorting below their final release.
*/

package pypi

import (
	"sort"
	"strconv"
	"strings"
)

// versionToken is one segment of a parsed version string. Numeric
// segments compare numerically; alphabetic segments (pre-release and
// dev markers) compare lexically and always sort below both numeric
// segments and the end of a shorter version.
type versionToken struct {
	num     int64
	str     string
	numeric bool
}

// parseVersion splits a version string into tokens. Separators
// ('.', '-', '_', '+') are dropped; digit runs and letter runs become
// their own tokens, so "1.9rc1" parses as [1 9 rc 1].
func parseVersion(v string) []versionToken {
	var tokens []versionToken
	var buf strings.Builder
	var digits bool

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		if digits {
			n, _ := strconv.ParseInt(buf.String(), 10, 64)
			tokens = append(tokens, versionToken{num: n, numeric: true})
		} else {
			tokens = append(tokens, versionToken{str: strings.ToLower(buf.String())})
		}
		buf.Reset()
	}

	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			if buf.Len() > 0 && !digits {
				flush()
			}
			digits = true
			buf.WriteRune(r)
		case r == '.' || r == '-' || r == '_' || r == '+':
			flush()
		default:
			if buf.Len() > 0 && digits {
				flush()
			}
			digits = false
			buf.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// compareVersions returns -1, 0 or 1 ordering a before b. A missing
// token counts as "final": above any alphabetic marker ("1.9" after
// "1.9rc1") and below any further numeric segment ("1.9" before
// "1.9.1").
func compareVersions(a, b string) int {
	ta := parseVersion(a)
	tb := parseVersion(b)

	for i := 0; i < len(ta) || i < len(tb); i++ {
		switch {
		case i >= len(ta):
			if tb[i].numeric {
				return -1
			}
			return 1
		case i >= len(tb):
			if ta[i].numeric {
				return 1
			}
			return -1
		}

		x, y := ta[i], tb[i]
		switch {
		case x.numeric && y.numeric:
			if x.num != y.num {
				if x.num < y.num {
					return -1
				}
				return 1
			}
		case x.numeric != y.numeric:
			// Numeric release segment outranks an alphabetic
			// pre-release marker at the same position.
			if x.numeric {
				return 1
			}
			return -1
		default:
			if x.str != y.str {
				if x.str < y.str {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}

// SortReleases orders version strings newest-first for the releases
// listing. The sort is stable so equal keys keep their input order.
func SortReleases(versions []string) []string {
	sorted := make([]string, len(versions))
	copy(sorted, versions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareVersions(sorted[i], sorted[j]) > 0
	})
	return sorted
}
