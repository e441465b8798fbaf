// Package pathutil maps request paths to a bounded set of metric labels.
package pathutil

import (
	"strings"
)

// Other is the label for any path that is not a registered route.
const Other = "other"

// Routes lists the paths served by the API. Only these appear as metric labels.
var Routes = []string{
	"/health",
	"/health/ready",
	"/process",
	"/reduce",
	"/chunk",
	"/metrics",
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Routes))
	for _, r := range Routes {
		m[r] = struct{}{}
	}
	return m
}()

// NormalizePath strips the query string and a trailing slash, then returns the
// path if it is a known route and Other otherwise. Scanners probing random URLs
// therefore cannot grow label cardinality.
//
//	NormalizePath("/process")       // "/process"
//	NormalizePath("/reduce/?x=1")   // "/reduce"
//	NormalizePath("/wp-admin.php")  // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if _, ok := known[path]; ok {
		return path
	}
	return Other
}

// ExpectedCardinality is the number of distinct labels NormalizePath can return.
func ExpectedCardinality() int {
	return len(known) + 1
}
