package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/oneagent-tests/installer-server/interfaces"
)

// entry is one installer known to a catalog.
type entry struct {
	system  string
	arch    string
	version string
	path    string
}

// CompareVersions orders installer versions such as "1.300.0.20240101-120000".
// Versions are split on '.' and '-'; segments are compared numerically when
// both are numbers and lexically otherwise. A version that is a prefix of
// another sorts first.
func CompareVersions(a, b string) int {
	as, bs := splitVersion(a), splitVersion(b)
	for i := 0; i < len(as) && i < len(bs); i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func splitVersion(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool { return r == '.' || r == '-' })
}

func compareSegment(a, b string) int {
	an, aErr := strconv.ParseUint(a, 10, 64)
	bn, bErr := strconv.ParseUint(b, 10, 64)
	if aErr == nil && bErr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// versionMatches reports whether an installer with version candidate
// satisfies the requested version.
func versionMatches(requested, candidate string, preferLatest bool) bool {
	if requested == interfaces.LatestVersion {
		return true
	}
	if candidate == requested {
		return true
	}
	return preferLatest && strings.HasPrefix(candidate, requested+".")
}

// selectInstallers filters entries by key and returns their paths ordered
// from oldest to newest, so the preferred match is the last one.
func selectInstallers(entries []entry, system, arch, version string, preferLatest bool) []string {
	var matched []entry
	for _, e := range entries {
		if e.system != system || e.arch != arch {
			continue
		}
		if versionMatches(version, e.version, preferLatest) {
			matched = append(matched, e)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if c := CompareVersions(matched[i].version, matched[j].version); c != 0 {
			return c < 0
		}
		return matched[i].path < matched[j].path
	})

	paths := make([]string, 0, len(matched))
	for _, e := range matched {
		paths = append(paths, e.path)
	}
	return paths
}
