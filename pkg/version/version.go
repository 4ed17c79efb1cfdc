// Package version evaluates module versions and bounded version ranges.
//
// Versions have up to three numeric components (major.minor.micro) followed by
// an optional qualifier that is ignored for comparison ("3.2.4.Final").
// Absent components are stored as [Absent] and act as wildcards: a requirer
// may under-specify precision, so "1.2" matches any micro version of 1.2.
//
// Ranges use interval notation:
//
//	[1.0,2.0]   1.0 <= v <= 2.0
//	[1.0,2.0)   1.0 <= v <  2.0
//	(1.0,2.0)   1.0 <  v <  2.0
//	1.0         1.0 <= v          (a plain version is a floor)
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Absent marks a version component that was not specified.
const Absent = -1

// Version is a parsed major.minor.micro triple. Absent components are [Absent].
type Version struct {
	Major, Minor, Micro int
}

// Wildcard is the version with every component absent. It is what [Extract]
// returns for malformed input.
var Wildcard = Version{Absent, Absent, Absent}

// String renders the specified components joined by dots, or "*" for [Wildcard].
func (v Version) String() string {
	parts := make([]string, 0, 3)
	for _, c := range []int{v.Major, v.Minor, v.Micro} {
		if c == Absent {
			break
		}
		parts = append(parts, strconv.Itoa(c))
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ".")
}

// IsWildcard reports whether no component is specified.
func (v Version) IsWildcard() bool { return v.Major == Absent }

// Parse parses "N", "N.N" or "N.N.N", optionally followed by ".qualifier".
// Components are trimmed of surrounding whitespace. An empty string parses as
// [Wildcard]; a non-numeric or negative component among the first three is an error.
func Parse(s string) (Version, error) {
	v := Wildcard
	s = strings.TrimSpace(s)
	if s == "" {
		return v, nil
	}
	parts := strings.SplitN(s, ".", 4)
	dst := []*int{&v.Major, &v.Minor, &v.Micro}
	for i := 0; i < len(parts) && i < len(dst); i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 {
			return Wildcard, fmt.Errorf("malformed version %q: component %d is not a number", s, i+1)
		}
		*dst[i] = n
	}
	return v, nil
}

// Extract parses s like [Parse] but never fails: malformed input yields
// [Wildcard]. Callers that want to report the problem should use Parse.
func Extract(s string) Version {
	v, err := Parse(s)
	if err != nil {
		return Wildcard
	}
	return v
}

// Satisfies reports whether target is at or above bound.
//
// Components are compared from major to micro. Comparison stops at the first
// component that differs, or as soon as either side leaves a component
// absent; that partial tie counts as equal. Equal versions satisfy the bound
// unless exclusive is set.
//
// To test an upper bound, swap the arguments: Satisfies(upper, target, excl).
func Satisfies(target, bound Version, exclusive bool) bool {
	t := [3]int{target.Major, target.Minor, target.Micro}
	b := [3]int{bound.Major, bound.Minor, bound.Micro}
	for i := range t {
		if t[i] == Absent || b[i] == Absent {
			break
		}
		if t[i] != b[i] {
			return t[i] > b[i]
		}
	}
	return !exclusive
}

// Compare orders versions numerically component by component, treating an
// absent component as lower than any specified one. It returns -1, 0 or +1.
func Compare(a, b Version) int {
	x := [3]int{a.Major, a.Minor, a.Micro}
	y := [3]int{b.Major, b.Minor, b.Micro}
	for i := range x {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	return 0
}
