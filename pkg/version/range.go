package version

import (
	"fmt"
	"strings"
)

// Range is an interval of versions. A nil bound is unbounded on that side.
type Range struct {
	Lower          *Version
	Upper          *Version
	LowerInclusive bool
	UpperInclusive bool
}

// Any is the unbounded range; it contains every version.
var Any = Range{}

// AtLeast returns the floor range [v, infinity).
func AtLeast(v Version) Range {
	return Range{Lower: &v, LowerInclusive: true}
}

// IsRange reports whether s uses interval notation, e.g. "[1.0,2.0)".
func IsRange(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && strings.ContainsRune("[(", rune(s[0])) && strings.ContainsRune("])", rune(s[len(s)-1]))
}

// ParseRange parses interval notation or a plain version.
//
// A plain version is a floor: any version at or above it is contained.
// An empty string is [Any]. Both bounds of an interval are required and must
// parse with [Parse].
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Any, nil
	}
	if !IsRange(s) {
		v, err := Parse(s)
		if err != nil {
			return Any, err
		}
		return AtLeast(v), nil
	}

	lo, hi, ok := strings.Cut(s[1:len(s)-1], ",")
	if !ok || strings.Contains(hi, ",") {
		return Any, fmt.Errorf("malformed range %q: want exactly two bounds", s)
	}
	if strings.TrimSpace(lo) == "" || strings.TrimSpace(hi) == "" {
		return Any, fmt.Errorf("malformed range %q: empty bound", s)
	}
	lower, err := Parse(lo)
	if err != nil {
		return Any, fmt.Errorf("range %q lower bound: %w", s, err)
	}
	upper, err := Parse(hi)
	if err != nil {
		return Any, fmt.Errorf("range %q upper bound: %w", s, err)
	}
	return Range{
		Lower:          &lower,
		Upper:          &upper,
		LowerInclusive: s[0] == '[',
		UpperInclusive: s[len(s)-1] == ']',
	}, nil
}

// Contains reports whether target lies within the range.
func (r Range) Contains(target Version) bool {
	if r.Lower != nil && !Satisfies(target, *r.Lower, !r.LowerInclusive) {
		return false
	}
	if r.Upper != nil && !Satisfies(*r.Upper, target, !r.UpperInclusive) {
		return false
	}
	return true
}

// String renders the range in the notation accepted by [ParseRange].
func (r Range) String() string {
	switch {
	case r.Lower == nil && r.Upper == nil:
		return ""
	case r.Upper == nil && r.LowerInclusive:
		return r.Lower.String()
	}
	var b strings.Builder
	b.WriteByte("(["[boolIndex(r.LowerInclusive)])
	if r.Lower != nil {
		b.WriteString(r.Lower.String())
	}
	b.WriteByte(',')
	if r.Upper != nil {
		b.WriteString(r.Upper.String())
	}
	b.WriteByte(")]"[boolIndex(r.UpperInclusive)])
	return b.String()
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Matches parses constraint and reports whether the version string target
// lies within it. A malformed constraint or target returns an error and false.
func Matches(constraint, target string) (bool, error) {
	r, err := ParseRange(constraint)
	if err != nil {
		return false, err
	}
	v, err := Parse(target)
	if err != nil {
		return false, err
	}
	return r.Contains(v), nil
}
