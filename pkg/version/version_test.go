package version

import "testing"

func v(major, minor, micro int) Version { return Version{major, minor, micro} }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"", Wildcard},
		{"1", v(1, Absent, Absent)},
		{"1.2", v(1, 2, Absent)},
		{"1.2.3", v(1, 2, 3)},
		{"3.2.4.Final", v(3, 2, 4)},
		{" 1 . 2 ", v(1, 2, Absent)},
		{"0.0.0", v(0, 0, 0)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{"x", "1.x", "1.2.x", "-1", "1..2", "logging"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
		if got := Extract(in); got != Wildcard {
			t.Errorf("Extract(%q) = %+v, want Wildcard", in, got)
		}
	}
}

func TestExtractPartial(t *testing.T) {
	if got := Extract("1.2"); got != v(1, 2, Absent) {
		t.Errorf("Extract(1.2) = %+v", got)
	}
}

func TestSatisfies(t *testing.T) {
	tests := []struct {
		name      string
		target    Version
		bound     Version
		exclusive bool
		want      bool
	}{
		{"equal inclusive", v(1, 2, 3), v(1, 2, 3), false, true},
		{"equal exclusive", v(1, 2, 3), v(1, 2, 3), true, false},
		{"greater major", v(2, 0, 0), v(1, 9, 9), true, true},
		{"lesser major", v(0, 9, 9), v(1, 0, 0), false, false},
		{"greater micro", v(1, 2, 4), v(1, 2, 3), false, true},
		{"lesser minor", v(1, 1, 9), v(1, 2, 0), false, false},
		{"absent micro in target", v(1, 2, Absent), v(1, 2, 3), false, true},
		{"absent micro in bound", v(1, 2, 0), v(1, 2, Absent), false, true},
		{"absent micro exclusive", v(1, 2, 9), v(1, 2, Absent), true, false},
		{"wildcard target", Wildcard, v(5, 0, 0), false, true},
		{"wildcard bound", v(0, 0, 1), Wildcard, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Satisfies(tt.target, tt.bound, tt.exclusive); got != tt.want {
				t.Errorf("Satisfies(%v, %v, %v) = %v, want %v", tt.target, tt.bound, tt.exclusive, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Version
		want int
	}{
		{v(1, 0, 0), v(1, 0, 0), 0},
		{v(1, 0, 0), v(2, 0, 0), -1},
		{v(2, 0, 0), v(1, 9, 9), 1},
		{v(1, Absent, Absent), v(1, 0, 0), -1},
		{Wildcard, v(0, 0, 0), -1},
		{v(1, 2, Absent), v(1, 2, Absent), 0},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestVersionString(t *testing.T) {
	tests := map[Version]string{
		v(1, 2, 3):           "1.2.3",
		v(1, 2, Absent):      "1.2",
		v(4, Absent, Absent): "4",
		Wildcard:             "*",
		v(0, 0, 0):           "0.0.0",
	}
	for in, want := range tests {
		if got := in.String(); got != want {
			t.Errorf("%+v.String() = %q, want %q", in, got, want)
		}
	}
}
