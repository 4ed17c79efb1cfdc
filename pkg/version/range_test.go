package version

import "testing"

func TestRangeContains(t *testing.T) {
	tests := []struct {
		rng    string
		target string
		want   bool
	}{
		{"[1.0,2.0]", "1.0", true},
		{"[1.0,2.0]", "2.0", true},
		{"[1.0,2.0]", "1.5", true},
		{"(1.0,2.0)", "1.0", false},
		{"(1.0,2.0)", "2.0", false},
		{"(1.0,2.0)", "1.5", true},
		{"[1.0,2.0)", "2.0", false},
		{"(1.0,2.0]", "2.0", true},
		{"[3,4)", "3.1.2", true},
		{"[3,4)", "4", false},
		{"[3,4)", "4.0.1", false},
		{"[3,4)", "2.9", false},
		{"[5,5.1.2]", "5.1.2", true},
		{"[5,5.1.2]", "5.1.3", false},
		{"1.2", "1.2", true},
		{"1.2", "9.0.0", true},
		{"1.2", "1.1.9", false},
		{"", "0.0.1", true},
	}
	for _, tt := range tests {
		got, err := Matches(tt.rng, tt.target)
		if err != nil {
			t.Errorf("Matches(%q, %q) error: %v", tt.rng, tt.target, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.rng, tt.target, got, tt.want)
		}
	}
}

func TestParseRangeMalformed(t *testing.T) {
	for _, in := range []string{"[1.0]", "[1.0,2.0,3.0]", "[,2.0)", "[1.0,)", "[x,2)", "[1,y)", "abc"} {
		if _, err := ParseRange(in); err == nil {
			t.Errorf("ParseRange(%q) expected error", in)
		}
	}
}

func TestIsRange(t *testing.T) {
	tests := map[string]bool{
		"[1,2]":   true,
		"(1,2)":   true,
		" [1,2) ": true,
		"1.0":     false,
		"":        false,
		"[1.0":    false,
	}
	for in, want := range tests {
		if got := IsRange(in); got != want {
			t.Errorf("IsRange(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRangeString(t *testing.T) {
	for _, in := range []string{"[1.0,2.0)", "(1,2]", "1.2.3"} {
		r, err := ParseRange(in)
		if err != nil {
			t.Fatalf("ParseRange(%q) error: %v", in, err)
		}
		if got := r.String(); got != in {
			t.Errorf("ParseRange(%q).String() = %q", in, got)
		}
	}
	if Any.String() != "" {
		t.Errorf("Any.String() = %q, want empty", Any.String())
	}
}

func TestAnyContainsEverything(t *testing.T) {
	for _, s := range []string{"0", "1.2.3", "999.0"} {
		if !Any.Contains(Extract(s)) {
			t.Errorf("Any should contain %s", s)
		}
	}
}
