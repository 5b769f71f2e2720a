package version

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Number
	}{
		{"1.0.201", 10201},
		{"0.5.0", 50},
		{"0.0.1", 1},
		{"0.2.6", 26},
		{"1.2.34", 1234},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "1..2", "1.a.2", ".1.2", "1.2."} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", in)
		}
	}
}

func TestCompare(t *testing.T) {
	a := MustParse("0.0.1")
	b := MustParse("0.0.2")
	if Compare(a, b) >= 0 {
		t.Errorf("expected a < b")
	}
	if Compare(b, a) <= 0 {
		t.Errorf("expected b > a")
	}
	if Compare(a, a) != 0 {
		t.Errorf("expected a == a")
	}
}

func TestMax(t *testing.T) {
	got, err := Max([]string{"0.0.1", "0.2.6", "0.1.9"})
	if err != nil {
		t.Fatalf("Max returned error: %v", err)
	}
	if got != "0.2.6" {
		t.Errorf("Max = %q, want 0.2.6", got)
	}
}
