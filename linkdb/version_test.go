package linkdb

import "testing"

func TestNatCompare(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.2", "1.2", 0},
		{"1.2", "1.10", -1},
		{"1.10", "1.2", 1},
		{"1.02", "1.2", 0},
		{"foo", "bar", 1},
		{"1.0", "1.0.1", -1},
		{"", "", 0},
		{"", "1", -1},
	}
	for _, c := range cases {
		got := natCompare(c.a, c.b)
		if sign(got) != sign(c.want) {
			t.Errorf("natCompare(%q, %q) = %d, want sign %d", c.a, c.b, got, c.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// scenario 7: version truth table for dependency-side constraints of every
// operator against a set of provides specifiers.
func TestVersionSatisfiesProvideTable(t *testing.T) {
	cmp := NaturalVersionComparator{}

	cases := []struct {
		name string
		dop  CompareOp
		dver string
		pop  CompareOp
		pver string
		want bool
	}{
		{"unversioned dep always satisfied", OpNone, "", OpGe, "1.0", true},
		{"unversioned provide never satisfies versioned dep", OpGe, "1.2", OpNone, "", false},
		{"ge dep against equal ge provide not guaranteed", OpGe, "1.2", OpGe, "1.2", false},
		{"eq dep needs eq provide at same version", OpEq, "1.2", OpEq, "1.2", true},
		{"eq dep rejects differing eq provide", OpEq, "1.2", OpEq, "1.3", false},
		{"eq dep against ge provide never matches", OpEq, "1.2", OpGe, "1.0", false},
		{"ne dep satisfied by differing eq provide", OpNe, "2.0", OpEq, "1.5", true},
		{"ne dep rejected by matching eq provide", OpNe, "2.0", OpEq, "2.0", false},
		{"ne dep satisfied by lower ge provide", OpNe, "2.0", OpGe, "1.0", true},
		{"ne dep not satisfied by disjoint gt provide", OpNe, "2.0", OpGt, "2.5", false},
		{"ge dep satisfied by higher ge provide", OpGe, "1.2", OpGe, "1.5", true},
		{"ge dep rejected by lower ge provide", OpGe, "1.2", OpGe, "1.0", false},
		{"ge dep against le provide never matches", OpGe, "1.2", OpLe, "2.0", false},
		{"ge dep satisfied by exact-version provide", OpGe, "1.0", OpEq, "1.5", true},
		{"lt dep satisfied by lower lt provide", OpLt, "2.0", OpLt, "1.5", true},
		{"identical gt constraint matches", OpGt, "1.2", OpGt, "1.2", true},
	}

	for _, c := range cases {
		got := versionSatisfiesProvide(c.dop, c.dver, c.pop, c.pver, cmp)
		if got != c.want {
			t.Errorf("%s: versionSatisfiesProvide(%s%s, %s%s) = %v, want %v",
				c.name, c.dop, c.dver, c.pop, c.pver, got, c.want)
		}
	}
}

func TestParseDependSpec(t *testing.T) {
	cases := []struct {
		in   string
		want DependSpec
	}{
		{"libfoo", DependSpec{Name: "libfoo"}},
		{"libfoo=1.2", DependSpec{Name: "libfoo", Op: OpEq, Version: "1.2"}},
		{"libfoo!=2.0", DependSpec{Name: "libfoo", Op: OpNe, Version: "2.0"}},
		{"libfoo>=1.2", DependSpec{Name: "libfoo", Op: OpGe, Version: "1.2"}},
		{"libfoo<=1.2", DependSpec{Name: "libfoo", Op: OpLe, Version: "1.2"}},
		{"libfoo>1.2", DependSpec{Name: "libfoo", Op: OpGt, Version: "1.2"}},
		{"libfoo<1.2", DependSpec{Name: "libfoo", Op: OpLt, Version: "1.2"}},
	}
	for _, c := range cases {
		got := ParseDependSpec(c.in)
		if got != c.want {
			t.Errorf("ParseDependSpec(%q) = %+v, want %+v", c.in, got, c.want)
		}
		if got.String() != c.in {
			t.Errorf("ParseDependSpec(%q).String() = %q, want %q", c.in, got.String(), c.in)
		}
	}
}
