package linkdb

import "strings"

// VersionComparator is the pluggable comparator described in spec.md
// §4.7/§9: the core only ever consults its sign. When a Database is
// constructed without one, version constraints are dropped entirely and
// dependency matching degrades to name-only, per spec.md §6.
type VersionComparator interface {
	// Compare returns <0, 0 or >0 as a is less than, equal to, or
	// greater than b.
	Compare(a, b string) int
}

// NaturalVersionComparator is the default, dependency-free comparator:
// a natural-order string comparison (digit runs compared numerically,
// everything else compared byte-wise), generalized from the teacher's
// natsortCompare (apkgdb/natsort.go) from a boolean "precedes" predicate
// into a three-way Compare.
type NaturalVersionComparator struct{}

func (NaturalVersionComparator) Compare(a, b string) int {
	return natCompare(a, b)
}

// natCompare implements natural-order comparison: runs of digits are
// compared as numbers (leading-zero tolerant), everything else
// byte-by-byte.
func natCompare(a, b string) int {
	lnA, lnB := len(a), len(b)
	posA, posB := 0, 0

	for {
		if posA >= lnA {
			if posB >= lnB {
				return 0
			}
			return -1
		}
		if posB >= lnB {
			return 1
		}

		ca, cb := a[posA], b[posB]

		if isDigit(ca) && isDigit(cb) {
			// skip leading zeros (do not count them as significant length)
			for posA < lnA && a[posA] == '0' {
				posA++
			}
			for posB < lnB && b[posB] == '0' {
				posB++
			}

			startA, startB := posA, posB
			for posA < lnA && isDigit(a[posA]) {
				posA++
			}
			for posB < lnB && isDigit(b[posB]) {
				posB++
			}

			digitsA := a[startA:posA]
			digitsB := b[startB:posB]

			if len(digitsA) != len(digitsB) {
				if len(digitsA) < len(digitsB) {
					return -1
				}
				return 1
			}
			if c := strings.Compare(digitsA, digitsB); c != 0 {
				return c
			}
			continue
		}

		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		posA++
		posB++
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// satDirect applies op directly to a three-way comparison sign, per
// spec.md §4.7's "sat(op, v_actual, v_wanted) ≡ cmp(v_actual, v_wanted) OP 0".
func satDirect(op CompareOp, sign int) bool {
	switch op {
	case OpEq:
		return sign == 0
	case OpNe:
		return sign != 0
	case OpGe:
		return sign >= 0
	case OpGt:
		return sign > 0
	case OpLe:
		return sign <= 0
	case OpLt:
		return sign < 0
	}
	return true // OpNone: unconstrained
}

// versionSatisfiesProvide is the fixed-point truth table of spec.md §4.7,
// deciding whether a provides-side constraint (pop, pver) guarantees any
// version permitted by a dependency-side constraint (dop, dver). Ported
// branch-for-branch from the reference version_satisfies.
func versionSatisfiesProvide(dop CompareOp, dver string, pop CompareOp, pver string, cmp VersionComparator) bool {
	if dop == OpNone {
		return true
	}
	if pop == OpNone {
		// an unversioned provide only ever guarantees a bare name, never
		// a specific version range.
		return false
	}

	ret := cmp.Compare(dver, pver)

	if dop == pop {
		switch dop {
		case OpEq:
			return ret == 0
		case OpNe:
			return ret != 0
		case OpGe:
			return ret < 0
		case OpGt:
			return ret <= 0
		case OpLe:
			return ret > 0
		case OpLt:
			return ret >= 0
		}
		return false
	}

	switch dop {
	case OpEq:
		return false
	case OpNe:
		switch pop {
		case OpEq:
			return ret != 0
		case OpGt:
			return ret > 0
		case OpGe:
			return ret >= 0
		case OpLt:
			return ret < 0
		case OpLe:
			return ret <= 0
		}
		return false
	case OpGe:
		switch pop {
		case OpEq, OpGt, OpGe:
			return ret < 0
		}
		return false
	case OpGt:
		switch pop {
		case OpEq, OpGt, OpGe:
			return ret <= 0
		}
		return false
	case OpLe:
		switch pop {
		case OpEq, OpLt, OpLe:
			return ret > 0
		}
		return false
	case OpLt:
		switch pop {
		case OpEq, OpLt, OpLe:
			return ret >= 0
		}
		return false
	}
	return false
}
