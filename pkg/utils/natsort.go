package utils

import (
	"strings"
)

// NameLess is the ordering used when assigning genlab ids: names that
// parse as plain integers come first, ordered by value; everything else
// follows in natural order (digit runs compared as integers).
func NameLess(a, b string) bool {
	aInt := isAllDigits(a)
	bInt := isAllDigits(b)
	switch {
	case aInt && bInt:
		if c := compareDigits(a, b); c != 0 {
			return c < 0
		}
		return a < b
	case aInt != bInt:
		return aInt
	default:
		return NaturalCompare(a, b) < 0
	}
}

// NaturalCompare splits both strings into runs of digits and
// non-digits; digit runs compare by integer value, other runs
// lexicographically. A digit run sorts before a non-digit run.
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		aRun, aDigits, aRest := nextRun(a)
		bRun, bDigits, bRest := nextRun(b)

		switch {
		case aDigits && bDigits:
			if c := compareDigits(aRun, bRun); c != 0 {
				return c
			}
		case aDigits != bDigits:
			if aDigits {
				return -1
			}
			return 1
		default:
			if c := strings.Compare(aRun, bRun); c != 0 {
				return c
			}
		}
		a, b = aRest, bRest
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// nextRun cuts the leading maximal run of digits or non-digits.
func nextRun(s string) (run string, digits bool, rest string) {
	digits = isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], digits, s[i:]
}

// compareDigits compares two digit runs as integers without parsing,
// so arbitrarily long runs are safe.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
