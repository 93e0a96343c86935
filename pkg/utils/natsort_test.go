package utils

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sortedByName(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool { return NameLess(out[i], out[j]) })
	return out
}

func TestNameLessIntegersFirst(t *testing.T) {
	got := sortedByName([]string{"A1", "10", "2", "B", "1"})
	assert.Equal(t, []string{"1", "2", "10", "A1", "B"}, got)
}

func TestNameLessDigitRuns(t *testing.T) {
	got := sortedByName([]string{"S10", "S2", "S1", "S10b", "S10a"})
	assert.Equal(t, []string{"S1", "S2", "S10", "S10a", "S10b"}, got)
}

func TestNameLessMixedRuns(t *testing.T) {
	// a digit run sorts before a letter run at the same offset
	got := sortedByName([]string{"AB", "A1", "A"})
	assert.Equal(t, []string{"A", "A1", "AB"}, got)
}

func TestNameLessLeadingZeros(t *testing.T) {
	assert.False(t, NameLess("007", "7"))
	assert.True(t, NameLess("7", "007"))
	assert.Equal(t, 0, NaturalCompare("S007", "S7"))
}

func TestNaturalCompareLongDigitRuns(t *testing.T) {
	// longer than an int64, compared without parsing
	a := "X12345678901234567890123456789"
	b := "X12345678901234567890123456790"
	assert.Equal(t, -1, NaturalCompare(a, b))
	assert.Equal(t, 1, NaturalCompare(b, a))
	assert.Equal(t, 0, NaturalCompare(a, a))
}

func TestNaturalComparePrefix(t *testing.T) {
	assert.Equal(t, -1, NaturalCompare("S1", "S1a"))
	assert.Equal(t, 1, NaturalCompare("S1a", "S1"))
}
