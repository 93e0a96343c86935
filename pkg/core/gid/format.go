package gid

import (
	// 外部依赖
	"regexp"
)

// genlab id: G, two-digit year, alphabetic species code, zero-padded
// counter, optional replica tail.
var birdIDPattern = regexp.MustCompile(`^G\d{2}([A-Za-z]+)0*(\d+)(-\d+)?$`)

// BirdID projects a genlab id to the short form used in export views:
// species code plus the counter without leading zeros, keeping any
// replica tail. Nil maps to nil and an id that does not parse is
// returned unchanged.
func BirdID(genlabID *string) *string {
	if genlabID == nil {
		return nil
	}
	m := birdIDPattern.FindStringSubmatch(*genlabID)
	if m == nil {
		return genlabID
	}
	out := m[1] + m[2] + m[3]
	return &out
}
