package gid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func TestBirdID(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil stays nil", nil, nil},
		{"padding stripped", strp("G24ABC00123"), strp("ABC123")},
		{"replica tail kept", strp("G24XYZ00456-12"), strp("XYZ456-12")},
		{"single digit", strp("G03A00001"), strp("A1")},
		{"no match passes through", strp("not-a-genlab-id"), strp("not-a-genlab-id")},
		{"missing code passes through", strp("G2400123"), strp("G2400123")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BirdID(tc.in)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, *tc.want, *got)
			}
		})
	}
}

func TestSequenceID(t *testing.T) {
	assert.Equal(t, "G24ABC", SequenceID(2024, "ABC"))
	assert.Equal(t, "G05LX", SequenceID(2005, "LX"))
	assert.Equal(t, "G00Z", SequenceID(2100, "Z"))
}
