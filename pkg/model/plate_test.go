package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionCoordinate(t *testing.T) {
	assert.Equal(t, "A1", PositionCoordinate(0))
	assert.Equal(t, "A12", PositionCoordinate(11))
	assert.Equal(t, "B1", PositionCoordinate(12))
	assert.Equal(t, "B2", PositionCoordinate(13))
	assert.Equal(t, "H12", PositionCoordinate(95))

	assert.Equal(t, "", PositionCoordinate(-1))
	assert.Equal(t, "", PositionCoordinate(96))
}
