package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusNext(t *testing.T) {
	next, ok := StatusDraft.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, next)

	next, ok = StatusConfirmed.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusProcessing, next)

	next, ok = StatusProcessing.Next()
	assert.True(t, ok)
	assert.Equal(t, StatusCompleted, next)

	_, ok = StatusCompleted.Next()
	assert.False(t, ok)
}

func TestOrderStatusDisplayName(t *testing.T) {
	assert.Equal(t, "Draft", StatusDraft.DisplayName())
	assert.Equal(t, "Delivered", StatusConfirmed.DisplayName())
	assert.Equal(t, "Processing", StatusProcessing.DisplayName())
	assert.Equal(t, "Completed", StatusCompleted.DisplayName())
}
