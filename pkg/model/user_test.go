package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	common "github.com/naturlab/genlab/service/pkg/common"
)

func TestUserDataNormalize(t *testing.T) {
	u := &UserData{ID: "u1", Role: common.Staff}
	u.Normalize()
	assert.True(t, u.IsStaff)

	u = &UserData{ID: "u2", IsStaff: true}
	u.Normalize()
	assert.Equal(t, common.Staff, u.Role)

	u = &UserData{ID: "u3"}
	u.Normalize()
	assert.Equal(t, common.Submitter, u.Role)
	assert.False(t, u.IsStaff)
}
