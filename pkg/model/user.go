package model

import (
	// 内部引用
	common "github.com/naturlab/genlab/service/pkg/common"
)

// UserData is the authenticated identity resolved by the auth
// middleware. It is not persisted; staff referenced by orders live in
// the user table below.
type UserData struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    common.Role `json:"role"`
	IsStaff bool        `json:"is_staff"`
}

// Normalize reconciles the role string with the staff flag; identity
// providers send one or the other.
func (u *UserData) Normalize() {
	if u.Role == common.Staff {
		u.IsStaff = true
	}
	if u.Role == "" {
		u.Role = common.Submitter
		if u.IsStaff {
			u.Role = common.Staff
		}
	}
}

// User mirrors the identity provider's account for rows that need a
// stable local foreign key (responsible staff sets).
type User struct {
	BaseModel
	ExternalID string `gorm:"type:varchar(120);not null;uniqueIndex" json:"external_id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Email      string `gorm:"type:varchar(255)" json:"email"`
	IsStaff    bool   `gorm:"not null;default:false" json:"is_staff"`
}

func (*User) TableName() string { return "user" }
