package models

import "brs/src/types"

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Email        string `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:'admin'" json:"role,omitempty"`

	Agreements []Agreement `gorm:"foreignKey:admin_id" json:"agreements,omitempty"`

	types.Timestamps
}
