package models

import (
	"time"

	"brs/src/types"
)

// GuestLink is a capability token letting an unauthenticated tourist
// reach their own agreement. Expiry is evaluated lazily on read.
type GuestLink struct {
	ID          uint                  `gorm:"primarykey" json:"id"`
	AgreementID uint                  `json:"agreement_id,omitempty"`
	Token       string                `gorm:"uniqueIndex" json:"token,omitempty"`
	ExpiresAt   time.Time             `json:"expires_at,omitempty"`
	MaxUses     int                   `json:"max_uses,omitempty"`
	UsedCount   int                   `json:"used_count"`
	Status      types.GuestLinkStatus `gorm:"default:'active'" json:"status,omitempty"`

	Agreement *Agreement `gorm:"foreignKey:agreement_id" json:"agreement,omitempty"`

	types.Timestamps
}
