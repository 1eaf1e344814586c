package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditEvent rows are append-only. Never updated, never deleted.
type AuditEvent struct {
	ID          uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	AgreementID *uint     `json:"agreement_id,omitempty"`
	Timestamp   time.Time `gorm:"autoCreateTime" json:"timestamp"`
	IPAddress   *string   `json:"ip_address,omitempty"`
	UserAgent   *string   `json:"user_agent,omitempty"`
}
