package models

import (
	"time"

	"brs/src/types"
)

type Agreement struct {
	ID             uint                  `gorm:"primarykey" json:"id"`
	AgreementNo    string                `gorm:"uniqueIndex" json:"agreement_no,omitempty"`
	TouristID      uint                  `json:"tourist_id,omitempty"`
	BikeID         *uint                 `json:"bike_id,omitempty"`
	AdminID        *uint                 `json:"admin_id,omitempty"`
	StartDate      time.Time             `gorm:"type:date" json:"start_date,omitempty"`
	EndDate        time.Time             `gorm:"type:date" json:"end_date,omitempty"`
	DailyRate      float64               `json:"daily_rate"`
	TotalAmount    float64               `json:"total_amount"`
	Deposit        float64               `json:"deposit"`
	Status         types.AgreementStatus `gorm:"default:'pending'" json:"status,omitempty"`
	SignatureURL   *string               `json:"signature_url,omitempty"`
	PdfURL         *string               `json:"pdf_url,omitempty"`
	PdfStatus      *types.PdfStatus      `json:"pdf_status,omitempty"`
	SignedAt       *time.Time            `json:"signed_at,omitempty"`
	RequestedModel *string               `json:"requested_model,omitempty"`
	OutsideArea    bool                  `json:"outside_area,omitempty"`

	Tourist *Tourist `gorm:"foreignKey:tourist_id" json:"tourist,omitempty"`
	Bike    *Bike    `gorm:"foreignKey:bike_id" json:"bike,omitempty"`
	Admin   *User    `gorm:"foreignKey:admin_id" json:"admin,omitempty"`

	types.Timestamps
}
