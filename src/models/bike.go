package models

import "brs/src/types"

type Bike struct {
	ID                 uint             `gorm:"primarykey" json:"id"`
	Model              string           `json:"model,omitempty"`
	FrameNo            string           `gorm:"uniqueIndex" json:"frame_no,omitempty"`
	PlateNo            string           `json:"plate_no,omitempty"`
	AvailabilityStatus types.BikeStatus `gorm:"default:'available'" json:"availability_status,omitempty"`

	Agreements []Agreement `gorm:"foreignKey:bike_id" json:"agreements,omitempty"`

	types.Timestamps
}
