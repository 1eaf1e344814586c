package models

import "brs/src/types"

// Tourist is an identity snapshot captured at booking time. Rows are
// never updated after creation; each belongs to exactly one Agreement.
type Tourist struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	FirstName   string  `json:"first_name,omitempty"`
	LastName    string  `json:"last_name,omitempty"`
	PassportNo  string  `json:"passport_no,omitempty"`
	Nationality string  `json:"nationality,omitempty"`
	HomeAddress string  `json:"home_address,omitempty"`
	PhoneNumber string  `json:"phone_number,omitempty"`
	Email       string  `json:"email,omitempty"`
	HotelName   *string `json:"hotel_name,omitempty"`

	types.Timestamps
}
