package scopes

import (
	"brs/src/types"

	"gorm.io/gorm"
)

func WithID(id uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithToken(token string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("token = ?", token)
	}
}

// NonTerminal matches agreements still holding (or waiting for) a bike.
func NonTerminal(db *gorm.DB) *gorm.DB {
	return db.Where("status IN (?)", []types.AgreementStatus{
		types.AGREEMENT_PENDING,
		types.AGREEMENT_SIGNED,
	})
}

func AvailableBikes(db *gorm.DB) *gorm.DB {
	return db.Where("availability_status = ?", types.BIKE_AVAILABLE)
}
