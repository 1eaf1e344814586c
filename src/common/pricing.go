package common

import (
	"fmt"
	"math"
	"time"

	"brs/src/types"
)

// DefaultPricingConfig is the built-in fleet catalog and rules, used
// whenever no override is stored in the cache or blob store.
func DefaultPricingConfig() types.PricingConfig {
	return types.PricingConfig{
		Models: []types.BikeModel{
			{ID: "honda-dio", Name: "Honda Dio", DailyRateLKR: 2500, MonthlyRateLKR: 60000},
			{ID: "yamaha-ray", Name: "Yamaha Ray ZR", DailyRateLKR: 3000, MonthlyRateLKR: 70000},
			{ID: "honda-pcx", Name: "Honda PCX 150", DailyRateLKR: 5000, MonthlyRateLKR: 110000},
			{ID: "tvs-ntorq", Name: "TVS Ntorq 125", DailyRateLKR: 2800, MonthlyRateLKR: 65000},
			{ID: "bajaj-pulsar", Name: "Bajaj Pulsar 150", DailyRateLKR: 4000, MonthlyRateLKR: 90000},
		},
		Rules: types.PricingRules{
			LongTermDiscountDays:       3,
			LongTermDiscountPercentage: 0.10,
			OutsideAreaRateLKR:         500,
		},
	}
}

func FindModel(cfg types.PricingConfig, modelID string) (*types.BikeModel, error) {
	for i := range cfg.Models {
		if cfg.Models[i].ID == modelID {
			return &cfg.Models[i], nil
		}
	}
	return nil, fmt.Errorf("unknown bike model: %s", modelID)
}

// RentalDays counts billable days for the period. Partial days round
// up, and a same-day rental still bills one day.
func RentalDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	days := int(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// ComputeQuote prices a rental period against a model.
//
// Rentals of 30 days or more bill at the prorated monthly rate with no
// further discount. Shorter rentals bill daily, with the long-term
// discount applied only when the day count strictly exceeds the
// threshold. The outside-area surcharge is flat per day and is never
// discounted.
func ComputeQuote(model types.BikeModel, start, end time.Time, outsideArea bool, rules types.PricingRules) types.Quote {
	days := RentalDays(start, end)

	var total, effectiveDaily float64
	if days >= 30 {
		effectiveDaily = model.MonthlyRateLKR / 30
		total = effectiveDaily * float64(days)
	} else {
		total = float64(days) * model.DailyRateLKR
		if days > rules.LongTermDiscountDays {
			total = total * (1 - rules.LongTermDiscountPercentage)
		}
		effectiveDaily = total / float64(days)
	}
	if outsideArea {
		total += float64(days) * rules.OutsideAreaRateLKR
	}
	return types.Quote{
		TotalAmount:        total,
		Days:               days,
		EffectiveDailyRate: effectiveDaily,
	}
}

// ConvertTotal converts an LKR amount with the given exchange rate.
// A zero or negative rate leaves the amount unchanged.
func ConvertTotal(totalLKR float64, exchangeRate float64) float64 {
	if exchangeRate <= 0 {
		return totalLKR
	}
	return totalLKR * exchangeRate
}
