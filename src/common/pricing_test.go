package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brs/src/types"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func dioModel(t *testing.T) types.BikeModel {
	cfg := DefaultPricingConfig()
	model, err := FindModel(cfg, "honda-dio")
	assert.Nil(t, err)
	return *model
}

func TestComputeQuoteShortRentalNoDiscount(t *testing.T) {
	cfg := DefaultPricingConfig()
	quote := ComputeQuote(dioModel(t), day("2026-01-01"), day("2026-01-04"), false, cfg.Rules)

	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, float64(7500), quote.TotalAmount)
	assert.Equal(t, float64(2500), quote.EffectiveDailyRate)
}

func TestComputeQuoteDiscountAboveThreshold(t *testing.T) {
	cfg := DefaultPricingConfig()
	quote := ComputeQuote(dioModel(t), day("2026-01-01"), day("2026-01-05"), false, cfg.Rules)

	assert.Equal(t, 4, quote.Days)
	assert.InDelta(t, 9000, quote.TotalAmount, 0.001)
	assert.InDelta(t, 2250, quote.EffectiveDailyRate, 0.001)
}

func TestComputeQuoteJustBelowMonthly(t *testing.T) {
	cfg := DefaultPricingConfig()
	quote := ComputeQuote(dioModel(t), day("2026-01-01"), day("2026-01-30"), false, cfg.Rules)

	assert.Equal(t, 29, quote.Days)
	assert.InDelta(t, 65250, quote.TotalAmount, 0.001)
}

func TestComputeQuoteMonthlyProration(t *testing.T) {
	cfg := DefaultPricingConfig()
	quote := ComputeQuote(dioModel(t), day("2026-01-01"), day("2026-01-31"), false, cfg.Rules)

	assert.Equal(t, 30, quote.Days)
	assert.InDelta(t, 60000, quote.TotalAmount, 0.001)
	assert.InDelta(t, 2000, quote.EffectiveDailyRate, 0.001)
}

func TestComputeQuoteSameDayBillsOneDay(t *testing.T) {
	cfg := DefaultPricingConfig()
	quote := ComputeQuote(dioModel(t), day("2026-01-01"), day("2026-01-01"), false, cfg.Rules)

	assert.Equal(t, 1, quote.Days)
	assert.Equal(t, float64(2500), quote.TotalAmount)
}

func TestComputeQuoteOutsideAreaSurcharge(t *testing.T) {
	cfg := DefaultPricingConfig()
	base := ComputeQuote(dioModel(t), day("2026-01-01"), day("2026-01-05"), false, cfg.Rules)
	with := ComputeQuote(dioModel(t), day("2026-01-01"), day("2026-01-05"), true, cfg.Rules)

	assert.InDelta(t, base.TotalAmount+4*500, with.TotalAmount, 0.001)
	// Surcharge never discounts, and the effective rate excludes it.
	assert.Equal(t, base.EffectiveDailyRate, with.EffectiveDailyRate)
}

func TestComputeQuoteDeterministic(t *testing.T) {
	cfg := DefaultPricingConfig()
	a := ComputeQuote(dioModel(t), day("2026-03-10"), day("2026-03-20"), true, cfg.Rules)
	b := ComputeQuote(dioModel(t), day("2026-03-10"), day("2026-03-20"), true, cfg.Rules)
	assert.Equal(t, a, b)
}

func TestFindModelUnknown(t *testing.T) {
	cfg := DefaultPricingConfig()
	_, err := FindModel(cfg, "vespa-px")
	assert.NotNil(t, err)
}

func TestConvertTotal(t *testing.T) {
	assert.InDelta(t, 25, ConvertTotal(7500, 1.0/300), 0.001)
	assert.Equal(t, float64(7500), ConvertTotal(7500, 0))
}
