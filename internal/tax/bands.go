// Package tax estimates Nigerian personal income tax (PAYE) under the
// legacy and current progressive rate regimes.
package tax

import "math"

// Band is one slice of a progressive rate table. Limit is the width of the
// slice in naira; the last band of a table has an infinite limit.
type Band struct {
	Limit float64
	Rate  float64
}

// BandCharge records how much income a band consumed and the tax it produced.
type BandCharge struct {
	Band
	Taxed float64
	Tax   float64
}

// LegacyBands is the annual rate table used before the Nigeria Tax Act.
var LegacyBands = []Band{
	{Limit: 300000, Rate: 0.07},
	{Limit: 300000, Rate: 0.11},
	{Limit: 500000, Rate: 0.15},
	{Limit: 500000, Rate: 0.19},
	{Limit: 1600000, Rate: 0.21},
	{Limit: math.Inf(1), Rate: 0.24},
}

// CurrentBands is the annual rate table from the Nigeria Tax Act 2025/26.
var CurrentBands = []Band{
	{Limit: 800000, Rate: 0},
	{Limit: 2200000, Rate: 0.15},
	{Limit: 9000000, Rate: 0.18},
	{Limit: 13000000, Rate: 0.21},
	{Limit: 25000000, Rate: 0.23},
	{Limit: math.Inf(1), Rate: 0.25},
}

// Progressive applies bands in order to amount. Each band consumes up to its
// width at its rate until the amount is exhausted.
func Progressive(amount float64, bands []Band) (float64, []BandCharge) {
	remaining := clamp(amount)
	var total float64
	charges := make([]BandCharge, 0, len(bands))

	for _, band := range bands {
		if remaining <= 0 {
			break
		}
		slice := remaining
		if !math.IsInf(band.Limit, 1) && band.Limit < slice {
			slice = band.Limit
		}
		tax := slice * band.Rate
		charges = append(charges, BandCharge{Band: band, Taxed: slice, Tax: tax})
		total += tax
		remaining -= slice
	}

	return total, charges
}

// clamp maps negative, NaN and infinite values to zero.
func clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
