package tax

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/transit-budget/internal/model"
)

// Regime selects which relief rules and band table apply.
type Regime string

// Supported regimes.
const (
	RegimeLegacy  Regime = "legacy"
	RegimeCurrent Regime = "current"
)

// Relief constants.
const (
	craFloor          = 200000
	craFloorRate      = 0.01
	craGrossRate      = 0.20
	rentReliefRate    = 0.20
	rentReliefCeiling = 500000
)

// Regimes lists the supported regimes in display order.
func Regimes() []Regime {
	return []Regime{RegimeCurrent, RegimeLegacy}
}

// ParseRegime accepts a regime name in any case.
func ParseRegime(s string) (Regime, error) {
	switch r := Regime(strings.ToLower(strings.TrimSpace(s))); r {
	case RegimeLegacy, RegimeCurrent:
		return r, nil
	default:
		return "", fmt.Errorf("unknown tax regime %q (expected legacy or current)", s)
	}
}

// Bands returns the band table for the regime.
func (r Regime) Bands() []Band {
	if r == RegimeLegacy {
		return LegacyBands
	}
	return CurrentBands
}

// Input holds already-annualized figures for a single computation.
type Input struct {
	AnnualGross    float64
	PensionRate    float64
	NHFRate        float64
	NHFBasis       float64
	AnnualRentPaid float64
	IncludeNHF     bool
}

// FromProfile converts the saved calculator form into engine input. Monthly
// gross is annualized and the NHF basis is the annualized gross.
func FromProfile(in model.TaxInput) Input {
	gross := in.AnnualizedGross()
	return Input{
		AnnualGross:    gross,
		PensionRate:    in.PensionRate,
		IncludeNHF:     in.IncludeNHF,
		NHFRate:        in.NHFRate,
		NHFBasis:       gross,
		AnnualRentPaid: in.AnnualRentPaid,
	}
}

// Result is the full breakdown of a computation. Every intermediate figure
// is kept so callers can display it.
type Result struct {
	Regime        Regime
	Bands         []BandCharge
	Gross         float64
	Pension       float64
	NHF           float64
	AdjustedGross float64
	CRA           float64
	RentPaid      float64
	RentRelief    float64
	Relief        float64
	TaxableIncome float64
	Tax           float64
	EffectiveRate float64
	NetAnnual     float64
	NetMonthly    float64
	MonthlyTax    float64
}

// Deductions is pension + NHF + relief.
func (r Result) Deductions() float64 {
	return r.Pension + r.NHF + r.Relief
}

// Compute estimates annual tax for the given regime. It never fails: invalid
// numbers are treated as zero.
func Compute(regime Regime, in Input) Result {
	gross := clamp(in.AnnualGross)
	pension := gross * clamp(in.PensionRate) / 100

	var nhf float64
	if in.IncludeNHF {
		nhf = clamp(in.NHFBasis) * clamp(in.NHFRate) / 100
	}

	res := Result{
		Regime:  regime,
		Gross:   gross,
		Pension: pension,
		NHF:     nhf,
	}

	switch regime {
	case RegimeLegacy:
		res.AdjustedGross = math.Max(0, gross-pension-nhf)
		res.CRA = math.Max(craFloor, craFloorRate*res.AdjustedGross) + craGrossRate*res.AdjustedGross
		res.Relief = res.CRA
	default:
		res.Regime = RegimeCurrent
		res.RentPaid = clamp(in.AnnualRentPaid)
		res.RentRelief = math.Min(rentReliefRate*res.RentPaid, rentReliefCeiling)
		res.Relief = res.RentRelief
	}

	res.TaxableIncome = math.Max(0, gross-pension-nhf-res.Relief)
	res.Tax, res.Bands = Progressive(res.TaxableIncome, res.Regime.Bands())

	if gross > 0 {
		res.EffectiveRate = res.Tax / gross
	}
	res.NetAnnual = gross - res.Tax
	res.NetMonthly = res.NetAnnual / 12
	res.MonthlyTax = res.Tax / 12

	return res
}

// Compare computes every regime for the same input.
func Compare(in Input) map[Regime]Result {
	out := make(map[Regime]Result, 2)
	for _, r := range Regimes() {
		out[r] = Compute(r, in)
	}
	return out
}
