package model

// GrossMode selects whether the gross figure is entered per month or per year.
type GrossMode string

// Gross entry modes.
const (
	GrossMonthly GrossMode = "monthly"
	GrossAnnual  GrossMode = "annual"
)

// DefaultNHFRate is the standard National Housing Fund contribution rate.
const DefaultNHFRate = 2.5

// TaxInput is the saved tax calculator form. It has no identity and is
// replaced wholesale on every edit.
type TaxInput struct {
	PeriodMode     GrossMode `json:"periodMode"`
	MonthlyGross   float64   `json:"monthlyGross"`
	AnnualGross    float64   `json:"annualGross"`
	PensionRate    float64   `json:"pensionRate"`
	NHFRate        float64   `json:"nhfRate"`
	AnnualRentPaid float64   `json:"annualRentPaid"`
	IncludeNHF     bool      `json:"includeNHF"`
}

// DefaultTaxInput returns an empty form in monthly mode.
func DefaultTaxInput() TaxInput {
	return TaxInput{
		PeriodMode: GrossMonthly,
		NHFRate:    DefaultNHFRate,
	}
}

// AnnualizedGross returns the yearly gross: monthly entries are multiplied
// by twelve, annual entries are used as-is.
func (t TaxInput) AnnualizedGross() float64 {
	if t.PeriodMode == GrossAnnual {
		return t.AnnualGross
	}
	return t.MonthlyGross * 12
}
