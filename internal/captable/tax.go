// =============================================
// File: internal/captable/tax.go
// =============================================
package captable

// TaxFlags marks which UK relief schemes apply to a company.
type TaxFlags struct {
	SEISEligible bool `json:"seis_eligible" mapstructure:"seis_eligible"`
	EISEligible  bool `json:"eis_eligible" mapstructure:"eis_eligible"`
	EMIScheme    bool `json:"emi_scheme" mapstructure:"emi_scheme"`
}

// TaxParams holds jurisdiction relief caps and rates. Values are
// configurable; DefaultTaxParams returns the current UK figures.
type TaxParams struct {
	SEISCap          float64 `json:"seis_cap" mapstructure:"seis_cap"`
	SEISRate         float64 `json:"seis_rate" mapstructure:"seis_rate"`
	EISCap           float64 `json:"eis_cap" mapstructure:"eis_cap"`
	EISRate          float64 `json:"eis_rate" mapstructure:"eis_rate"`
	StandardCGTRate  float64 `json:"standard_cgt_rate" mapstructure:"standard_cgt_rate"`
	ConcessionaryCGT float64 `json:"concessionary_cgt_rate" mapstructure:"concessionary_cgt_rate"`
}

// DefaultTaxParams returns UK SEIS/EIS/CGT figures.
func DefaultTaxParams() TaxParams {
	return TaxParams{
		SEISCap:          250_000,
		SEISRate:         0.5,
		EISCap:           1_000_000,
		EISRate:          0.3,
		StandardCGTRate:  0.20,
		ConcessionaryCGT: 0.10,
	}
}

// TaxBenefits is the relief breakdown for one returns analysis.
type TaxBenefits struct {
	SEISRelief    float64 `json:"seis_relief"`
	EISRelief     float64 `json:"eis_relief"`
	EMISaving     float64 `json:"emi_saving"`
	TotalBenefits float64 `json:"total_benefits"`
}

// CalculateUKTaxBenefits applies SEIS/EIS/EMI relief formulas to a returns
// analysis. SEIS relief bases off the first round's investment; EIS relief
// bases off the aggregate investor return, not the investment. Pure
// function, no failure modes.
func CalculateUKTaxBenefits(analysis *ReturnsAnalysis, flags TaxFlags, params TaxParams) TaxBenefits {
	var benefits TaxBenefits

	if flags.SEISEligible && len(analysis.RoundReturns) > 0 {
		base := analysis.RoundReturns[0].Investment
		if base > params.SEISCap {
			base = params.SEISCap
		}
		benefits.SEISRelief = base * params.SEISRate
	}

	if flags.EISEligible {
		base := analysis.InvestorReturn
		if base > params.EISCap {
			base = params.EISCap
		}
		benefits.EISRelief = base * params.EISRate
	}

	if flags.EMIScheme {
		benefits.EMISaving = analysis.OptionPoolReturn * (params.StandardCGTRate - params.ConcessionaryCGT)
	}

	benefits.TotalBenefits = benefits.SEISRelief + benefits.EISRelief + benefits.EMISaving
	return benefits
}
