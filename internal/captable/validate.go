// =============================================
// File: internal/captable/validate.go
// =============================================
package captable

import "fmt"

// Input bounds enforced by Validate.
const (
	MinFounderShares = 1
	MaxFounderShares = 1_000_000_000
	MinYear          = 2020
	MaxYear          = 2050
	MinValuation     = 1.0
	MaxValuation     = 1e12
)

var supportedCurrencies = map[Currency]bool{
	CurrencyGBP: true,
	CurrencyUSD: true,
	CurrencyEUR: true,
}

var supportedRoundTypes = map[RoundType]bool{
	RoundBootstrap:   true,
	RoundPreSeed:     true,
	RoundSeed:        true,
	RoundSeriesA:     true,
	RoundSeriesB:     true,
	RoundSeriesC:     true,
	RoundSeriesD:     true,
	RoundGrowth:      true,
	RoundSAFE:        true,
	RoundConvertible: true,
}

// Validate checks all structural and range constraints on the company and
// its rounds. It is exhaustive per call: every violation is collected and
// reported in a single ValidationError. The evolution engine runs it once
// up front and does not re-validate.
func Validate(c *Company) error {
	var fields []FieldError

	if c.Name == "" {
		fields = append(fields, FieldError{
			Field: "name", Message: "company name must not be empty", Value: c.Name,
		})
	}
	if c.FounderShares < MinFounderShares || c.FounderShares > MaxFounderShares {
		fields = append(fields, FieldError{
			Field:   "founder_shares",
			Message: fmt.Sprintf("must be between %d and %d", MinFounderShares, MaxFounderShares),
			Value:   c.FounderShares,
		})
	}
	if c.OptionPoolPercent < 0 || c.OptionPoolPercent > 100 {
		fields = append(fields, FieldError{
			Field: "option_pool_percent", Message: "must be between 0 and 100", Value: c.OptionPoolPercent,
		})
	}
	if !supportedCurrencies[c.Currency] {
		fields = append(fields, FieldError{
			Field: "currency", Message: "unsupported currency", Value: c.Currency,
		})
	}
	if c.ExitYear < MinYear || c.ExitYear > MaxYear {
		fields = append(fields, FieldError{
			Field:   "exit_year",
			Message: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear),
			Value:   c.ExitYear,
		})
	}
	if c.ExitValuation < MinValuation || c.ExitValuation > MaxValuation {
		fields = append(fields, FieldError{
			Field:   "exit_valuation",
			Message: fmt.Sprintf("must be between %v and %v", MinValuation, MaxValuation),
			Value:   c.ExitValuation,
		})
	}

	for i, r := range c.Rounds {
		prefix := fmt.Sprintf("rounds[%d].", i)
		if !supportedRoundTypes[r.Type] {
			fields = append(fields, FieldError{
				Field: prefix + "type", Message: "unsupported round type", Value: r.Type,
			})
		}
		if r.Year < MinYear || r.Year > MaxYear {
			fields = append(fields, FieldError{
				Field:   prefix + "year",
				Message: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear),
				Value:   r.Year,
			})
		}
		if r.PreMoneyValuation < MinValuation || r.PreMoneyValuation > MaxValuation {
			fields = append(fields, FieldError{
				Field:   prefix + "pre_money_valuation",
				Message: fmt.Sprintf("must be between %v and %v", MinValuation, MaxValuation),
				Value:   r.PreMoneyValuation,
			})
		}
		if r.Investment < MinValuation || r.Investment > MaxValuation {
			fields = append(fields, FieldError{
				Field:   prefix + "investment",
				Message: fmt.Sprintf("must be between %v and %v", MinValuation, MaxValuation),
				Value:   r.Investment,
			})
		}
		if r.Revenue < 0 {
			fields = append(fields, FieldError{
				Field: prefix + "revenue", Message: "must not be negative", Value: r.Revenue,
			})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
