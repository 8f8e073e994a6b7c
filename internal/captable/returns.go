// =============================================
// File: internal/captable/returns.go
// =============================================
package captable

import (
	"math"

	"go.uber.org/zap"
)

// CalculateReturns derives exit returns for every stakeholder class from
// the final ownership stage and the liquidation stack. Per-round exit
// values use the ownership percentage frozen at issuance, not a re-derived
// current one: a round's cohort of shares is worth that fraction of final
// proceeds regardless of later dilution.
func (e *Engine) CalculateReturns(stages []OwnershipStage, c *Company) (*ReturnsAnalysis, error) {
	if len(stages) == 0 {
		return nil, &DataError{Message: "no ownership stages to analyse"}
	}

	final := stages[len(stages)-1]

	analysis := &ReturnsAnalysis{
		ExitValuation:       c.ExitValuation,
		ExitYear:            c.ExitYear,
		FounderReturn:       final.FounderOwnership / 100 * c.ExitValuation,
		OptionPoolReturn:    final.OptionPoolOwnership / 100 * c.ExitValuation,
		InvestorReturn:      final.InvestorOwnership / 100 * c.ExitValuation,
		FounderOwnership:    final.FounderOwnership,
		OptionPoolOwnership: final.OptionPoolOwnership,
		InvestorOwnership:   final.InvestorOwnership,
	}

	for _, round := range c.sortedRounds() {
		entry, ok := findStackEntry(final.LiquidationStack, round.Type, round.Year)
		if !ok {
			// Non-fatal: the round is omitted from the returns table.
			e.logger.Warn("no liquidation stack entry for round, skipping",
				zap.String("round_type", string(round.Type)),
				zap.Int("year", round.Year))
			continue
		}

		yearsHeld := c.ExitYear - round.Year
		if yearsHeld < 0 {
			yearsHeld = 0
		}

		exitValue := entry.OwnershipPercent / 100 * c.ExitValuation

		var multiple float64
		if round.Investment > 0 {
			multiple = exitValue / round.Investment
		}

		analysis.RoundReturns = append(analysis.RoundReturns, RoundReturn{
			RoundType:       round.Type,
			Year:            round.Year,
			Investment:      round.Investment,
			YearsHeld:       yearsHeld,
			ExitValue:       exitValue,
			MultipleOfMoney: multiple,
			IRRPercent:      AnnualizedIRR(multiple, yearsHeld, round.Investment),
			Revenue:         round.Revenue,
			RevenueMultiple: revenueMultiple(round.PreMoneyValuation, round.Revenue),
		})
		analysis.TotalInvestment += round.Investment
	}

	if analysis.TotalInvestment > 0 {
		var weighted float64
		for _, rr := range analysis.RoundReturns {
			weighted += rr.IRRPercent * rr.Investment / analysis.TotalInvestment
		}
		analysis.WeightedIRRPercent = weighted
	}

	return analysis, nil
}

// AnnualizedIRR is the simple single-inflow/single-outflow IRR implied by
// turning an investment into its multiple over the holding period,
// expressed in percent. Total loss floors at -100.
func AnnualizedIRR(multiple float64, yearsHeld int, investment float64) float64 {
	if yearsHeld <= 0 || investment <= 0 {
		return 0
	}
	if multiple <= 0 {
		return -100
	}
	return (math.Pow(multiple, 1/float64(yearsHeld)) - 1) * 100
}

// findStackEntry returns the first entry matching the round's type and
// year. Two rounds sharing both will resolve to the same entry; the first
// one recorded wins.
func findStackEntry(stack []LiquidationEntry, roundType RoundType, year int) (LiquidationEntry, bool) {
	for _, entry := range stack {
		if entry.RoundType == roundType && entry.Year == year {
			return entry, true
		}
	}
	return LiquidationEntry{}, false
}
