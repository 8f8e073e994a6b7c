// =============================================
// File: internal/captable/evolution.go
// =============================================
package captable

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// OwnershipSumTolerance is the maximum allowed drift of the per-stage
// ownership percentage sum from 100.0, in percentage points. Anything
// beyond it indicates an arithmetic bug and aborts the pass.
const OwnershipSumTolerance = 0.1

// Engine runs cap table calculations. It is stateless: every method is a
// pure function of its inputs plus the injected logger.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger is replaced with a no-op one.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("captable")}
}

// CalculateEvolution walks the company's funding rounds in chronological
// order and produces one OwnershipStage per round, preceded by an
// incorporation stage. The company itself is never mutated.
func (e *Engine) CalculateEvolution(c *Company) ([]OwnershipStage, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	rounds := c.sortedRounds()

	poolShares, err := initialPoolShares(c.FounderShares, c.OptionPoolPercent)
	if err != nil {
		return nil, err
	}

	incorporationYear := time.Now().Year()
	if len(rounds) > 0 {
		incorporationYear = rounds[0].Year - 1
	}

	stages := make([]OwnershipStage, 0, len(rounds)+1)

	incorporation := OwnershipStage{
		Label:            "Incorporation",
		Year:             incorporationYear,
		TotalShares:      c.FounderShares + poolShares,
		FounderShares:    c.FounderShares,
		OptionPoolShares: poolShares,
	}
	applyOwnershipPercentages(&incorporation)
	if err := checkOwnershipSum(&incorporation); err != nil {
		return nil, err
	}
	stages = append(stages, incorporation)

	var (
		investorShares int64
		stack          []LiquidationEntry
	)

	for i, round := range rounds {
		stage, newPool, newInvestor, entry, err := e.applyRound(c, round, poolShares, investorShares)
		if err != nil {
			return nil, &CalculationError{
				Op: "applyRound",
				Context: map[string]interface{}{
					"round_type":  round.Type,
					"round_index": i,
					"year":        round.Year,
				},
				Err: err,
			}
		}

		poolShares = newPool
		investorShares += newInvestor

		stack = append(stack, entry)
		stage.LiquidationStack = snapshotStack(stack)

		applyOwnershipPercentages(&stage)
		if err := checkOwnershipSum(&stage); err != nil {
			return nil, err
		}
		stages = append(stages, stage)

		e.logger.Debug("round applied",
			zap.String("round_type", string(round.Type)),
			zap.Int("year", round.Year),
			zap.Int64("new_investor_shares", newInvestor),
			zap.Int64("total_shares", stage.TotalShares))
	}

	return stages, nil
}

// applyRound computes one dilution step starting from the previous stage's
// share counts. Founder shares never change; only new investor shares and
// an optional option-pool top-up are minted.
func (e *Engine) applyRound(c *Company, round FundingRound, poolShares, investorShares int64) (OwnershipStage, int64, int64, LiquidationEntry, error) {
	postMoney := round.PreMoneyValuation + round.Investment
	if postMoney <= 0 {
		return OwnershipStage{}, 0, 0, LiquidationEntry{},
			fmt.Errorf("post-money valuation must be positive, got %v", postMoney)
	}

	investorPct := round.Investment / postMoney * 100
	// investorPct < 100 holds for any validated round (investment > 0 and
	// pre-money >= 1), but the division below must never see a zero.
	if investorPct >= 100 {
		return OwnershipStage{}, 0, 0, LiquidationEntry{},
			fmt.Errorf("degenerate round: investor percentage %v >= 100", investorPct)
	}

	sharesBefore := c.FounderShares + poolShares + investorShares
	newInvestorShares := int64(math.Floor(float64(sharesBefore) * investorPct / (100 - investorPct)))

	var topUpShares int64
	if c.OptionPoolTopUp {
		target := int64(math.Floor(float64(sharesBefore+newInvestorShares) * c.OptionPoolPercent / 100))
		if target > poolShares {
			topUpShares = target - poolShares
		}
	}
	newPoolShares := poolShares + topUpShares

	totalAfter := sharesBefore + newInvestorShares + topUpShares

	entry := LiquidationEntry{
		RoundType:        round.Type,
		Investment:       round.Investment,
		Preference:       round.LiquidationPref,
		SharesIssued:     newInvestorShares,
		Year:             round.Year,
		OwnershipPercent: float64(newInvestorShares) / float64(totalAfter) * 100,
	}

	stage := OwnershipStage{
		Label:              string(round.Type),
		Year:               round.Year,
		TotalShares:        totalAfter,
		FounderShares:      c.FounderShares,
		OptionPoolShares:   newPoolShares,
		InvestorShares:     investorShares + newInvestorShares,
		NewInvestorShares:  newInvestorShares,
		PreMoneyValuation:  round.PreMoneyValuation,
		PostMoneyValuation: postMoney,
		Investment:         round.Investment,
		Revenue:            round.Revenue,
		RevenueMultiple:    revenueMultiple(round.PreMoneyValuation, round.Revenue),
	}

	return stage, newPoolShares, newInvestorShares, entry, nil
}

// initialPoolShares sizes the pre-money option pool so that pool ownership
// of (founder + pool) equals poolPercent before any investment.
func initialPoolShares(founderShares int64, poolPercent float64) (int64, error) {
	if poolPercent >= 100 {
		return 0, &CalculationError{
			Op:      "initialPoolShares",
			Context: map[string]interface{}{"option_pool_percent": poolPercent},
			Err:     fmt.Errorf("option pool percent must be below 100"),
		}
	}
	return int64(math.Floor(float64(founderShares) * poolPercent / (100 - poolPercent))), nil
}

// snapshotStack copies the liquidation stack so each stage owns its
// entries; later appends can never reach back into an emitted stage.
func snapshotStack(stack []LiquidationEntry) []LiquidationEntry {
	out := make([]LiquidationEntry, len(stack))
	copy(out, stack)
	return out
}

// OwnershipPercent computes a holder's percentage of total, rounded to one
// decimal place. A zero total yields 0 for every holder.
func OwnershipPercent(shares, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(shares)/float64(total)*1000) / 10
}

func applyOwnershipPercentages(s *OwnershipStage) {
	s.FounderOwnership = OwnershipPercent(s.FounderShares, s.TotalShares)
	s.OptionPoolOwnership = OwnershipPercent(s.OptionPoolShares, s.TotalShares)
	s.InvestorOwnership = OwnershipPercent(s.InvestorShares, s.TotalShares)
	s.NewInvestorOwnership = OwnershipPercent(s.NewInvestorShares, s.TotalShares)
}

// checkOwnershipSum enforces the ownership conservation invariant. A
// violation is always fatal: it means the arithmetic is wrong, not the
// input.
func checkOwnershipSum(s *OwnershipStage) error {
	if s.TotalShares == 0 {
		return nil
	}
	sum := s.FounderOwnership + s.OptionPoolOwnership + s.InvestorOwnership
	if math.Abs(sum-100.0) > OwnershipSumTolerance {
		return &CalculationError{
			Op: "checkOwnershipSum",
			Context: map[string]interface{}{
				"stage":                 s.Label,
				"founder_ownership":     s.FounderOwnership,
				"option_pool_ownership": s.OptionPoolOwnership,
				"investor_ownership":    s.InvestorOwnership,
				"sum":                   sum,
			},
			Err: fmt.Errorf("ownership percentages sum to %v, expected 100 ± %v", sum, OwnershipSumTolerance),
		}
	}
	return nil
}

// revenueMultiple is the entry valuation multiple for a round; 0 when the
// company had no revenue at the time.
func revenueMultiple(preMoney, revenue float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return preMoney / revenue
}
