// =============================================
// File: internal/captable/sensitivity.go
// =============================================
package captable

import (
	"fmt"

	"go.uber.org/zap"
)

// SensitivityScenario perturbs one round's pre-money valuation by a
// multiplier before re-running the full calculation.
type SensitivityScenario struct {
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}

// DefaultSensitivityScenarios is the standard -20% .. +20% sweep.
func DefaultSensitivityScenarios() []SensitivityScenario {
	return []SensitivityScenario{
		{Label: "-20%", Multiplier: 0.8},
		{Label: "-10%", Multiplier: 0.9},
		{Label: "Base", Multiplier: 1.0},
		{Label: "+10%", Multiplier: 1.1},
		{Label: "+20%", Multiplier: 1.2},
	}
}

// ScenarioResult is the outcome of one sensitivity scenario. Err is set,
// and the numeric fields left zero, when that scenario's recomputation
// failed; other scenarios in the batch are unaffected.
type ScenarioResult struct {
	Label             string  `json:"label"`
	Multiplier        float64 `json:"multiplier"`
	PreMoneyValuation float64 `json:"pre_money_valuation"`
	MultipleOfMoney   float64 `json:"multiple_of_money"`
	IRRPercent        float64 `json:"irr_percent"`
	FounderReturn     float64 `json:"founder_return"`
	OptionPoolReturn  float64 `json:"option_pool_return"`
	InvestorReturn    float64 `json:"investor_return"`
	Err               string  `json:"error,omitempty"`
}

// CalculateSensitivityScenarios re-runs evolution and returns for each
// scenario with the target round's pre-money valuation scaled by the
// scenario multiplier. The input company is deep-cloned per scenario and
// never mutated. A failing scenario is captured as an error-tagged entry
// rather than aborting the batch.
func (e *Engine) CalculateSensitivityScenarios(c *Company, roundIndex int, scenarios []SensitivityScenario) ([]ScenarioResult, error) {
	if roundIndex < 0 || roundIndex >= len(c.Rounds) {
		return nil, &DataError{
			Message: fmt.Sprintf("round index %d out of range (company has %d rounds)", roundIndex, len(c.Rounds)),
		}
	}
	if len(scenarios) == 0 {
		scenarios = DefaultSensitivityScenarios()
	}

	results := make([]ScenarioResult, 0, len(scenarios))
	for _, scenario := range scenarios {
		results = append(results, e.runScenario(c, roundIndex, scenario))
	}
	return results, nil
}

func (e *Engine) runScenario(c *Company, roundIndex int, scenario SensitivityScenario) ScenarioResult {
	clone := c.Clone()
	clone.Rounds[roundIndex].PreMoneyValuation *= scenario.Multiplier
	target := clone.Rounds[roundIndex]

	result := ScenarioResult{
		Label:             scenario.Label,
		Multiplier:        scenario.Multiplier,
		PreMoneyValuation: target.PreMoneyValuation,
	}

	stages, err := e.CalculateEvolution(clone)
	if err != nil {
		e.logger.Warn("sensitivity scenario failed",
			zap.String("scenario", scenario.Label), zap.Error(err))
		result.Err = err.Error()
		return result
	}

	analysis, err := e.CalculateReturns(stages, clone)
	if err != nil {
		e.logger.Warn("sensitivity scenario failed",
			zap.String("scenario", scenario.Label), zap.Error(err))
		result.Err = err.Error()
		return result
	}

	for _, rr := range analysis.RoundReturns {
		if rr.RoundType == target.Type && rr.Year == target.Year {
			result.MultipleOfMoney = rr.MultipleOfMoney
			result.IRRPercent = rr.IRRPercent
			break
		}
	}
	result.FounderReturn = analysis.FounderReturn
	result.OptionPoolReturn = analysis.OptionPoolReturn
	result.InvestorReturn = analysis.InvestorReturn

	return result
}
