package captable

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateReturnsSeedScenario(t *testing.T) {
	engine := NewEngine(nil)
	c := testCompany()

	stages, err := engine.CalculateEvolution(c)
	require.NoError(t, err)

	analysis, err := engine.CalculateReturns(stages, c)
	require.NoError(t, err)

	final := stages[len(stages)-1]
	assert.InDelta(t, final.FounderOwnership/100*50_000_000, analysis.FounderReturn, 1e-6)
	assert.InDelta(t, final.OptionPoolOwnership/100*50_000_000, analysis.OptionPoolReturn, 1e-6)
	assert.InDelta(t, final.InvestorOwnership/100*50_000_000, analysis.InvestorReturn, 1e-6)

	require.Len(t, analysis.RoundReturns, 1)
	seed := analysis.RoundReturns[0]
	assert.Equal(t, RoundSeed, seed.RoundType)
	assert.Equal(t, 5, seed.YearsHeld)

	// Exit value uses the percentage frozen at issuance.
	entry := final.LiquidationStack[0]
	expectedExit := entry.OwnershipPercent / 100 * 50_000_000
	assert.InDelta(t, expectedExit, seed.ExitValue, 1e-6)
	assert.InDelta(t, expectedExit/1_000_000, seed.MultipleOfMoney, 1e-9)

	expectedIRR := (math.Pow(seed.MultipleOfMoney, 1.0/5) - 1) * 100
	assert.InDelta(t, expectedIRR, seed.IRRPercent, 1e-9)

	assert.InDelta(t, 1_000_000, analysis.TotalInvestment, 1e-9)
	assert.InDelta(t, seed.IRRPercent, analysis.WeightedIRRPercent, 1e-9)
}

func TestCalculateReturnsEmptyStages(t *testing.T) {
	engine := NewEngine(nil)

	_, err := engine.CalculateReturns(nil, testCompany())
	require.Error(t, err)

	var dErr *DataError
	assert.True(t, errors.As(err, &dErr))
}

func TestCalculateReturnsSkipsUnmatchedRound(t *testing.T) {
	engine := NewEngine(nil)
	c := multiRoundCompany()

	stages, err := engine.CalculateEvolution(c)
	require.NoError(t, err)

	// Damage the final stack so Series B has no entry to match.
	final := &stages[len(stages)-1]
	trimmed := final.LiquidationStack[:0:0]
	for _, entry := range final.LiquidationStack {
		if entry.RoundType != RoundSeriesB {
			trimmed = append(trimmed, entry)
		}
	}
	final.LiquidationStack = trimmed

	analysis, err := engine.CalculateReturns(stages, c)
	require.NoError(t, err)
	assert.Len(t, analysis.RoundReturns, 2)
	for _, rr := range analysis.RoundReturns {
		assert.NotEqual(t, RoundSeriesB, rr.RoundType)
	}
	// Skipped rounds do not contribute to the aggregate investment either.
	assert.InDelta(t, 6_000_000, analysis.TotalInvestment, 1e-9)
}

func TestWeightedIRRIsCapitalWeighted(t *testing.T) {
	engine := NewEngine(nil)
	c := multiRoundCompany()

	stages, err := engine.CalculateEvolution(c)
	require.NoError(t, err)
	analysis, err := engine.CalculateReturns(stages, c)
	require.NoError(t, err)
	require.Len(t, analysis.RoundReturns, 3)

	var expected float64
	for _, rr := range analysis.RoundReturns {
		expected += rr.IRRPercent * rr.Investment / analysis.TotalInvestment
	}
	assert.InDelta(t, expected, analysis.WeightedIRRPercent, 1e-9)
}

func TestAnnualizedIRR(t *testing.T) {
	tests := []struct {
		name       string
		multiple   float64
		yearsHeld  int
		investment float64
		want       float64
	}{
		{"total loss floors at -100", 0, 5, 1_000_000, -100},
		{"zero years held", 3.0, 0, 1_000_000, 0},
		{"negative years held", 3.0, -2, 1_000_000, 0},
		{"zero investment", 3.0, 5, 0, 0},
		{"break even", 1.0, 4, 500_000, 0},
		{"doubles in one year", 2.0, 1, 100_000, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnnualizedIRR(tt.multiple, tt.yearsHeld, tt.investment)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.False(t, math.IsNaN(got))
			assert.False(t, math.IsInf(got, 0))
		})
	}
}

func TestYearsHeldFlooredAtZero(t *testing.T) {
	engine := NewEngine(nil)
	c := testCompany()
	c.ExitYear = 2024
	c.Rounds[0].Year = 2025

	stages, err := engine.CalculateEvolution(c)
	require.NoError(t, err)
	analysis, err := engine.CalculateReturns(stages, c)
	require.NoError(t, err)

	require.Len(t, analysis.RoundReturns, 1)
	assert.Equal(t, 0, analysis.RoundReturns[0].YearsHeld)
	assert.Zero(t, analysis.RoundReturns[0].IRRPercent)
}

func TestDuplicateTypeYearShadowsSecondEntry(t *testing.T) {
	stack := []LiquidationEntry{
		{RoundType: RoundSeed, Year: 2025, OwnershipPercent: 10},
		{RoundType: RoundSeed, Year: 2025, OwnershipPercent: 5},
	}
	entry, ok := findStackEntry(stack, RoundSeed, 2025)
	require.True(t, ok)
	assert.InDelta(t, 10.0, entry.OwnershipPercent, 1e-9)
}
