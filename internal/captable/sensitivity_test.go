package captable

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitivityDefaultSweep(t *testing.T) {
	engine := NewEngine(nil)
	c := testCompany()

	results, err := engine.CalculateSensitivityScenarios(c, 0, nil)
	require.NoError(t, err)
	require.Len(t, results, 5)

	labels := []string{"-20%", "-10%", "Base", "+10%", "+20%"}
	for i, result := range results {
		assert.Equal(t, labels[i], result.Label)
		assert.Empty(t, result.Err)
		assert.Greater(t, result.MultipleOfMoney, 0.0)
		assert.Greater(t, result.FounderReturn, 0.0)
	}

	// A richer pre-money means less dilution for the same cheque, so the
	// investor multiple falls as the multiplier rises.
	for i := 1; i < len(results); i++ {
		assert.Less(t, results[i].MultipleOfMoney, results[i-1].MultipleOfMoney)
	}

	// The base scenario reproduces the unperturbed run.
	stages, err := engine.CalculateEvolution(c)
	require.NoError(t, err)
	analysis, err := engine.CalculateReturns(stages, c)
	require.NoError(t, err)
	base := results[2]
	assert.InDelta(t, analysis.RoundReturns[0].MultipleOfMoney, base.MultipleOfMoney, 1e-9)
	assert.InDelta(t, analysis.FounderReturn, base.FounderReturn, 1e-9)
}

func TestSensitivityDoesNotMutateCompany(t *testing.T) {
	engine := NewEngine(nil)
	c := multiRoundCompany()
	snapshot := c.Clone()

	_, err := engine.CalculateSensitivityScenarios(c, 1, nil)
	require.NoError(t, err)

	if !reflect.DeepEqual(snapshot, c) {
		t.Fatal("sensitivity run mutated the input company")
	}
}

func TestSensitivityRoundIndexOutOfRange(t *testing.T) {
	engine := NewEngine(nil)
	c := testCompany()

	for _, idx := range []int{-1, 1, 99} {
		_, err := engine.CalculateSensitivityScenarios(c, idx, nil)
		require.Error(t, err, "index %d", idx)

		var dErr *DataError
		assert.True(t, errors.As(err, &dErr))
	}
}

func TestSensitivityScenarioFailureIsIsolated(t *testing.T) {
	engine := NewEngine(nil)
	c := testCompany()

	scenarios := []SensitivityScenario{
		{Label: "Base", Multiplier: 1.0},
		// Drives pre-money below the validation floor; this scenario must
		// fail without taking the batch down.
		{Label: "Collapse", Multiplier: 1e-8},
		{Label: "+10%", Multiplier: 1.1},
	}

	results, err := engine.CalculateSensitivityScenarios(c, 0, scenarios)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Empty(t, results[0].Err)
	assert.NotEmpty(t, results[1].Err)
	assert.Zero(t, results[1].MultipleOfMoney)
	assert.Empty(t, results[2].Err)
	assert.Greater(t, results[2].MultipleOfMoney, 0.0)
}
