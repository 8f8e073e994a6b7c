package models

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equityforge/captable/internal/captable"
)

func TestCompanyRecordRoundTrip(t *testing.T) {
	c := captable.NewCompany("Acme Ltd")
	c.FounderShares = 10_000_000
	c.OptionPoolPercent = 20
	c.ExitYear = 2030
	c.ExitValuation = 50_000_000
	c.AddRound(captable.FundingRound{
		Type:              captable.RoundSeed,
		Year:              2025,
		PreMoneyValuation: 5_000_000,
		Investment:        1_000_000,
		LiquidationPref:   captable.Pref2xParticipating,
		AntiDilution:      captable.AntiDilutionFullRatchet,
		DiscountRate:      0.2,
	})

	record, err := NewCompanyRecord(c)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", record.Name)
	assert.Equal(t, "GBP", record.Currency)

	restored, err := record.Company()
	require.NoError(t, err)

	if !reflect.DeepEqual(c, restored) {
		t.Fatalf("storage round-trip lost data:\noriginal: %+v\nrestored: %+v", c, restored)
	}
	// The carried-but-unused provisions survive the round-trip too.
	assert.Equal(t, captable.AntiDilutionFullRatchet, restored.Rounds[0].AntiDilution)
	assert.InDelta(t, 0.2, restored.Rounds[0].DiscountRate, 1e-9)
}

func TestNewAnalysisRecord(t *testing.T) {
	analysis := &captable.ReturnsAnalysis{
		ExitYear:           2030,
		ExitValuation:      50_000_000,
		FounderReturn:      32_000_000,
		InvestorReturn:     8_000_000,
		TotalInvestment:    1_000_000,
		WeightedIRRPercent: 38.0,
	}

	record, err := NewAnalysisRecord("Acme Ltd", analysis)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", record.CompanyName)
	assert.Equal(t, 2030, record.ExitYear)
	assert.InDelta(t, 38.0, record.WeightedIRRPercent, 1e-9)
	assert.NotEmpty(t, record.Payload)
}
