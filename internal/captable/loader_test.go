package captable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var companyJSON = `{
    "name": "Acme Ltd",
    "currency": "GBP",
    "founder_shares": 10000000,
    "option_pool_percent": 20,
    "option_pool_top_up": true,
    "exit_year": 2030,
    "exit_valuation": 50000000,
    "rounds": [
        {
            "type": "Seed",
            "year": 2025,
            "pre_money_valuation": 5000000,
            "investment": 1000000,
            "revenue": 0
        }
    ]
}`

func writeCompanyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "company.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadCompany(t *testing.T) {
	company, err := LoadCompany(writeCompanyFile(t, companyJSON))
	require.NoError(t, err)

	assert.Equal(t, "Acme Ltd", company.Name)
	assert.Equal(t, CurrencyGBP, company.Currency)
	assert.Equal(t, int64(10_000_000), company.FounderShares)
	require.Len(t, company.Rounds, 1)
	assert.Equal(t, RoundSeed, company.Rounds[0].Type)
	// Unset enum fields get their defaults on load.
	assert.Equal(t, Pref1x, company.Rounds[0].LiquidationPref)
	assert.Equal(t, AntiDilutionNone, company.Rounds[0].AntiDilution)
}

func TestLoadCompanyInvalid(t *testing.T) {
	invalid := `{"name": "", "exit_valuation": 50000000, "exit_year": 2030}`
	_, err := LoadCompany(writeCompanyFile(t, invalid))
	require.Error(t, err)
}

func TestLoadCompanyMissingFile(t *testing.T) {
	_, err := LoadCompany(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
