// =============================================
// File: internal/captable/loader.go
// =============================================
package captable

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadCompany reads a company definition from a JSON or YAML file,
// applies defaults for missing fields and validates the result. Numeric
// fields are expected pre-parsed (no thousands separators); enum fields
// are validated against the supported value sets.
func LoadCompany(path string) (*Company, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := NewCompany("")
	v.SetDefault("currency", string(defaults.Currency))
	v.SetDefault("founder_shares", defaults.FounderShares)
	v.SetDefault("option_pool_percent", defaults.OptionPoolPercent)
	v.SetDefault("option_pool_top_up", defaults.OptionPoolTopUp)
	v.SetDefault("exit_year", defaults.ExitYear)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read company file: %w", err)
	}

	var company Company
	if err := v.Unmarshal(&company); err != nil {
		return nil, fmt.Errorf("unmarshal company file: %w", err)
	}

	for i := range company.Rounds {
		if company.Rounds[i].LiquidationPref == "" {
			company.Rounds[i].LiquidationPref = Pref1x
		}
		if company.Rounds[i].AntiDilution == "" {
			company.Rounds[i].AntiDilution = AntiDilutionNone
		}
	}

	if err := Validate(&company); err != nil {
		return nil, err
	}
	return &company, nil
}
