// =============================================
// File: internal/captable/types.go
// =============================================
package captable

import (
	"sort"
	"strconv"
	"time"
)

// Currency is an ISO 4217 code from the supported set.
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// RoundType labels a financing event.
type RoundType string

const (
	RoundBootstrap   RoundType = "Bootstrap"
	RoundPreSeed     RoundType = "Pre-Seed"
	RoundSeed        RoundType = "Seed"
	RoundSeriesA     RoundType = "Series A"
	RoundSeriesB     RoundType = "Series B"
	RoundSeriesC     RoundType = "Series C"
	RoundSeriesD     RoundType = "Series D"
	RoundGrowth      RoundType = "Growth"
	RoundSAFE        RoundType = "SAFE"
	RoundConvertible RoundType = "Convertible"
)

// LiquidationPreference is carried on each round as a label only; payout
// math does not enforce it.
type LiquidationPreference string

const (
	Pref1x              LiquidationPreference = "1x"
	Pref1xParticipating LiquidationPreference = "1x-participating"
	Pref2x              LiquidationPreference = "2x"
	Pref2xParticipating LiquidationPreference = "2x-participating"
)

// AntiDilution tags a round's anti-dilution provision. Recorded and
// serialized but never applied to the dilution math.
type AntiDilution string

const (
	AntiDilutionNone            AntiDilution = "none"
	AntiDilutionWeightedAverage AntiDilution = "weighted-average"
	AntiDilutionFullRatchet     AntiDilution = "full-ratchet"
)

// FundingRound is an immutable description of one financing event.
// AntiDilution and DiscountRate are accepted and carried through for
// future use; the evolution engine does not branch on them.
type FundingRound struct {
	Type              RoundType             `json:"type" mapstructure:"type"`
	Year              int                   `json:"year" mapstructure:"year"`
	PreMoneyValuation float64               `json:"pre_money_valuation" mapstructure:"pre_money_valuation"`
	Investment        float64               `json:"investment" mapstructure:"investment"`
	Revenue           float64               `json:"revenue" mapstructure:"revenue"`
	LiquidationPref   LiquidationPreference `json:"liquidation_pref" mapstructure:"liquidation_pref"`
	AntiDilution      AntiDilution          `json:"anti_dilution" mapstructure:"anti_dilution"`
	DiscountRate      float64               `json:"discount_rate" mapstructure:"discount_rate"`
}

// Company is the configuration root for a calculation pass. Instances are
// treated as immutable inputs; engines clone before mutating.
type Company struct {
	Name                string         `json:"name" mapstructure:"name"`
	Currency            Currency       `json:"currency" mapstructure:"currency"`
	FounderShares       int64          `json:"founder_shares" mapstructure:"founder_shares"`
	OptionPoolPercent   float64        `json:"option_pool_percent" mapstructure:"option_pool_percent"`
	OptionPoolTopUp     bool           `json:"option_pool_top_up" mapstructure:"option_pool_top_up"`
	ExitYear            int            `json:"exit_year" mapstructure:"exit_year"`
	ExitValuation       float64        `json:"exit_valuation" mapstructure:"exit_valuation"`
	ExitRevenueMultiple float64        `json:"exit_revenue_multiple" mapstructure:"exit_revenue_multiple"`
	Rounds              []FundingRound `json:"rounds" mapstructure:"rounds"`
}

// Default company parameters applied by NewCompany.
const (
	DefaultFounderShares     = 10_000_000
	DefaultOptionPoolPercent = 10.0
	DefaultExitHorizonYears  = 5
)

// NewCompany creates a company with sensible defaults for every field the
// caller did not decide yet.
func NewCompany(name string) *Company {
	return &Company{
		Name:              name,
		Currency:          CurrencyGBP,
		FounderShares:     DefaultFounderShares,
		OptionPoolPercent: DefaultOptionPoolPercent,
		OptionPoolTopUp:   true,
		ExitYear:          time.Now().Year() + DefaultExitHorizonYears,
	}
}

// Clone returns a deep copy, including the rounds slice.
func (c *Company) Clone() *Company {
	clone := *c
	if c.Rounds != nil {
		clone.Rounds = make([]FundingRound, len(c.Rounds))
		copy(clone.Rounds, c.Rounds)
	}
	return &clone
}

// AddRound appends a financing event. Insertion order is preserved and used
// as the tie-breaker when rounds share a year.
func (c *Company) AddRound(r FundingRound) {
	c.Rounds = append(c.Rounds, r)
}

// sortedRounds returns the rounds ordered by year ascending, ties broken by
// insertion order.
func (c *Company) sortedRounds() []FundingRound {
	rounds := make([]FundingRound, len(c.Rounds))
	copy(rounds, c.Rounds)
	sort.SliceStable(rounds, func(i, j int) bool {
		return rounds[i].Year < rounds[j].Year
	})
	return rounds
}

// LiquidationEntry records one round's share issuance at the moment the
// shares were minted. OwnershipPercent is captured once and never
// recomputed, even though later rounds dilute it through total-share growth.
type LiquidationEntry struct {
	RoundType        RoundType             `json:"round_type"`
	Investment       float64               `json:"investment"`
	Preference       LiquidationPreference `json:"preference"`
	SharesIssued     int64                 `json:"shares_issued"`
	Year             int                   `json:"year"`
	OwnershipPercent float64               `json:"ownership_percent"`
}

// OwnershipStage is a cap table snapshot at one point in the company's
// timeline: incorporation or the state after one funding round.
type OwnershipStage struct {
	Label              string  `json:"label"`
	Year               int     `json:"year"`
	TotalShares        int64   `json:"total_shares"`
	FounderShares      int64   `json:"founder_shares"`
	OptionPoolShares   int64   `json:"option_pool_shares"`
	InvestorShares     int64   `json:"investor_shares"`
	NewInvestorShares  int64   `json:"new_investor_shares"`
	PreMoneyValuation  float64 `json:"pre_money_valuation"`
	PostMoneyValuation float64 `json:"post_money_valuation"`
	Investment         float64 `json:"investment"`
	Revenue            float64 `json:"revenue"`
	RevenueMultiple    float64 `json:"revenue_multiple"`

	FounderOwnership     float64 `json:"founder_ownership"`
	OptionPoolOwnership  float64 `json:"option_pool_ownership"`
	InvestorOwnership    float64 `json:"investor_ownership"`
	NewInvestorOwnership float64 `json:"new_investor_ownership"`

	// LiquidationStack is append-only: each stage carries its own snapshot
	// so entries recorded at earlier stages can never be rewritten.
	LiquidationStack []LiquidationEntry `json:"liquidation_stack"`
}

// RoundReturn is the exit outcome attributed to one round's investors.
type RoundReturn struct {
	RoundType       RoundType `json:"round_type"`
	Year            int       `json:"year"`
	Investment      float64   `json:"investment"`
	YearsHeld       int       `json:"years_held"`
	ExitValue       float64   `json:"exit_value"`
	MultipleOfMoney float64   `json:"multiple_of_money"`
	IRRPercent      float64   `json:"irr_percent"`
	Revenue         float64   `json:"revenue"`
	RevenueMultiple float64   `json:"revenue_multiple"`
}

// ReturnsAnalysis aggregates exit returns across stakeholder classes.
type ReturnsAnalysis struct {
	ExitValuation       float64       `json:"exit_valuation"`
	ExitYear            int           `json:"exit_year"`
	FounderReturn       float64       `json:"founder_return"`
	OptionPoolReturn    float64       `json:"option_pool_return"`
	InvestorReturn      float64       `json:"investor_return"`
	TotalInvestment     float64       `json:"total_investment"`
	WeightedIRRPercent  float64       `json:"weighted_irr_percent"`
	RoundReturns        []RoundReturn `json:"round_returns"`
	FounderOwnership    float64       `json:"founder_ownership"`
	OptionPoolOwnership float64       `json:"option_pool_ownership"`
	InvestorOwnership   float64       `json:"investor_ownership"`
}

// StageCSVHeaders returns the CSV header row for ownership stages.
func StageCSVHeaders() []string {
	return []string{
		"label", "year", "total_shares", "founder_shares",
		"option_pool_shares", "investor_shares", "new_investor_shares",
		"pre_money_valuation", "post_money_valuation", "investment",
		"revenue", "revenue_multiple", "founder_ownership",
		"option_pool_ownership", "investor_ownership",
	}
}

// ToCSV converts the stage to a CSV record matching StageCSVHeaders.
func (s *OwnershipStage) ToCSV() []string {
	return []string{
		s.Label,
		strconv.Itoa(s.Year),
		strconv.FormatInt(s.TotalShares, 10),
		strconv.FormatInt(s.FounderShares, 10),
		strconv.FormatInt(s.OptionPoolShares, 10),
		strconv.FormatInt(s.InvestorShares, 10),
		strconv.FormatInt(s.NewInvestorShares, 10),
		formatFloat(s.PreMoneyValuation),
		formatFloat(s.PostMoneyValuation),
		formatFloat(s.Investment),
		formatFloat(s.Revenue),
		formatFloat(s.RevenueMultiple),
		formatFloat(s.FounderOwnership),
		formatFloat(s.OptionPoolOwnership),
		formatFloat(s.InvestorOwnership),
	}
}

// ReturnCSVHeaders returns the CSV header row for per-round returns.
func ReturnCSVHeaders() []string {
	return []string{
		"round_type", "year", "investment", "years_held", "exit_value",
		"multiple_of_money", "irr_percent", "revenue", "revenue_multiple",
	}
}

// ToCSV converts the round return to a CSV record matching ReturnCSVHeaders.
func (r *RoundReturn) ToCSV() []string {
	return []string{
		string(r.RoundType),
		strconv.Itoa(r.Year),
		formatFloat(r.Investment),
		strconv.Itoa(r.YearsHeld),
		formatFloat(r.ExitValue),
		formatFloat(r.MultipleOfMoney),
		formatFloat(r.IRRPercent),
		formatFloat(r.Revenue),
		formatFloat(r.RevenueMultiple),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
