// internal/storage/models/models.go
package models

import (
	"encoding/json"
	"time"

	"github.com/equityforge/captable/internal/captable"
)

// BaseModel replaces gorm.Model for more control
type BaseModel struct {
	ID        uint       `gorm:"primarykey"`
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	DeletedAt *time.Time `gorm:"index"`
}

// CompanyRecord stores a company definition as its JSON serialization.
// Storing the payload whole keeps the round-trip lossless for every field,
// including ones added later.
type CompanyRecord struct {
	BaseModel
	Name     string `gorm:"uniqueIndex;not null"`
	Currency string `gorm:"size:3"`
	Payload  []byte `gorm:"type:jsonb;not null"`
}

// NewCompanyRecord serializes a company into a storable record.
func NewCompanyRecord(c *captable.Company) (*CompanyRecord, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return &CompanyRecord{
		Name:     c.Name,
		Currency: string(c.Currency),
		Payload:  payload,
	}, nil
}

// Company reconstructs the stored company.
func (r *CompanyRecord) Company() (*captable.Company, error) {
	var c captable.Company
	if err := json.Unmarshal(r.Payload, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// AnalysisRecord stores the headline results of one calculation pass.
type AnalysisRecord struct {
	BaseModel
	CompanyName        string  `gorm:"index;not null"`
	ExitYear           int     `gorm:"not null"`
	ExitValuation      float64 `gorm:"not null"`
	FounderReturn      float64
	OptionPoolReturn   float64
	InvestorReturn     float64
	TotalInvestment    float64
	WeightedIRRPercent float64
	Payload            []byte `gorm:"type:jsonb"`
}

// NewAnalysisRecord captures a returns analysis for history queries.
func NewAnalysisRecord(companyName string, analysis *captable.ReturnsAnalysis) (*AnalysisRecord, error) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}
	return &AnalysisRecord{
		CompanyName:        companyName,
		ExitYear:           analysis.ExitYear,
		ExitValuation:      analysis.ExitValuation,
		FounderReturn:      analysis.FounderReturn,
		OptionPoolReturn:   analysis.OptionPoolReturn,
		InvestorReturn:     analysis.InvestorReturn,
		TotalInvestment:    analysis.TotalInvestment,
		WeightedIRRPercent: analysis.WeightedIRRPercent,
		Payload:            payload,
	}, nil
}
