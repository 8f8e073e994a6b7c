package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/equityforge/captable/internal/captable"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format    ExportFormat
	OutputDir string
}

// AnalysisExporter writes calculation results to disk. The engine itself
// never formats anything; everything presentation-shaped lives here.
type AnalysisExporter struct {
	logger *zap.Logger
}

// NewAnalysisExporter creates a new analysis exporter
func NewAnalysisExporter(logger *zap.Logger) *AnalysisExporter {
	return &AnalysisExporter{
		logger: logger,
	}
}

// Result bundles one full calculation pass for export.
type Result struct {
	Company     *captable.Company         `json:"company"`
	Stages      []captable.OwnershipStage `json:"stages"`
	Returns     *captable.ReturnsAnalysis `json:"returns"`
	Sensitivity []captable.ScenarioResult `json:"sensitivity,omitempty"`
	TaxBenefits *captable.TaxBenefits     `json:"tax_benefits,omitempty"`
}

// ExportResult writes the result in the requested format and returns the
// output path.
func (ae *AnalysisExporter) ExportResult(result *Result, options ExportOptions) (string, error) {
	if result.Company == nil {
		return "", fmt.Errorf("result has no company")
	}
	if len(result.Stages) == 0 {
		return "", fmt.Errorf("result has no ownership stages")
	}

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := ae.generateFilename(result.Company, options)
	outputPath := filepath.Join(options.OutputDir, filename)

	var err error
	switch options.Format {
	case FormatCSV:
		err = ae.exportToCSV(result, outputPath)
	case FormatJSON:
		err = ae.exportToJSON(result, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err != nil {
		return "", err
	}

	ae.logger.Info("Analysis exported",
		zap.String("file", outputPath),
		zap.String("company", result.Company.Name),
		zap.Int("stages", len(result.Stages)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// generateFilename creates a filename based on the company and format
func (ae *AnalysisExporter) generateFilename(c *captable.Company, options ExportOptions) string {
	timestamp := time.Now().Format("20060102_150405")
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(c.Name), " ", "_"))
	if slug == "" {
		slug = "company"
	}
	return fmt.Sprintf("captable_%s_%s.%s", slug, timestamp, options.Format)
}

// exportToCSV writes the stage sequence and the per-round returns table as
// two CSV sections separated by a blank row.
func (ae *AnalysisExporter) exportToCSV(result *Result, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(captable.StageCSVHeaders()); err != nil {
		return fmt.Errorf("failed to write stage headers: %w", err)
	}
	for i := range result.Stages {
		if err := writer.Write(result.Stages[i].ToCSV()); err != nil {
			return fmt.Errorf("failed to write stage: %w", err)
		}
	}

	if result.Returns == nil || len(result.Returns.RoundReturns) == 0 {
		return nil
	}

	if err := writer.Write([]string{}); err != nil {
		return fmt.Errorf("failed to write separator: %w", err)
	}
	if err := writer.Write(captable.ReturnCSVHeaders()); err != nil {
		return fmt.Errorf("failed to write return headers: %w", err)
	}
	for i := range result.Returns.RoundReturns {
		if err := writer.Write(result.Returns.RoundReturns[i].ToCSV()); err != nil {
			return fmt.Errorf("failed to write round return: %w", err)
		}
	}

	return nil
}

// exportToJSON writes the full result with metadata and a summary block.
func (ae *AnalysisExporter) exportToJSON(result *Result, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime time.Time     `json:"export_time"`
		Summary    ExportSummary `json:"summary"`
		Result     *Result       `json:"result"`
	}{
		ExportTime: time.Now(),
		Summary:    ae.calculateSummary(result),
		Result:     result,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportSummary contains headline figures for an exported analysis.
type ExportSummary struct {
	Company            string  `json:"company"`
	Currency           string  `json:"currency"`
	StageCount         int     `json:"stage_count"`
	RoundCount         int     `json:"round_count"`
	FinalTotalShares   int64   `json:"final_total_shares"`
	FounderOwnership   float64 `json:"founder_ownership"`
	ExitValuation      float64 `json:"exit_valuation"`
	FounderReturn      float64 `json:"founder_return"`
	InvestorReturn     float64 `json:"investor_return"`
	TotalInvestment    float64 `json:"total_investment"`
	WeightedIRRPercent float64 `json:"weighted_irr_percent"`
	TotalTaxBenefits   float64 `json:"total_tax_benefits,omitempty"`
}

// calculateSummary derives the headline figures for the summary block
func (ae *AnalysisExporter) calculateSummary(result *Result) ExportSummary {
	final := result.Stages[len(result.Stages)-1]
	summary := ExportSummary{
		Company:          result.Company.Name,
		Currency:         string(result.Company.Currency),
		StageCount:       len(result.Stages),
		RoundCount:       len(result.Company.Rounds),
		FinalTotalShares: final.TotalShares,
		FounderOwnership: final.FounderOwnership,
		ExitValuation:    result.Company.ExitValuation,
	}
	if result.Returns != nil {
		summary.FounderReturn = result.Returns.FounderReturn
		summary.InvestorReturn = result.Returns.InvestorReturn
		summary.TotalInvestment = result.Returns.TotalInvestment
		summary.WeightedIRRPercent = result.Returns.WeightedIRRPercent
	}
	if result.TaxBenefits != nil {
		summary.TotalTaxBenefits = result.TaxBenefits.TotalBenefits
	}
	return summary
}
