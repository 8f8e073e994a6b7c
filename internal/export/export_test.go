package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/equityforge/captable/internal/captable"
)

func computeResult(t *testing.T) *Result {
	t.Helper()

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
		LiquidationPref:   captable.Pref1x,
		AntiDilution:      captable.AntiDilutionNone,
	})

	engine := captable.NewEngine(zap.NewNop())
	stages, err := engine.CalculateEvolution(c)
	require.NoError(t, err)
	returns, err := engine.CalculateReturns(stages, c)
	require.NoError(t, err)

	return &Result{Company: c, Stages: stages, Returns: returns}
}

func TestExportResultCSV(t *testing.T) {
	exporter := NewAnalysisExporter(zap.NewNop())
	tempDir := t.TempDir()

	outputPath, err := exporter.ExportResult(computeResult(t), ExportOptions{
		Format:    FormatCSV,
		OutputDir: tempDir,
	})
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	// Stage header + 2 stages + returns header + 1 round return; the blank
	// separator row is dropped by the CSV reader.
	require.GreaterOrEqual(t, len(records), 4)
	assert.Equal(t, captable.StageCSVHeaders(), records[0])
	assert.Equal(t, "Incorporation", records[1][0])
	assert.Equal(t, "Seed", records[2][0])
}

func TestExportResultJSON(t *testing.T) {
	exporter := NewAnalysisExporter(zap.NewNop())
	tempDir := t.TempDir()

	outputPath, err := exporter.ExportResult(computeResult(t), ExportOptions{
		Format:    FormatJSON,
		OutputDir: tempDir,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var decoded struct {
		Summary ExportSummary `json:"summary"`
		Result  *Result       `json:"result"`
	}
	require.NoError(t, json.Unmarshal(content, &decoded))

	assert.Equal(t, "Acme Ltd", decoded.Summary.Company)
	assert.Equal(t, 2, decoded.Summary.StageCount)
	assert.InDelta(t, 50_000_000, decoded.Summary.ExitValuation, 1e-6)
	require.NotNil(t, decoded.Result)
	assert.Len(t, decoded.Result.Stages, 2)
}

func TestExportFilenameSlug(t *testing.T) {
	exporter := NewAnalysisExporter(zap.NewNop())
	c := captable.NewCompany("Acme Widgets Ltd")

	name := exporter.generateFilename(c, ExportOptions{Format: FormatCSV})
	assert.True(t, strings.HasPrefix(name, "captable_acme_widgets_ltd_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}

func TestExportRejectsEmptyResult(t *testing.T) {
	exporter := NewAnalysisExporter(zap.NewNop())

	_, err := exporter.ExportResult(&Result{Company: captable.NewCompany("X")}, ExportOptions{
		Format:    FormatCSV,
		OutputDir: t.TempDir(),
	})
	assert.Error(t, err)
}

func TestExportUnsupportedFormat(t *testing.T) {
	exporter := NewAnalysisExporter(zap.NewNop())

	_, err := exporter.ExportResult(computeResult(t), ExportOptions{
		Format:    ExportFormat("xml"),
		OutputDir: t.TempDir(),
	})
	assert.Error(t, err)
}
