// ====================================
// File: cmd/captable/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/equityforge/captable/internal/batch"
	"github.com/equityforge/captable/internal/captable"
	"github.com/equityforge/captable/internal/config"
	"github.com/equityforge/captable/internal/export"
	"github.com/equityforge/captable/internal/logger"
	"github.com/equityforge/captable/internal/storage/models"
	"github.com/equityforge/captable/internal/storage/postgres"
)

func main() {
	var (
		configPath  = flag.String("config", "configs/config.json", "path to application config")
		companyPath = flag.String("company", "", "path to a company definition file")
		batchDir    = flag.String("batch", "", "directory of company files to analyze")
		seis        = flag.Bool("seis", false, "company is SEIS eligible")
		eis         = flag.Bool("eis", false, "company is EIS eligible")
		emi         = flag.Bool("emi", false, "company operates an EMI scheme")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      7,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	engine := captable.NewEngine(log.Logger)
	exporter := export.NewAnalysisExporter(log.WithComponent("export"))
	options := export.ExportOptions{
		Format:    export.ExportFormat(cfg.ExportFormat),
		OutputDir: cfg.OutputDir,
	}

	switch {
	case *batchDir != "":
		runBatch(ctx, engine, exporter, log.Logger, cfg, *batchDir, options)
	case *companyPath != "":
		flags := captable.TaxFlags{SEISEligible: *seis, EISEligible: *eis, EMIScheme: *emi}
		runSingle(ctx, engine, exporter, log, cfg, *companyPath, flags, options)
	default:
		fmt.Fprintln(os.Stderr, "either -company or -batch is required")
		os.Exit(1)
	}
}

func runSingle(ctx context.Context, engine *captable.Engine, exporter *export.AnalysisExporter,
	log *logger.Logger, cfg *config.Config, path string, flags captable.TaxFlags, options export.ExportOptions) {

	company, err := captable.LoadCompany(path)
	if err != nil {
		log.LogError("Failed to load company", err, zap.String("path", path))
		os.Exit(1)
	}

	opLog := log.WithCompany(company)
	opLog.Info("Starting cap table analysis")

	stages, err := engine.CalculateEvolution(company)
	if err != nil {
		log.LogError("Evolution failed", err)
		os.Exit(1)
	}

	returns, err := engine.CalculateReturns(stages, company)
	if err != nil {
		log.LogError("Returns analysis failed", err)
		os.Exit(1)
	}

	result := &export.Result{Company: company, Stages: stages, Returns: returns}

	if len(company.Rounds) > 0 {
		roundIndex := cfg.SensitivityRoundIndex
		if roundIndex >= len(company.Rounds) {
			roundIndex = 0
		}
		sensitivity, err := engine.CalculateSensitivityScenarios(company, roundIndex, cfg.Scenarios())
		if err != nil {
			log.LogError("Sensitivity analysis failed", err)
		} else {
			result.Sensitivity = sensitivity
		}
	}

	benefits := captable.CalculateUKTaxBenefits(returns, flags, cfg.TaxParams)
	result.TaxBenefits = &benefits

	outputPath, err := exporter.ExportResult(result, options)
	if err != nil {
		log.LogError("Export failed", err)
		os.Exit(1)
	}

	if cfg.PostgresURL != "" && cfg.PersistAnalyses {
		persist(ctx, log, cfg, company, returns)
	}

	printSummary(result, outputPath)
}

func runBatch(ctx context.Context, engine *captable.Engine, exporter *export.AnalysisExporter,
	log *zap.Logger, cfg *config.Config, dir string, options export.ExportOptions) {

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "no company files found in %s\n", dir)
		os.Exit(1)
	}

	runner := batch.NewRunner(engine, exporter, log, cfg.Workers)
	outcomes := runner.Run(ctx, paths, options)

	var failed int
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", outcome.Path, outcome.Err)
			continue
		}
		fmt.Printf("OK   %s -> %s\n", outcome.Company, outcome.OutputPath)
	}
	fmt.Printf("%d analyzed, %d failed\n", len(outcomes)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func persist(ctx context.Context, log *logger.Logger, cfg *config.Config,
	company *captable.Company, returns *captable.ReturnsAnalysis) {

	store, err := postgres.NewStorage(ctx, cfg.PostgresURL, log.WithComponent("storage"))
	if err != nil {
		log.LogError("Storage unavailable, skipping persistence", err)
		return
	}
	defer store.Close()

	if err := store.RunMigrations(); err != nil {
		log.LogError("Migrations failed", err)
		return
	}

	companyRecord, err := models.NewCompanyRecord(company)
	if err == nil {
		err = store.SaveCompany(ctx, companyRecord)
	}
	if err != nil {
		log.LogError("Failed to persist company", err)
	}

	analysisRecord, err := models.NewAnalysisRecord(company.Name, returns)
	if err == nil {
		err = store.SaveAnalysis(ctx, analysisRecord)
	}
	if err != nil {
		log.LogError("Failed to persist analysis", err)
	}
}

func printSummary(result *export.Result, outputPath string) {
	final := result.Stages[len(result.Stages)-1]
	r := result.Returns

	fmt.Printf("%s: %d stages, exit %d\n", result.Company.Name, len(result.Stages), r.ExitYear)
	fmt.Printf("  founders  %6.1f%%  %14.0f\n", r.FounderOwnership, r.FounderReturn)
	fmt.Printf("  pool      %6.1f%%  %14.0f\n", r.OptionPoolOwnership, r.OptionPoolReturn)
	fmt.Printf("  investors %6.1f%%  %14.0f\n", r.InvestorOwnership, r.InvestorReturn)
	fmt.Printf("  total shares %d, weighted IRR %.1f%%\n", final.TotalShares, r.WeightedIRRPercent)
	if result.TaxBenefits != nil && result.TaxBenefits.TotalBenefits > 0 {
		fmt.Printf("  tax benefits %.0f\n", result.TaxBenefits.TotalBenefits)
	}
	fmt.Printf("  exported to %s\n", outputPath)
}
