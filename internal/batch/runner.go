// internal/batch/runner.go
package batch

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/equityforge/captable/internal/captable"
	"github.com/equityforge/captable/internal/export"
)

// Runner analyzes many company definition files concurrently. Each file is
// an independent calculation pass; the engine itself stays synchronous.
type Runner struct {
	engine   *captable.Engine
	exporter *export.AnalysisExporter
	logger   *zap.Logger
	workers  int
}

func NewRunner(engine *captable.Engine, exporter *export.AnalysisExporter, logger *zap.Logger, workers int) *Runner {
	if workers <= 0 {
		workers = 1
	}
	return &Runner{
		engine:   engine,
		exporter: exporter,
		logger:   logger,
		workers:  workers,
	}
}

// Outcome is the result of analyzing one company file. A failed file is
// reported here rather than aborting the batch.
type Outcome struct {
	Path       string
	Company    string
	OutputPath string
	Err        error
}

// Run processes the given company files with the configured number of
// workers and returns one outcome per file, ordered by input path.
func (r *Runner) Run(ctx context.Context, paths []string, options export.ExportOptions) []Outcome {
	files := make(chan string)

	var (
		mu       sync.Mutex
		outcomes []Outcome
	)

	g, gCtx := errgroup.WithContext(ctx)

	for i := 0; i < r.workers; i++ {
		workerID := i + 1
		g.Go(func() error {
			logger := r.logger.With(zap.Int("worker_id", workerID))
			for {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				case path, ok := <-files:
					if !ok {
						return nil
					}
					outcome := r.analyzeFile(path, options, logger)
					mu.Lock()
					outcomes = append(outcomes, outcome)
					mu.Unlock()
				}
			}
		})
	}

	g.Go(func() error {
		defer close(files)
		for _, path := range paths {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case files <- path:
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		r.logger.Warn("batch interrupted", zap.Error(err))
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Path < outcomes[j].Path
	})
	return outcomes
}

func (r *Runner) analyzeFile(path string, options export.ExportOptions, logger *zap.Logger) Outcome {
	outcome := Outcome{Path: path}

	company, err := captable.LoadCompany(path)
	if err != nil {
		logger.Warn("failed to load company file", zap.String("path", path), zap.Error(err))
		outcome.Err = err
		return outcome
	}
	outcome.Company = company.Name

	stages, err := r.engine.CalculateEvolution(company)
	if err != nil {
		logger.Warn("evolution failed", zap.String("company", company.Name), zap.Error(err))
		outcome.Err = err
		return outcome
	}

	returns, err := r.engine.CalculateReturns(stages, company)
	if err != nil {
		logger.Warn("returns failed", zap.String("company", company.Name), zap.Error(err))
		outcome.Err = err
		return outcome
	}

	outputPath, err := r.exporter.ExportResult(&export.Result{
		Company: company,
		Stages:  stages,
		Returns: returns,
	}, options)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.OutputPath = outputPath
	logger.Info("company analyzed",
		zap.String("company", company.Name),
		zap.String("output", outputPath))
	return outcome
}
