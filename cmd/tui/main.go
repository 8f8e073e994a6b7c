package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/equityforge/captable/internal/captable"
	"github.com/equityforge/captable/internal/export"
	"github.com/equityforge/captable/internal/ui"
)

func main() {
	companyPath := flag.String("company", "", "path to a company definition file")
	flag.Parse()

	if *companyPath == "" {
		fmt.Fprintln(os.Stderr, "-company is required")
		os.Exit(1)
	}

	logger := zap.NewNop()
	engine := captable.NewEngine(logger)

	company, err := captable.LoadCompany(*companyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load company: %v\n", err)
		os.Exit(1)
	}

	stages, err := engine.CalculateEvolution(company)
	if err != nil {
		fmt.Fprintf(os.Stderr, "calculation failed: %v\n", err)
		os.Exit(1)
	}

	returns, err := engine.CalculateReturns(stages, company)
	if err != nil {
		fmt.Fprintf(os.Stderr, "returns analysis failed: %v\n", err)
		os.Exit(1)
	}

	result := &export.Result{Company: company, Stages: stages, Returns: returns}
	if len(company.Rounds) > 0 {
		if sensitivity, err := engine.CalculateSensitivityScenarios(company, 0, nil); err == nil {
			result.Sensitivity = sensitivity
		}
	}

	program := tea.NewProgram(ui.NewModel(result), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}
