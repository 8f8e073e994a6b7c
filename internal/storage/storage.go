// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/equityforge/captable/internal/storage/models"
)

// Storage persists company definitions and analysis history. The engine
// only requires that a saved company round-trips losslessly.
type Storage interface {
	// Companies
	SaveCompany(ctx context.Context, record *models.CompanyRecord) error
	GetCompany(ctx context.Context, name string) (*models.CompanyRecord, error)
	ListCompanies(ctx context.Context, limit, offset int) ([]*models.CompanyRecord, error)
	DeleteCompany(ctx context.Context, name string) error

	// Analyses
	SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error
	ListAnalyses(ctx context.Context, companyName string, limit, offset int) ([]*models.AnalysisRecord, error)

	// Migrations
	RunMigrations() error

	Close() error
}
