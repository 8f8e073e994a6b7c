// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/equityforge/captable/internal/storage"
	"github.com/equityforge/captable/internal/storage/models"
)

// gormLogger adapts zap to GORM's logger.Interface.
type gormLogger struct {
	zapLogger *zap.Logger
	logLevel  logger.LogLevel
}

func newGormLogger(zapLogger *zap.Logger) logger.Interface {
	return &gormLogger{
		zapLogger: zapLogger,
		logLevel:  logger.Warn,
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Info {
		l.zapLogger.Sugar().Infof(msg, data...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.zapLogger.Sugar().Warnf(msg, data...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.logLevel >= logger.Error {
		l.zapLogger.Sugar().Errorf(msg, data...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
	}

	if err != nil {
		l.zapLogger.Error("trace", append(fields, zap.Error(err))...)
		return
	}

	if l.logLevel >= logger.Info {
		l.zapLogger.Info("trace", fields...)
	}
}

// postgresStorage implements the Storage interface
type postgresStorage struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStorage connects to postgres, retrying with exponential backoff while
// the database comes up.
func NewStorage(ctx context.Context, dsn string, zapLogger *zap.Logger) (storage.Storage, error) {
	gormLogger := newGormLogger(zapLogger.Named("gorm"))

	open := func() (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormLogger,
			NowFunc: func() time.Time {
				return time.Now().UTC()
			},
			SkipDefaultTransaction: true,
		})
	}

	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = 500 * time.Millisecond
	backoffPolicy.MaxInterval = 5 * time.Second

	notify := func(err error, duration time.Duration) {
		zapLogger.Info("Retrying database connection",
			zap.Error(err), zap.Duration("backoff", duration))
	}

	db, err := backoff.Retry(ctx, open,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(5),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &postgresStorage{
		db:     db,
		logger: zapLogger,
	}, nil
}

// RunMigrations uses GORM AutoMigrate under an advisory lock.
func (p *postgresStorage) RunMigrations() error {
	var lockObtained bool
	err := p.db.Raw("SELECT pg_try_advisory_lock(417)").Scan(&lockObtained).Error
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !lockObtained {
		return fmt.Errorf("another migration is in progress")
	}
	defer p.db.Exec("SELECT pg_advisory_unlock(417)")

	err = p.db.AutoMigrate(
		&models.CompanyRecord{},
		&models.AnalysisRecord{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (p *postgresStorage) SaveCompany(ctx context.Context, record *models.CompanyRecord) error {
	// Upsert on name so re-saving a company replaces its definition.
	return p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"currency", "payload", "updated_at"}),
		}).
		Create(record).Error
}

func (p *postgresStorage) GetCompany(ctx context.Context, name string) (*models.CompanyRecord, error) {
	var record models.CompanyRecord
	err := p.db.WithContext(ctx).Where("name = ?", name).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (p *postgresStorage) ListCompanies(ctx context.Context, limit, offset int) ([]*models.CompanyRecord, error) {
	var records []*models.CompanyRecord
	err := p.db.WithContext(ctx).
		Order("name asc").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

func (p *postgresStorage) DeleteCompany(ctx context.Context, name string) error {
	return p.db.WithContext(ctx).Where("name = ?", name).Delete(&models.CompanyRecord{}).Error
}

func (p *postgresStorage) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	return p.db.WithContext(ctx).Create(record).Error
}

func (p *postgresStorage) ListAnalyses(ctx context.Context, companyName string, limit, offset int) ([]*models.AnalysisRecord, error) {
	var records []*models.AnalysisRecord
	err := p.db.WithContext(ctx).
		Where("company_name = ?", companyName).
		Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

func (p *postgresStorage) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
