package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

const dialect = "postgres"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationSource returns the embedded migration set
func MigrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// NewPostgresDB creates a new PostgreSQL database connection using GORM
func NewPostgresDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dsn := cfg.GetDatabaseDSN()

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Warn)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get generic database object to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)

	return db, nil
}

// Migrate applies every pending migration and returns how many ran
func Migrate(sqlDB *sql.DB) (int, error) {
	n, err := migrate.Exec(sqlDB, dialect, MigrationSource(), migrate.Up)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return n, nil
}

// Rollback reverts up to steps migrations (0 reverts all)
func Rollback(sqlDB *sql.DB, steps int) (int, error) {
	n, err := migrate.ExecMax(sqlDB, dialect, MigrationSource(), migrate.Down, steps)
	if err != nil {
		return n, fmt.Errorf("failed to roll back migrations: %w", err)
	}
	return n, nil
}

// MigrationStatus describes one known migration
type MigrationStatus struct {
	ID        string
	Applied   bool
	AppliedAt *time.Time
}

// Status lists every embedded migration with its applied state, plus any applied
// migration no longer embedded
func Status(sqlDB *sql.DB) ([]MigrationStatus, error) {
	known, err := MigrationSource().FindMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	records, err := migrate.GetMigrationRecords(sqlDB, dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration records: %w", err)
	}

	applied := make(map[string]time.Time, len(records))
	for _, r := range records {
		applied[r.Id] = r.AppliedAt
	}

	out := make([]MigrationStatus, 0, len(known))
	for _, m := range known {
		st := MigrationStatus{ID: m.Id}
		if at, ok := applied[m.Id]; ok {
			at := at
			st.Applied = true
			st.AppliedAt = &at
			delete(applied, m.Id)
		}
		out = append(out, st)
	}
	for id, at := range applied {
		at := at
		out = append(out, MigrationStatus{ID: id, Applied: true, AppliedAt: &at})
	}
	return out, nil
}

// Ping checks database connectivity
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
