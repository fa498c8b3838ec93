package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cureconnect/cureconnect/internal/config"
	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/domain/appointment"
	"github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/internal/domain/prescription"
	"github.com/cureconnect/cureconnect/internal/domain/report"
	"github.com/cureconnect/cureconnect/internal/domain/review"
)

func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		PrepareStmt:                              true,
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: false,
		DisableAutomaticPing:                     false,
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: false,
	}), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")
	start := time.Now()

	schemas := []string{"clinical", "auth", "audit"} // logical namespace
	for _, schema := range schemas {
		if err := db.Exec(fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	models := []any{
		&domain.User{},
		&domain.AuditLog{},
		&doctor.Doctor{},
		&appointment.Appointment{},
		&prescription.Prescription{},
		&review.Review{},
		&report.Report{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	log.Info("migrations completed", zap.Duration("duration", time.Since(start)))
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name  string
		query string
	}{
		// The booking-slot constraint: at most one non-cancelled appointment
		// per (doctor, date, slot). Racing writers that both pass HasConflict
		// still serialize here; the loser gets a unique violation.
		{
			name:  "uq_appointments_doctor_slot",
			query: `CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_doctor_slot ON clinical.appointments (doctor_id, date, time_slot) WHERE deleted_at IS NULL AND status <> 'cancelled'`,
		},
		{
			name:  "idx_appointments_doctor_date",
			query: `CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date ON clinical.appointments (doctor_id, date, status) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_doctors_directory",
			query: `CREATE INDEX IF NOT EXISTS idx_doctors_directory ON clinical.doctors (specialization, status) WHERE deleted_at IS NULL`,
		},
		{
			name:  "idx_reviews_doctor_approved",
			query: `CREATE INDEX IF NOT EXISTS idx_reviews_doctor_approved ON clinical.reviews (doctor_id, status) WHERE deleted_at IS NULL`,
		},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.query).Error; err != nil {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}
