package postgres

import (
	"fmt"
	"time"

	"transport-manager/internal/config"
	"transport-manager/internal/infrastructure/database/postgres/models"
	"transport-manager/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type DB struct {
	*gorm.DB
}

func NewDB(cfg *config.Config) (*DB, error) {
	dsn := cfg.Database.DSN()

	var gormLogLevel gormLogger.LogLevel
	if cfg.Server.Environment == "production" {
		gormLogLevel = gormLogger.Warn
	} else {
		gormLogLevel = gormLogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
		zap.Int("max_open_connections", 25),
		zap.Int("max_idle_connections", 5),
	)

	return &DB{DB: db}, nil
}

// Migrate creates or updates the schema, including the expedition numero
// sequence that backs identifier generation.
func (d *DB) Migrate() error {
	if err := d.DB.Exec("CREATE SEQUENCE IF NOT EXISTS expedition_numero_seq START 1").Error; err != nil {
		return fmt.Errorf("error creating numero sequence: %w", err)
	}

	return d.DB.AutoMigrate(
		&models.ClientModel{},
		&models.DriverModel{},
		&models.VehicleModel{},
		&models.DestinationModel{},
		&models.ServiceTypeModel{},
		&models.TariffModel{},
		&models.TourModel{},
		&models.ExpeditionModel{},
		&models.StatusChangeModel{},
		&models.InvoiceModel{},
		&models.InvoiceExpeditionModel{},
		&models.PaymentModel{},
		&models.IncidentModel{},
		&models.NotificationModel{},
	)
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *DB) Health() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
