package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/iwtcode/inspectionService/internal/adapters/repositories/database/scan_record"
	"github.com/iwtcode/inspectionService/internal/adapters/repositories/database/settings"
	"github.com/iwtcode/inspectionService/internal/config"
	"github.com/iwtcode/inspectionService/internal/domain/entities"
	"github.com/iwtcode/inspectionService/internal/interfaces"
	"github.com/iwtcode/inspectionService/internal/middleware/logging"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	interfaces.ScanRecordRepository
	interfaces.SettingsRepository
}

func NewRepository(cfg *config.AppConfig, appLogger *logging.Logger) (interfaces.Repository, error) {
	gormLogger := logger.New(
		log.New(appLogger.Writer(), "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "postgres":
		if err := ensurePostgresDatabase(cfg, appLogger); err != nil {
			return nil, err
		}
		dsnApp := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Username,
			cfg.Database.Password,
			cfg.Database.DBName,
			cfg.Database.Port,
		)
		db, err = gorm.Open(postgres.Open(dsnApp), &gorm.Config{Logger: gormLogger})
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к базе данных '%s': %w", cfg.Database.DBName, err)
		}
	default:
		db, err = OpenSQLite(cfg.Database.SQLitePath, gormLogger)
		if err != nil {
			return nil, err
		}
		appLogger.Info("Using SQLite database", "path", cfg.Database.SQLitePath)
	}

	return NewFromDB(db)
}

// OpenSQLite открывает файл базы, создавая каталог при необходимости
func OpenSQLite(path string, gormLogger logger.Interface) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("не удалось создать каталог базы '%s': %w", dir, err)
		}
	}
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite '%s': %w", path, err)
	}
	return db, nil
}

// NewFromDB выполняет миграции и собирает репозитории поверх открытой базы
func NewFromDB(db *gorm.DB) (interfaces.Repository, error) {
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("ошибка выполнения автомиграций: %w", err)
	}
	return &Repository{
		ScanRecordRepository: scan_record.NewScanRecordRepository(db),
		SettingsRepository:   settings.NewSettingsRepository(db),
	}, nil
}

// ensurePostgresDatabase создает целевую БД через служебную 'postgres', если ее нет
func ensurePostgresDatabase(cfg *config.AppConfig, appLogger *logging.Logger) error {
	dsnPostgres := fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=disable",
		cfg.Database.Host,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Port,
	)

	db, err := gorm.Open(postgres.Open(dsnPostgres), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("не удалось подключиться к служебной БД 'postgres': %w", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)"
	if err := db.Raw(query, cfg.Database.DBName).Scan(&exists).Error; err != nil {
		return fmt.Errorf("не удалось проверить существование БД '%s': %w", cfg.Database.DBName, err)
	}
	if exists {
		appLogger.Info("Database already exists.", "db_name", cfg.Database.DBName)
		return nil
	}

	appLogger.Info("Database not found. Creating...", "db_name", cfg.Database.DBName)
	if err := db.Exec(fmt.Sprintf("CREATE DATABASE %s", cfg.Database.DBName)).Error; err != nil {
		return fmt.Errorf("не удалось создать БД '%s': %w", cfg.Database.DBName, err)
	}
	appLogger.Info("Database created successfully.", "db_name", cfg.Database.DBName)
	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&entities.ScanRecord{}, &entities.PlcEndpoint{}, &entities.CameraSettings{})
}
