package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-tracker/internal/model"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// ErrNotFound is returned when a record with the requested key does not exist.
var ErrNotFound = errors.New("record not found")

// NewDB opens the database for the given driver and runs migrations.
func NewDB(driver, dsn string, log *zap.SugaredLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", DriverSQLite:
		if dsn == "" {
			dsn = "task_tracker.db"
		}
		if err := ensureDirForSQLite(dsn); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormLogger := logger.Discard
	if log != nil {
		gormLogger = logger.New(
			zap.NewStdLog(log.Desugar()),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	if driver == DriverMySQL {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else if isMemoryDSN(dsn) {
		// Every new connection to :memory: opens a fresh empty database.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.Category{}, &model.Task{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	if err := backfillKeys(db); err != nil {
		return nil, fmt.Errorf("backfill keys: %w", err)
	}

	return db, nil
}

// backfillKeys fills folded lookup columns for rows written before they
// existed.
func backfillKeys(db *gorm.DB) error {
	var categories []model.Category
	if err := db.Where("name_key IS NULL OR name_key = ''").Find(&categories).Error; err != nil {
		return err
	}
	for i := range categories {
		categories[i].RefreshKeys()
		if err := db.Model(&categories[i]).UpdateColumn("name_key", categories[i].NameKey).Error; err != nil {
			return err
		}
	}

	var tasks []model.Task
	if err := db.Where("search_text IS NULL OR search_text = ''").Find(&tasks).Error; err != nil {
		return err
	}
	for i := range tasks {
		tasks[i].RefreshKeys()
		if err := db.Model(&tasks[i]).UpdateColumn("search_text", tasks[i].SearchText).Error; err != nil {
			return err
		}
	}
	return nil
}

func isMemoryDSN(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if isMemoryDSN(dsn) {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
