package db

import (
	"embed"
	"errors"
	"fmt"
	"regexp"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/diewo77/go-salesagent/internal/config"
	"github.com/diewo77/go-salesagent/internal/kv"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const connectAttempts = 5

// Connect opens the cache database described by cfg and brings its schema
// up to date. Postgres connections are retried so the app can start
// alongside its database container.
func Connect(cfg config.StoreConfig, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		log.Info("opening sqlite store", zap.String("path", cfg.SQLitePath))
		dialector = sqlite.Open(cfg.SQLitePath)
	case "postgres":
		log.Info("opening postgres store", zap.String("dsn", MaskDSN(cfg.DSN())))
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	var db *gorm.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector, gcfg)
		if err == nil {
			break
		}
		log.Warn("store connection failed, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect store after %d attempts: %w", connectAttempts, err)
	}

	if cfg.Driver == "postgres" && cfg.Migrations {
		log.Info("running sql migrations")
		if err := RunSQLMigrations(cfg.URL()); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the cache tables with gorm's AutoMigrate.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&kv.Entry{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// RunSQLMigrations applies the embedded SQL migrations with golang-migrate.
func RunSQLMigrations(databaseURL string) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

var passwordPattern = regexp.MustCompile(`(password=)(\S+)`)

// MaskDSN hides the password of a key=value DSN for logging.
func MaskDSN(dsn string) string {
	return passwordPattern.ReplaceAllString(dsn, `${1}***`)
}
