package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/climatequery/internal/log"
	"github.com/chrissnell/climatequery/pkg/config"
)

// Open connects to the climate dataset described by cfg and verifies the
// connection. With debug set, every SQL statement is logged.
func Open(cfg config.DatabaseData, debug bool) (*gorm.DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	log.Infof("opening climate dataset with the %s driver...", cfg.Driver)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger(debug)})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	log.Info("climate dataset connection successful")

	return db, nil
}

// Close releases the connection pool behind db
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newDialector(cfg config.DatabaseData) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, config.DriverSQLiteCGO:
		return sqlite.New(sqlite.Config{
			DriverName: cfg.Driver,
			DSN:        sqliteDSN(cfg),
		}), nil
	case config.DriverPostgres:
		pgxConfig, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres dsn: %w", err)
		}
		return postgres.New(postgres.Config{
			Conn: stdlib.OpenDB(*pgxConfig),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// sqliteDSN builds the connection string for a file-backed dataset. Both
// modernc and mattn accept "file:" URIs, so mode=ro works for either driver.
func sqliteDSN(cfg config.DatabaseData) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	path := cfg.Path
	if !cfg.ReadOnly {
		return path
	}

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + "mode=ro"
	}
	return fmt.Sprintf("file:%s?mode=ro", path)
}

func newLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	return logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
