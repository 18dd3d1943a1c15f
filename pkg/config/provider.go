package config

import (
	"fmt"
	"time"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// LoadConfig returns the complete configuration
	LoadConfig() (*ConfigData, error)
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Database DatabaseData `yaml:"database"`
	Server   ServerData   `yaml:"server"`
	Logging  LoggingData  `yaml:"logging"`
	Query    QueryData    `yaml:"query"`
}

// DatabaseData describes where the climate dataset lives and how the pool is sized
type DatabaseData struct {
	Driver          string        `yaml:"driver,omitempty"`
	Path            string        `yaml:"path,omitempty"`
	DSN             string        `yaml:"dsn,omitempty"`
	ReadOnly        bool          `yaml:"read-only"`
	MaxOpenConns    int           `yaml:"max-open-conns,omitempty"`
	MaxIdleConns    int           `yaml:"max-idle-conns,omitempty"`
	ConnMaxLifetime time.Duration `yaml:"conn-max-lifetime,omitempty"`
}

// ServerData holds the HTTP listener configuration
type ServerData struct {
	ListenAddr  string `yaml:"listen-addr,omitempty"`
	HTTPPort    int    `yaml:"http-port,omitempty"`
	TLSCertPath string `yaml:"tls-cert-path,omitempty"`
	TLSKeyPath  string `yaml:"tls-key-path,omitempty"`
}

// LoggingData configures the zap logger and its optional rotated log file
type LoggingData struct {
	Debug      bool   `yaml:"debug"`
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max-size-mb,omitempty"`
	MaxBackups int    `yaml:"max-backups,omitempty"`
	MaxAgeDays int    `yaml:"max-age-days,omitempty"`
}

// QueryData controls how route parameters are interpreted
type QueryData struct {
	// StrictDates rejects start/end parameters that are not YYYY-MM-DD
	// calendar dates with a 400 instead of passing them through.
	StrictDates bool `yaml:"strict-dates"`
}

// Supported database drivers
const (
	DriverSQLite      = "sqlite"  // modernc.org/sqlite, pure Go
	DriverSQLiteCGO   = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPostgres    = "postgres"
	DefaultDBPath     = "Resources/hawaii.sqlite"
	DefaultHTTPPort   = 5000
	DefaultListenAddr = "0.0.0.0"
)

// Defaults returns the built-in configuration
func Defaults() *ConfigData {
	return &ConfigData{
		Database: DatabaseData{
			Driver:       DriverSQLite,
			Path:         DefaultDBPath,
			ReadOnly:     true,
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		},
		Server: ServerData{
			ListenAddr: DefaultListenAddr,
			HTTPPort:   DefaultHTTPPort,
		},
		Logging: LoggingData{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Addr returns the host:port the HTTP server listens on
func (s ServerData) Addr() string {
	return fmt.Sprintf("%v:%v", s.ListenAddr, s.HTTPPort)
}

// Validate checks the configuration for values the service cannot start with
func (c *ConfigData) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverSQLiteCGO:
		if c.Database.Path == "" && c.Database.DSN == "" {
			return fmt.Errorf("database.path is required for the %s driver", c.Database.Driver)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q (use sqlite, sqlite3 or postgres)", c.Database.Driver)
	}

	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database pool sizes must not be negative")
	}
	if c.Database.ConnMaxLifetime < 0 {
		return fmt.Errorf("database.conn-max-lifetime must not be negative")
	}

	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http-port %d is out of range", c.Server.HTTPPort)
	}
	if (c.Server.TLSCertPath == "") != (c.Server.TLSKeyPath == "") {
		return fmt.Errorf("server.tls-cert-path and server.tls-key-path must be set together")
	}

	return nil
}

// DefaultProvider serves the built-in defaults
type DefaultProvider struct{}

// NewDefaultProvider creates a provider that returns Defaults()
func NewDefaultProvider() *DefaultProvider {
	return &DefaultProvider{}
}

// LoadConfig implements ConfigProvider
func (DefaultProvider) LoadConfig() (*ConfigData, error) {
	return Defaults(), nil
}
