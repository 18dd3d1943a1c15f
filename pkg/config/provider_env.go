package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvProvider overlays CLIMATE_* environment variables on top of another provider
type EnvProvider struct {
	base   ConfigProvider
	lookup func(string) (string, bool)
}

// NewEnvProvider wraps base with the process environment
func NewEnvProvider(base ConfigProvider) *EnvProvider {
	return &EnvProvider{
		base:   base,
		lookup: os.LookupEnv,
	}
}

// LoadConfig implements ConfigProvider
func (e *EnvProvider) LoadConfig() (*ConfigData, error) {
	config, err := e.base.LoadConfig()
	if err != nil {
		return nil, err
	}

	e.setString("CLIMATE_DB_DRIVER", &config.Database.Driver)
	e.setString("CLIMATE_DB_PATH", &config.Database.Path)
	e.setString("CLIMATE_DB_DSN", &config.Database.DSN)
	e.setString("CLIMATE_LISTEN_ADDR", &config.Server.ListenAddr)
	e.setString("CLIMATE_LOG_FILE", &config.Logging.File)

	if err := e.setInt("CLIMATE_DB_MAX_OPEN_CONNS", &config.Database.MaxOpenConns); err != nil {
		return nil, err
	}
	if err := e.setInt("CLIMATE_DB_MAX_IDLE_CONNS", &config.Database.MaxIdleConns); err != nil {
		return nil, err
	}
	if err := e.setInt("CLIMATE_HTTP_PORT", &config.Server.HTTPPort); err != nil {
		return nil, err
	}
	if err := e.setDuration("CLIMATE_DB_CONN_MAX_LIFETIME", &config.Database.ConnMaxLifetime); err != nil {
		return nil, err
	}
	if err := e.setBool("CLIMATE_DEBUG", &config.Logging.Debug); err != nil {
		return nil, err
	}
	if err := e.setBool("CLIMATE_STRICT_DATES", &config.Query.StrictDates); err != nil {
		return nil, err
	}

	return config, nil
}

func (e *EnvProvider) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *EnvProvider) setString(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *EnvProvider) setInt(key string, dst *int) error {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func (e *EnvProvider) setDuration(key string, dst *time.Duration) error {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

func (e *EnvProvider) setBool(key string, dst *bool) error {
	v, ok := e.get(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}
