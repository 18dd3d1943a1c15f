package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chrissnell/climatequery/pkg/config"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-db", "data/hawaii.sqlite", "-listen", "127.0.0.1:8080", "-debug"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if !opts.set["db"] || !opts.set["listen"] || !opts.set["debug"] {
		t.Errorf("set = %v, expected db, listen and debug", opts.set)
	}
	if opts.set["config"] || opts.set["strict-dates"] {
		t.Errorf("set = %v, expected only the given flags", opts.set)
	}

	if _, err := parseFlags([]string{"-nope"}); err == nil {
		t.Error("parseFlags accepted an unknown flag")
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "climatequery.yaml")
	yaml := `
database:
  path: from-yaml.sqlite
server:
  http-port: 6000
query:
  strict-dates: true
`
	if err := os.WriteFile(cfgFile, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CLIMATE_HTTP_PORT", "7000")
	t.Setenv("CLIMATE_LISTEN_ADDR", "10.0.0.1")

	opts, err := parseFlags([]string{"-config", cfgFile, "-listen", ":8000"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.Database.Path != "from-yaml.sqlite" {
		t.Errorf("database.path = %q, expected the YAML value", cfg.Database.Path)
	}
	if !cfg.Query.StrictDates {
		t.Error("query.strict-dates from YAML was lost")
	}
	if cfg.Server.ListenAddr != "10.0.0.1" {
		t.Errorf("listen-addr = %q, expected the environment value", cfg.Server.ListenAddr)
	}
	if cfg.Server.HTTPPort != 8000 {
		t.Errorf("http-port = %d, expected the flag value", cfg.Server.HTTPPort)
	}
	if cfg.Database.Driver != config.DriverSQLite || !cfg.Database.ReadOnly {
		t.Errorf("database = %+v, expected default driver and read-only", cfg.Database)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	opts, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Database.Path != config.DefaultDBPath || cfg.Server.HTTPPort != config.DefaultHTTPPort {
		t.Errorf("cfg = %+v, expected defaults", cfg)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := map[string][]string{
		"missing config file": {"-config", filepath.Join(t.TempDir(), "missing.yaml")},
		"listen without port": {"-listen", "127.0.0.1"},
		"listen bad port":     {"-listen", "127.0.0.1:http"},
		"port out of range":   {"-listen", ":70000"},
		"empty db path":       {"-db", ""},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			opts, err := parseFlags(args)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if _, err := loadConfig(opts); err == nil {
				t.Error("loadConfig succeeded")
			}
		})
	}
}
