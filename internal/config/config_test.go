package config

import (
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dialect != "sqlite" {
		t.Errorf("Expected dialect sqlite, got %s", cfg.Dialect)
	}
	if cfg.Database != "alphadb" {
		t.Errorf("Expected database alphadb, got %s", cfg.Database)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected log level info, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name:    "valid default",
			cfg:     DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "invalid dialect",
			cfg:     &Config{Database: "db", Dialect: "oracle", Logging: LoggingConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name:    "missing database",
			cfg:     &Config{Dialect: "mysql", Logging: LoggingConfig{Level: "info"}},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			cfg:     &Config{Database: "db", Dialect: "mysql", Logging: LoggingConfig{Level: "verbose"}},
			wantErr: true,
		},
		{
			name:    "valid postgres",
			cfg:     &Config{Database: "db", Dialect: "postgres", Logging: LoggingConfig{Level: "debug"}},
			wantErr: false,
		},
		{
			name:    "valid mysql",
			cfg:     &Config{Database: "db", Dialect: "mysql", Logging: LoggingConfig{Level: "warn"}},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	os.Setenv("ALPHADB_DATABASE", "override-db")
	os.Setenv("ALPHADB_DIALECT", "postgres")
	os.Setenv("ALPHADB_LOG_LEVEL", "debug")
	os.Setenv("ALPHADB_POSTGRES_HOST", "db.internal")
	os.Setenv("ALPHADB_POSTGRES_PORT", "6543")
	defer func() {
		os.Unsetenv("ALPHADB_DATABASE")
		os.Unsetenv("ALPHADB_DIALECT")
		os.Unsetenv("ALPHADB_LOG_LEVEL")
		os.Unsetenv("ALPHADB_POSTGRES_HOST")
		os.Unsetenv("ALPHADB_POSTGRES_PORT")
	}()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database != "override-db" {
		t.Errorf("Expected database override-db, got %s", cfg.Database)
	}
	if cfg.Dialect != "postgres" {
		t.Errorf("Expected dialect postgres, got %s", cfg.Dialect)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Postgres.Host != "db.internal" {
		t.Errorf("Expected postgres host db.internal, got %s", cfg.Postgres.Host)
	}
	if cfg.Postgres.Port != 6543 {
		t.Errorf("Expected postgres port 6543, got %d", cfg.Postgres.Port)
	}
}

func TestConfigEnvOverridesInvalidPortIgnored(t *testing.T) {
	os.Setenv("ALPHADB_MYSQL_PORT", "not-a-number")
	defer os.Unsetenv("ALPHADB_MYSQL_PORT")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MySQL.Port != DefaultConfig().MySQL.Port {
		t.Errorf("expected malformed port env var to be ignored, got %d", cfg.MySQL.Port)
	}
}
