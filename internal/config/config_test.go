package config

import (
	"os"
	"path/filepath"
	"testing"

	"steam-toolbox/internal/errors"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if cfg.Units != def.Units || cfg.Server != def.Server || cfg.Defaults.Material != def.Defaults.Material {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[units]
pressure = "bar"
decimals = 2

[defaults]
fluid = "water"
material = "stainless-steel"

[defaults.speed_of_sound]
steam = 480.0

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Units.Pressure != "bar" || cfg.Units.Decimals != 2 {
		t.Errorf("units = %+v", cfg.Units)
	}
	if cfg.Units.Length != "m" {
		t.Errorf("unset key lost its default: %q", cfg.Units.Length)
	}
	if cfg.Defaults.Fluid != "water" || cfg.Defaults.Material != "stainless-steel" {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if c, ok := cfg.SpeedOfSound("Steam"); !ok || c != 480 {
		t.Errorf("speed of sound = %v, %v", c, ok)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.Mode != "release" {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("STEAMTB_SERVER_ADDR", ":7070")
	t.Setenv("STEAMTB_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[units]\npressure = \"furlongs\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected config error, got %v", err)
	}

	if err := os.WriteFile(path, []byte("this is = = not toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.IsType(err, errors.TypeConfig) {
		t.Errorf("expected config error for bad syntax, got %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.Units.Pressure = "psi"
	cfg.Batch.Workers = 8

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Units.Pressure != "psi" || loaded.Batch.Workers != 8 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestStorageBackendValidation(t *testing.T) {
	tests := []struct {
		name    string
		storage StorageConfig
		wantErr bool
	}{
		{"sqlite", StorageConfig{Enabled: true, Backend: "sqlite", DatabasePath: "h.db"}, false},
		{"memory", StorageConfig{Enabled: true, Backend: "memory"}, false},
		{"postgres with dsn", StorageConfig{Enabled: true, Backend: "postgres", DSN: "postgres://localhost/steam"}, false},
		{"postgres without dsn", StorageConfig{Enabled: true, Backend: "postgres"}, true},
		{"disabled postgres without dsn", StorageConfig{Backend: "postgres"}, false},
		{"unknown backend", StorageConfig{Enabled: true, Backend: "mongo"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Storage = tt.storage
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	pg := StorageConfig{Backend: "postgres", DatabasePath: "h.db", DSN: "dsn"}
	if pg.Location() != "dsn" {
		t.Errorf("postgres location = %q", pg.Location())
	}
	pg.Backend = "sqlite"
	if pg.Location() != "h.db" {
		t.Errorf("sqlite location = %q", pg.Location())
	}
}
