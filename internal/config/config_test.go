package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "warehouse.sqlite3" || cfg.Addr != ":8080" || cfg.AdminUser != "admin" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/env.sqlite3")
	t.Setenv("ADDR", ":9090")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/env.sqlite3" || cfg.Addr != ":9090" {
		t.Errorf("expected env overrides, got %+v", cfg)
	}
}

func TestLoadFlagBeatsEnv(t *testing.T) {
	t.Setenv("ADDR", ":9090")

	cfg, err := Load([]string{"-addr", ":7070", "-d", "flag.sqlite3"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("expected flag to beat env, got %q", cfg.Addr)
	}
	if cfg.DBPath != "flag.sqlite3" {
		t.Errorf("expected short flag to apply, got %q", cfg.DBPath)
	}
}

func TestLoadRejectsPositionalArgs(t *testing.T) {
	if _, err := Load([]string{"stray"}); err == nil {
		t.Error("expected error for positional argument")
	}
}
