// Package config loads server configuration from a .env file, environment
// variables, and command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	DBPath    string
	Addr      string
	LogPath   string
	AdminUser string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration. A .env file in the working directory is optional;
// flags override environment variables.
func Load(args []string) (*Config, error) {
	// Missing .env is fine, any other read error is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		DBPath:    envOr("DB_PATH", "warehouse.sqlite3"),
		Addr:      envOr("ADDR", ":8080"),
		LogPath:   envOr("LOG_PATH", ""),
		AdminUser: envOr("ADMIN_USER", "admin"),
	}

	fs := flag.NewFlagSet("warehouse", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.AdminUser, "user", cfg.AdminUser, "")
	fs.StringVar(&cfg.AdminUser, "u", cfg.AdminUser, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: warehouse [flags]

Flags:
  -d, -db <path>          SQLite database path (default: warehouse.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -user <name>        admin username on first run (default: admin)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Environment variables DB_PATH, ADDR, ADMIN_USER, and LOG_PATH (also via a
.env file) set the defaults; flags take precedence.
`)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	return cfg, nil
}
