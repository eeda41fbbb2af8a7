// Package seed parses seed command flags and loads fixtures into storage.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jcorreia/practiva/internal/forecast/storage/sqlite"
	entrypoint "github.com/jcorreia/practiva/internal/platform/cmd"
	"github.com/jcorreia/practiva/internal/seed"
)

// Config holds seed command configuration.
type Config struct {
	DBPath      string `env:"PRACTIVA_FORECAST_DB_PATH"`
	FixturePath string `env:"PRACTIVA_SEED_FIXTURE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the forecast SQLite database")
	fs.StringVar(&cfg.FixturePath, "file", cfg.FixturePath, "Path to the YAML fixture file")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "forecast.db")
	}
	return cfg, nil
}

// Run executes the seed command.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if cfg.FixturePath == "" {
		return fmt.Errorf("fixture file is required (use -file)")
	}

	fixture, err := seed.LoadFile(cfg.FixturePath)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := seed.Apply(ctx, store, fixture)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "seeded %d skills, %d clients, %d staff, %d fee rates, %d tasks\n",
		summary.Skills, summary.Clients, summary.Staff, summary.FeeRates, summary.Tasks)
	return nil
}

func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open forecast sqlite store: %w", err)
	}
	return store, nil
}
