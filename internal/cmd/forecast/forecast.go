// Package forecast parses forecast command flags and starts the service runtime.
package forecast

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jcorreia/practiva/internal/forecast/diagnostics"
	"github.com/jcorreia/practiva/internal/forecast/matrix"
	"github.com/jcorreia/practiva/internal/forecast/skills"
	"github.com/jcorreia/practiva/internal/forecast/storage/sqlite"
	entrypoint "github.com/jcorreia/practiva/internal/platform/cmd"
	server "github.com/jcorreia/practiva/internal/services/forecast/app"
)

// Config holds forecast command configuration.
type Config struct {
	Port          int           `env:"PRACTIVA_FORECAST_PORT" envDefault:"8080"`
	Addr          string        `env:"PRACTIVA_FORECAST_ADDR"`
	DBPath        string        `env:"PRACTIVA_FORECAST_DB_PATH"`
	HorizonMonths int           `env:"PRACTIVA_FORECAST_HORIZON_MONTHS" envDefault:"12"`
	FallbackRate  float64       `env:"PRACTIVA_FORECAST_FALLBACK_RATE"`
	Permissive    bool          `env:"PRACTIVA_FORECAST_PERMISSIVE"`
	CacheTTL      time.Duration `env:"PRACTIVA_FORECAST_CACHE_TTL" envDefault:"5m"`
	SweepSchedule string        `env:"PRACTIVA_FORECAST_SWEEP_SCHEDULE"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The forecast server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The forecast server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the forecast SQLite database")
	fs.IntVar(&cfg.HorizonMonths, "horizon", cfg.HorizonMonths, "Forecast horizon in months")
	fs.Float64Var(&cfg.FallbackRate, "fallback-rate", cfg.FallbackRate, "Hourly rate for skills without a configured fee rate")
	fs.BoolVar(&cfg.Permissive, "permissive", cfg.Permissive, "Keep structurally flawed tasks in the matrix")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Matrix cache entry lifetime")
	fs.StringVar(&cfg.SweepSchedule, "sweep-schedule", cfg.SweepSchedule, "Cron expression for cache sweeps")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join("data", "forecast.db")
	}
	return cfg, nil
}

// Run starts the forecast API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceForecast, func(ctx context.Context) error {
		store, err := openStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close forecast store: %v", err)
			}
		}()

		generator := matrix.NewGenerator(matrix.Deps{
			Tasks:         store,
			Clients:       store,
			FeeRates:      store,
			ClientRevenue: store,
			Resolver:      skills.NewResolver(store),
			Diagnostics:   diagnostics.NewEmitter(store),
			HorizonMonths: cfg.HorizonMonths,
			FallbackRate:  cfg.FallbackRate,
			Permissive:    cfg.Permissive,
			Cache:         matrix.NewCache(cfg.CacheTTL, 0),
		})

		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		srv, err := server.New(generator, store, server.Options{
			Addr:          addr,
			SweepSchedule: cfg.SweepSchedule,
		})
		if err != nil {
			return err
		}
		return srv.Serve(ctx)
	})
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
