package forecast

import (
	"flag"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected empty addr, got %q", cfg.Addr)
	}
	if cfg.DBPath != filepath.Join("data", "forecast.db") {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.HorizonMonths != 12 {
		t.Fatalf("expected default horizon 12, got %d", cfg.HorizonMonths)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Fatalf("expected default cache ttl 5m, got %v", cfg.CacheTTL)
	}
	if cfg.Permissive {
		t.Fatal("expected strict validation by default")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	fs := flag.NewFlagSet("forecast", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-port", "9001",
		"-addr", "127.0.0.1:9999",
		"-db", "/tmp/other.db",
		"-horizon", "6",
		"-fallback-rate", "90",
		"-permissive",
		"-cache-ttl", "30s",
		"-sweep-schedule", "*/10 * * * *",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", cfg.Port)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected addr override, got %q", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Fatalf("expected db override, got %q", cfg.DBPath)
	}
	if cfg.HorizonMonths != 6 {
		t.Fatalf("expected horizon 6, got %d", cfg.HorizonMonths)
	}
	if cfg.FallbackRate != 90 {
		t.Fatalf("expected fallback rate 90, got %v", cfg.FallbackRate)
	}
	if !cfg.Permissive {
		t.Fatal("expected permissive override")
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Fatalf("expected cache ttl 30s, got %v", cfg.CacheTTL)
	}
	if cfg.SweepSchedule != "*/10 * * * *" {
		t.Fatalf("expected sweep schedule override, got %q", cfg.SweepSchedule)
	}
}
