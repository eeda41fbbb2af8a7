package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	forecastcmd "github.com/jcorreia/practiva/internal/cmd/forecast"
)

func main() {
	cfg, err := forecastcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[FORECAST] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := forecastcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
