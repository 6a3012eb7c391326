package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/app"
	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
	"github.com/lueurxax/ytmusic-trends/internal/platform/config"
	db "github.com/lueurxax/ytmusic-trends/internal/storage"
)

func main() {
	mode := flag.String("mode", app.ModeDaily, "Run mode ("+strings.Join(app.Modes, ", ")+")")
	date := flag.String("date", "", "Run date YYYY-MM-DD (default: today in the schedule timezone)")

	flag.Parse()

	runDate, err := parseRunDate(*date)
	if err != nil {
		log.Fatalf("invalid --date: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolOpts := db.PoolOptions{
		MaxConns:          cfg.Database.MaxConnections,
		MinConns:          cfg.Database.MinConnections,
		MaxConnIdleTime:   cfg.Database.MaxConnIdleTime,
		MaxConnLifetime:   cfg.Database.MaxConnLifetime,
		HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
	}

	database, err := db.NewWithOptions(ctx, cfg.Database.PostgresDSN, poolOpts, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	application := app.New(cfg, database, &logger)

	if err := application.Run(ctx, *mode, runDate); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		if errors.Is(err, coreerrors.ErrUnknownMode) {
			database.Close()
			log.Fatalf("Usage: %s --mode=[%s] [--date=YYYY-MM-DD]", os.Args[0], strings.Join(app.Modes, "|"))
		}

		database.Close()
		logger.Fatal().Err(err).Msg("application error")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func parseRunDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	d, err := domain.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", value, err)
	}

	return d, nil
}
