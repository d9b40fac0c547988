// Package main is the entry point for the verification CLI.
//
// Usage:
//
//	verify TXN-1A2B3C4D5E6F           check a code and print the result
//	verify -revoke TXN-1A2B3C4D5E6F   revoke an issued record
//
// Verification prints a JSON result to stdout. The process exits 0 when
// the document is valid, 2 when the check completed but the document is
// invalid, and 1 on operational errors.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/acadhub/academic-core/config"
	"github.com/acadhub/academic-core/internal/application/command"
	"github.com/acadhub/academic-core/internal/application/query"
	"github.com/acadhub/academic-core/internal/domain/verification"
	"github.com/acadhub/academic-core/internal/infrastructure/persistence/postgres"
	"github.com/acadhub/academic-core/internal/infrastructure/persistence/redis"
	"github.com/acadhub/academic-core/pkg/logger"
)

const (
	exitInvalid = 2
)

func main() {
	revoke := flag.Bool("revoke", false, "revoke the record instead of verifying it")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: verify [-revoke] CODE")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	code, err := run(ctx, flag.Arg(0), *revoke)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(code)
}

func run(ctx context.Context, code string, revoke bool) (int, error) {
	// ─────────────────────────────────────────────────────────────────────────
	// Configuration and logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return 1, fmt.Errorf("failed to load config: %w", err)
	}

	// Logs go to stderr so stdout stays clean JSON for scripting.
	log := logger.New(logger.Options{
		Output: os.Stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Database
	// ─────────────────────────────────────────────────────────────────────────
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return 1, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	// ─────────────────────────────────────────────────────────────────────────
	// Redis (optional; store-only when disabled)
	// ─────────────────────────────────────────────────────────────────────────
	var verifyCache verification.Cache
	if !cfg.Redis.Disabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, continuing without cache", logger.Err(err))
		} else {
			defer cache.Close()
			verifyCache = redis.NewVerificationCache(cache)
		}
	}

	store := postgres.NewVerificationRepository(dbConn)

	if revoke {
		return runRevoke(ctx, store, verifyCache, log, code)
	}
	return runVerify(ctx, store, verifyCache, cfg, log, code)
}

func runVerify(ctx context.Context, store verification.Store, cache verification.Cache, cfg *config.Config, log *logger.Logger, code string) (int, error) {
	handler := query.NewVerifyDocumentHandler(store, cache, cfg.Verification.CacheTTL, log)

	res, err := handler.Handle(ctx, query.VerifyDocumentQuery{Code: code})
	if err != nil {
		return 1, err
	}

	if err := printJSON(res); err != nil {
		return 1, err
	}
	if !res.Result.Valid {
		return exitInvalid, nil
	}
	return 0, nil
}

func runRevoke(ctx context.Context, store verification.Store, cache verification.Cache, log *logger.Logger, code string) (int, error) {
	handler := command.NewRevokeVerificationHandler(store, cache, log)

	res, err := handler.Handle(ctx, command.RevokeVerificationCommand{Code: code})
	if err != nil {
		return 1, err
	}

	if err := printJSON(res); err != nil {
		return 1, err
	}
	return 0, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
