// Package main is the entry point for the batch generator.
//
// The batch generator issues one verification record per student:
// canonical payload, content digest, verification code, durable row,
// cache mirror. Each run ends with a retention sweep of expired
// records. Runs are guarded by a Redis lock so overlapping schedules
// cannot double-issue.
//
// By default one run executes and the process exits, which suits an
// external cron. With -daemon the process stays up and repeats the run
// on BATCH_INTERVAL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/acadhub/academic-core/config"
	"github.com/acadhub/academic-core/internal/application/command"
	"github.com/acadhub/academic-core/internal/batch"
	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/verification"
	"github.com/acadhub/academic-core/internal/infrastructure/persistence/postgres"
	"github.com/acadhub/academic-core/internal/infrastructure/persistence/redis"
	"github.com/acadhub/academic-core/internal/infrastructure/scheduler"
	"github.com/acadhub/academic-core/pkg/logger"
	"github.com/acadhub/academic-core/pkg/timeutil"
)

func main() {
	daemon := flag.Bool("daemon", false, "keep running and repeat on BATCH_INTERVAL")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, *daemon); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, daemon bool) error {
	// ─────────────────────────────────────────────────────────────────────────
	// Configuration and logging
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	log.Info("starting batch generator",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Session(timeutil.SessionLabel(time.Now(), cfg.App.Location)),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// Database
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Redis (optional; store-only when disabled)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		verifyCache verification.Cache
		runLock     *redis.RunLock
	)
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
			runLock = redis.NewRunLock(cache, "batch_generate", cfg.Batch.LockTTL)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Wiring
	// ─────────────────────────────────────────────────────────────────────────
	academicRepo := postgres.NewAcademicRepository(dbConn)
	verifyStore := postgres.NewVerificationRepository(dbConn)

	issueHandler := command.NewIssueVerificationHandler(
		academicRepo,
		academicRepo,
		academicRepo,
		academicRepo,
		verifyStore,
		verifyCache,
		academic.Institution{
			Name:    cfg.Institution.Name,
			Address: cfg.Institution.Address,
		},
		cfg.Institution.Secret,
		cfg.Institution.VerificationBaseURL,
		cfg.Verification.Retention,
		log,
	)

	generator := batch.NewGenerator(academicRepo, issueHandler, log, batch.Config{
		Concurrency:  cfg.Batch.Concurrency,
		Timeout:      cfg.Batch.Timeout,
		RetryStorage: true,
	})

	app := &batchApp{
		generator: generator,
		store:     verifyStore,
		lock:      runLock,
		log:       log,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Run
	// ─────────────────────────────────────────────────────────────────────────
	if !daemon {
		return app.runOnce(ctx)
	}

	sched := scheduler.New(log, cfg.App.Location)
	job := scheduler.JobFunc{
		JobName: generator.Name(),
		Fn:      app.runOnce,
	}
	if err := sched.Register(job, scheduler.NewIntervalSchedule(cfg.Batch.Interval)); err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}

	// First run fires immediately; later ones follow the interval.
	if _, err := sched.RunNow(ctx, job.JobName); err != nil {
		log.Error("initial batch run failed", logger.Err(err))
	}

	<-ctx.Done()
	log.Info("shutdown signal received")
	return sched.Stop()
}

// batchApp bundles the pieces one batch run touches.
type batchApp struct {
	generator *batch.Generator
	store     verification.Store
	lock      *redis.RunLock
	log       *logger.Logger
}

// runOnce executes a single guarded batch run plus the retention sweep.
func (a *batchApp) runOnce(ctx context.Context) error {
	if a.lock != nil {
		acquired, err := a.lock.Acquire(ctx, uuid.NewString())
		if err != nil {
			a.log.Warn("failed to acquire run lock, continuing unguarded", logger.Err(err))
		} else if !acquired {
			a.log.Info("another batch run holds the lock, skipping")
			return nil
		} else {
			defer func() {
				released, err := a.lock.Release(context.Background())
				if err != nil {
					a.log.Warn("failed to release run lock", logger.Err(err))
				} else if !released {
					a.log.Warn("run lock expired before release, a sibling run may have taken it")
				}
			}()
		}
	}

	stats, err := a.generator.Run(ctx)
	if err != nil {
		return err
	}

	// Sweep after the run so freshly expired records go in the same
	// maintenance window.
	removed, err := a.store.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		a.log.Warn("retention sweep failed", logger.Err(err))
	} else if removed > 0 {
		a.log.Info("retention sweep removed expired records", logger.Int64("removed", removed))
	}

	a.log.Info("batch generation finished",
		logger.Int("total", stats.Total),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
	)
	return nil
}

// setupLogger builds the structured logger from observability config.
func setupLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
}
