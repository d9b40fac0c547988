// Package batch runs bulk document generation: one verification record
// per student, issued concurrently through a bounded worker pool.
package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/acadhub/academic-core/internal/application/command"
	"github.com/acadhub/academic-core/internal/domain/academic"
	"github.com/acadhub/academic-core/internal/domain/shared"
	"github.com/acadhub/academic-core/pkg/logger"
	"github.com/acadhub/academic-core/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// BATCH GENERATION JOB
// ══════════════════════════════════════════════════════════════════════════════

// Config controls a batch run.
type Config struct {
	// Concurrency is the number of students processed in parallel.
	Concurrency int

	// Timeout bounds the entire run. Zero disables the bound.
	Timeout time.Duration

	// RetryStorage retries transient storage failures per student
	// before recording a failure.
	RetryStorage bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency:  5,
		Timeout:      10 * time.Minute,
		RetryStorage: true,
	}
}

// Stats contains statistics from a batch run.
type Stats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Duration    time.Duration

	Total     int
	Succeeded int
	Failed    int

	// Errors holds one entry per failed student. A failure never stops
	// the run; remaining students still get their records.
	Errors []StudentError
}

// StudentError records one student's failure.
type StudentError struct {
	StudentRef string
	Err        error
	OccurredAt time.Time
}

// Generator issues verification records for every student.
type Generator struct {
	students academic.StudentReader
	issue    *command.IssueVerificationHandler
	log      *logger.Logger
	config   Config

	lastStats atomic.Value // *Stats
}

// NewGenerator creates a batch generator.
func NewGenerator(students academic.StudentReader, issue *command.IssueVerificationHandler, log *logger.Logger, config Config) *Generator {
	if log == nil {
		log = logger.Default()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 5
	}
	return &Generator{
		students: students,
		issue:    issue,
		log:      log,
		config:   config,
	}
}

// Name returns the job name.
func (g *Generator) Name() string {
	return "batch_generate_verifications"
}

// Run issues a verification record for every student. Per-student
// failures are collected, not fatal; the run errors only when listing
// students fails or more than half the students fail.
func (g *Generator) Run(ctx context.Context) (*Stats, error) {
	startedAt := time.Now()
	stats := &Stats{
		StartedAt: startedAt,
		Errors:    make([]StudentError, 0),
	}

	g.log.Info("starting batch verification generation")

	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	refs, err := g.students.ListStudentRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	stats.Total = len(refs)
	g.log.Info("found students for batch generation", logger.Int("count", stats.Total))

	if stats.Total > 0 {
		g.generateConcurrently(ctx, refs, stats)
	}

	stats.CompletedAt = time.Now()
	stats.Duration = stats.CompletedAt.Sub(startedAt)
	g.lastStats.Store(stats)

	g.log.Info("batch verification generation completed",
		logger.Duration("duration", stats.Duration),
		logger.Int("total", stats.Total),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
	)

	if stats.Total > 0 {
		failureRate := float64(stats.Failed) / float64(stats.Total)
		if failureRate > 0.5 {
			return stats, fmt.Errorf("generation failed for more than 50%% of students (%d/%d)",
				stats.Failed, stats.Total)
		}
	}

	return stats, nil
}

// generateConcurrently issues records using a worker pool.
func (g *Generator) generateConcurrently(ctx context.Context, refs []string, stats *Stats) {
	var (
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, g.config.Concurrency)
		mu        sync.Mutex
	)

dispatch:
	for _, ref := range refs {
		// Acquire a slot, or stop dispatching on cancellation. Workers
		// already in flight still finish and are counted below.
		select {
		case <-ctx.Done():
			break dispatch
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(studentRef string) {
			defer wg.Done()
			defer func() { <-semaphore }() // Release

			err := g.generateOne(ctx, studentRef)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				stats.Failed++
				stats.Errors = append(stats.Errors, StudentError{
					StudentRef: studentRef,
					Err:        err,
					OccurredAt: time.Now(),
				})
				g.log.Error("failed to generate verification record",
					logger.StudentRef(studentRef),
					logger.Err(err),
				)
			} else {
				stats.Succeeded++
			}
		}(ref)
	}

	// Every dispatched worker must land its result before Run reads
	// the counters, including on the cancellation path.
	wg.Wait()
}

// generateOne issues a single student's record, retrying transient
// storage failures. Validation and not-found errors are permanent.
func (g *Generator) generateOne(ctx context.Context, studentRef string) error {
	op := func(ctx context.Context) error {
		_, err := g.issue.Handle(ctx, command.IssueVerificationCommand{StudentRef: studentRef})
		if err == nil {
			return nil
		}
		if g.config.RetryStorage && shared.IsStorage(err) {
			return retry.Retryable(err)
		}
		return retry.Permanent(err)
	}
	return retry.DatabaseRetrier().Do(ctx, op)
}

// LastStats returns statistics from the last run.
func (g *Generator) LastStats() *Stats {
	stats := g.lastStats.Load()
	if stats == nil {
		return nil
	}
	return stats.(*Stats)
}
