// Package assessrunner drains the assessment job queue with a pool of
// worker goroutines.
package assessrunner

import (
	"context"
	"log/slog"
	"time"

	"envrisk/internal/ports"
)

// AssessmentProcessor performs the scoring work for a job's assessment id.
type AssessmentProcessor interface {
	Process(ctx context.Context, assessmentID string) error
}

// Run starts a dispatcher and concurrency worker goroutines that claim
// queued jobs and process them. It returns immediately; workers stop when
// ctx is cancelled.
func Run(ctx context.Context, repo ports.JobRepository, processor AssessmentProcessor, concurrency int, pollInterval time.Duration, logger *slog.Logger) {
	if concurrency < 1 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	jobsCh := make(chan ports.AssessmentJob, concurrency)

	// dispatcher loop
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(jobsCh)
				return
			case <-ticker.C:
				for {
					job, found, err := repo.ClaimNext(ctx)
					if err != nil {
						logger.Error("job claim failed", slog.String("error", err.Error()))
						break
					}
					if !found {
						break
					}
					jobsCh <- job
				}
			}
		}
	}()

	// workers
	for i := 0; i < concurrency; i++ {
		go func(idx int) {
			for job := range jobsCh {
				if err := processor.Process(ctx, job.AssessmentID); err != nil {
					_ = repo.MarkFailed(ctx, job.ID, err.Error())
					logger.Error("job failed",
						slog.Int("worker", idx), slog.String("job_id", job.ID), slog.String("error", err.Error()))
					continue
				}
				if err := repo.MarkCompleted(ctx, job.ID); err != nil {
					logger.Error("job completion failed",
						slog.Int("worker", idx), slog.String("job_id", job.ID), slog.String("error", err.Error()))
				}
			}
		}(i)
	}
}

// ProcessInline starts and processes one assessment synchronously with the
// same lifecycle as the background workers: the job is claimed, processed,
// then completed or failed.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor AssessmentProcessor, assessmentID string) error {
	jobID, err := repo.StartJobForAssessment(ctx, assessmentID)
	if err != nil {
		return err
	}
	if err := processor.Process(ctx, assessmentID); err != nil {
		_ = repo.MarkFailed(ctx, jobID, err.Error())
		return err
	}
	return repo.MarkCompleted(ctx, jobID)
}
