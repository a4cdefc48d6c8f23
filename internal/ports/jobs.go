package ports

import "context"

type AssessmentJob struct {
	ID           string
	AssessmentID string
}

// JobRepository supports claiming and updating assessment jobs.
type JobRepository interface {
	ClaimNext(ctx context.Context) (job AssessmentJob, found bool, err error)
	MarkRunning(ctx context.Context, jobID string) error
	UpdateProgress(ctx context.Context, assessmentID string, progress float64) error
	MarkCompleted(ctx context.Context, jobID string) error
	MarkFailed(ctx context.Context, jobID string, reason string) error
	StartJobForAssessment(ctx context.Context, assessmentID string) (jobID string, err error)
}
