package assessrunner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envrisk/internal/ports"
)

type fakeRepo struct {
	mu        sync.Mutex
	queue     []ports.AssessmentJob
	completed []string
	failed    []string
}

func (f *fakeRepo) ClaimNext(context.Context) (ports.AssessmentJob, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return ports.AssessmentJob{}, false, nil
	}
	job := f.queue[0]
	f.queue = f.queue[1:]
	return job, true, nil
}

func (f *fakeRepo) MarkRunning(context.Context, string) error { return nil }

func (f *fakeRepo) UpdateProgress(context.Context, string, float64) error { return nil }

func (f *fakeRepo) MarkCompleted(_ context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = append(f.completed, jobID)
	return nil
}

func (f *fakeRepo) MarkFailed(_ context.Context, jobID string, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, jobID)
	return nil
}

func (f *fakeRepo) StartJobForAssessment(_ context.Context, assessmentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, job := range f.queue {
		if job.AssessmentID == assessmentID {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			return job.ID, nil
		}
	}
	return "", ports.ErrNotFound
}

func (f *fakeRepo) outcome() (completed, failed []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.completed...), append([]string{}, f.failed...)
}

type fakeProcessor struct {
	failFor map[string]bool
}

func (p *fakeProcessor) Process(_ context.Context, assessmentID string) error {
	if p.failFor[assessmentID] {
		return errors.New("boom")
	}
	return nil
}

func TestRunDrainsQueue(t *testing.T) {
	repo := &fakeRepo{queue: []ports.AssessmentJob{
		{ID: "j1", AssessmentID: "a1"},
		{ID: "j2", AssessmentID: "a2"},
		{ID: "j3", AssessmentID: "a3"},
	}}
	proc := &fakeProcessor{failFor: map[string]bool{"a2": true}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	Run(ctx, repo, proc, 2, 5*time.Millisecond, nil)

	require.Eventually(t, func() bool {
		completed, failed := repo.outcome()
		return len(completed)+len(failed) == 3
	}, time.Second, 5*time.Millisecond)

	completed, failed := repo.outcome()
	assert.ElementsMatch(t, []string{"j1", "j3"}, completed)
	assert.Equal(t, []string{"j2"}, failed)
}

func TestRunWithoutWorkersIsNoop(t *testing.T) {
	repo := &fakeRepo{queue: []ports.AssessmentJob{{ID: "j1", AssessmentID: "a1"}}}
	Run(context.Background(), repo, &fakeProcessor{}, 0, time.Millisecond, nil)

	time.Sleep(20 * time.Millisecond)
	completed, failed := repo.outcome()
	assert.Empty(t, completed)
	assert.Empty(t, failed)
}

func TestProcessInline(t *testing.T) {
	repo := &fakeRepo{queue: []ports.AssessmentJob{{ID: "j1", AssessmentID: "a1"}}}

	err := ProcessInline(context.Background(), repo, &fakeProcessor{}, "a1")
	require.NoError(t, err)
	completed, _ := repo.outcome()
	assert.Equal(t, []string{"j1"}, completed)

	// no queued job for this assessment
	err = ProcessInline(context.Background(), repo, &fakeProcessor{}, "a1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestProcessInlineFailureMarksFailed(t *testing.T) {
	repo := &fakeRepo{queue: []ports.AssessmentJob{{ID: "j1", AssessmentID: "a1"}}}

	err := ProcessInline(context.Background(), repo, &fakeProcessor{failFor: map[string]bool{"a1": true}}, "a1")
	require.Error(t, err)
	_, failed := repo.outcome()
	assert.Equal(t, []string{"j1"}, failed)
}
