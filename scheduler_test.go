package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForPayload(t *testing.T, executor *recordingExecutor) EmailPayload {
	t.Helper()

	select {
	case payload := <-executor.signal:
		return payload

	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for job execution")
		return EmailPayload{}
	}
}

func TestEnqueueNowPersistsThenExecutes(t *testing.T) {
	repo := &fakeJobRepository{}
	executor := newRecordingExecutor()

	scheduler, err := NewQueueScheduler(repo, executor, SetSchedulerWorkerCount(1))
	require.NoError(t, err)

	payload := EmailPayload{To: "c1@x.com", Subject: "Hi", Body: "Hi Casey"}

	jobID, err := scheduler.EnqueueNow(payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, jobID)

	require.Len(t, repo.created, 1)
	assert.Equal(t, payload, repo.created[0].Payload)
	assert.Nil(t, repo.created[0].SentAt)

	executed := waitForPayload(t, executor)
	assert.Equal(t, payload, executed)

	// SentAt is stamped once the executor returns.
	require.Eventually(t, func() bool {
		return len(repo.updatedJobs()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	updated := repo.updatedJobs()[0]

	assert.Equal(t, jobID, updated.Uuid)
	require.NotNil(t, updated.SentAt)
}

func TestScheduleAtDefersExecution(t *testing.T) {
	repo := &fakeJobRepository{}
	executor := newRecordingExecutor()

	scheduler, err := NewQueueScheduler(repo, executor, SetSchedulerWorkerCount(1))
	require.NoError(t, err)

	payload := EmailPayload{To: "c1@x.com", Body: "later"}

	_, err = scheduler.ScheduleAt(payload, time.Now().Add(time.Hour))
	require.NoError(t, err)

	// Persisted immediately, but not executed.
	require.Len(t, repo.created, 1)

	select {
	case <-executor.signal:
		t.Fatal("job ran before its scheduled time")

	case <-time.After(100 * time.Millisecond):
	}

	assert.Empty(t, repo.updatedJobs())
}

func TestPendingJobsAreRequeuedAtStartup(t *testing.T) {
	overdue := ScheduledJob{
		Uuid:      uuid.New(),
		Payload:   EmailPayload{To: "c1@x.com", Body: "survived a restart"},
		RunAt:     time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-2 * time.Minute),
	}

	repo := &fakeJobRepository{pending: []ScheduledJob{overdue}}
	executor := newRecordingExecutor()

	_, err := NewQueueScheduler(repo, executor, SetSchedulerWorkerCount(1))
	require.NoError(t, err)

	executed := waitForPayload(t, executor)
	assert.Equal(t, overdue.Payload, executed)
}

func TestFailedExecutionStaysPending(t *testing.T) {
	repo := &fakeJobRepository{}
	executor := newRecordingExecutor()
	executor.err = errors.New("smtp unavailable")

	scheduler, err := NewQueueScheduler(repo, executor, SetSchedulerWorkerCount(1))
	require.NoError(t, err)

	_, err = scheduler.EnqueueNow(EmailPayload{To: "c1@x.com"})
	require.NoError(t, err)

	waitForPayload(t, executor)

	// Give the worker a beat; the job must not be marked as sent.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, repo.updatedJobs())
}

func TestNewQueueSchedulerRequiresRepoAndExecutor(t *testing.T) {
	_, err := NewQueueScheduler(nil, newRecordingExecutor())
	assert.Error(t, err)

	_, err = NewQueueScheduler(&fakeJobRepository{}, nil)
	assert.Error(t, err)
}

func TestSchedulerShutdownStopsWorkers(t *testing.T) {
	repo := &fakeJobRepository{}
	executor := newRecordingExecutor()

	scheduler, err := NewQueueScheduler(repo, executor, SetSchedulerWorkerCount(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scheduler.(*queueScheduler).Shutdown(ctx)

	_, err = scheduler.ScheduleAt(EmailPayload{To: "c1@x.com"}, time.Now().Add(time.Hour))
	require.NoError(t, err)

	// Persisting still works; execution is the queue's concern and the
	// pending row will be picked up by the next process.
	require.Len(t, repo.created, 1)
}
