package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Scheduler runs delivery work later, reliably. Both calls are
// fire-and-forget: they persist the job, return a tracking id immediately
// and leave retry policy to the backing queue.
type Scheduler interface {
	ScheduleAt(payload EmailPayload, at time.Time) (uuid.UUID, error)
	EnqueueNow(payload EmailPayload) (uuid.UUID, error)
}

// JobExecutor performs the bound delivery when a job comes due. The email
// sender implements it.
type JobExecutor interface {
	Execute(ctx context.Context, payload EmailPayload) error
}

type SchedulerOption func(s *queueScheduler)

func SetSchedulerWorkerCount(count int) SchedulerOption {
	return func(s *queueScheduler) {
		s.workerCount = count
	}
}

func SetSchedulerClock(now func() time.Time) SchedulerOption {
	return func(s *queueScheduler) {
		s.now = now
	}
}

func SetSchedulerLogger(logger logrus.FieldLogger) SchedulerOption {
	return func(s *queueScheduler) {
		s.logger = logger
	}
}

type queueScheduler struct {
	logger logrus.FieldLogger

	workerCtx    context.Context
	workerCancel context.CancelFunc

	workerQueue chan *ScheduledJob
	workerCount int

	repo     JobRepository
	executor JobExecutor

	now func() time.Time
}

// NewQueueScheduler starts the worker pool and re-queues every job that was
// persisted but not yet executed, so deferred work survives restarts. A job
// may run twice if the process dies between execution and the SentAt
// update; delivery is at-least-once.
func NewQueueScheduler(repo JobRepository, executor JobExecutor, options ...SchedulerOption) (Scheduler, error) {
	if repo == nil {
		return nil, errors.New("missing job repository")
	}

	if executor == nil {
		return nil, errors.New("missing job executor")
	}

	scheduler := &queueScheduler{
		logger: logrus.New(),

		workerQueue: make(chan *ScheduledJob, 1000),
		workerCount: 5,

		repo:     repo,
		executor: executor,

		now: time.Now,
	}

	for _, option := range options {
		option(scheduler)
	}

	ctx, cancel := context.WithCancel(context.Background())

	scheduler.workerCtx = ctx
	scheduler.workerCancel = cancel

	for i := 0; i < scheduler.workerCount; i++ {
		go scheduler.worker(ctx)
	}

	jobs, err := repo.GetPending()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to load pending jobs")
	}

	for i := range jobs {
		job := jobs[i]
		scheduler.queue(&job)
	}

	return scheduler, nil
}

func (s *queueScheduler) ScheduleAt(payload EmailPayload, at time.Time) (uuid.UUID, error) {
	job := &ScheduledJob{
		Uuid:      uuid.New(),
		Payload:   payload,
		RunAt:     at.UTC(),
		CreatedAt: s.now().UTC(),
	}

	if err := s.repo.Create(job); err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to persist scheduled job")
	}

	s.queue(job)

	return job.Uuid, nil
}

func (s *queueScheduler) EnqueueNow(payload EmailPayload) (uuid.UUID, error) {
	return s.ScheduleAt(payload, s.now())
}

func (s *queueScheduler) Shutdown(ctx context.Context) {
	<-ctx.Done()
	s.workerCancel()
}

// queue hands the job to a worker once it comes due, without blocking the
// caller while it waits.
func (s *queueScheduler) queue(job *ScheduledJob) {
	go func() {
		if delay := job.RunAt.Sub(s.now()); delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()

			select {
			case <-s.workerCtx.Done():
				return

			case <-timer.C:
			}
		}

		select {
		case <-s.workerCtx.Done():

		case s.workerQueue <- job:
		}
	}()
}

func (s *queueScheduler) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case job, ok := <-s.workerQueue:
			if !ok {
				return
			}

			if err := s.executor.Execute(ctx, job.Payload); err != nil {
				// Left pending: it will be picked up again on the
				// next restart.
				s.logger.
					WithField("job", job.Uuid).
					WithError(err).
					Error("failed to execute scheduled job")

				continue
			}

			now := s.now()

			job.SentAt = &now

			if err := s.repo.Update(job); err != nil {
				s.logger.
					WithField("job", job.Uuid).
					WithError(err).
					Error("failed to mark job as executed")
			}
		}
	}
}
