package jobqueue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueue(t *testing.T) {
	setupTestRedis(t)

	tests := []struct {
		name            string
		workers         int
		expectedWorkers int
	}{
		{"Valid worker count", 5, 5},
		{"Zero workers", 0, 3},
		{"Negative workers", -1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := NewQueue(tt.workers, Dependencies{})

			assert.NotNil(t, queue)
			assert.Equal(t, tt.expectedWorkers, queue.workers)
			assert.Equal(t, tt.expectedWorkers, cap(queue.workerPool))
			assert.NotNil(t, queue.stopCh)
			assert.False(t, queue.running)
		})
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "job:", JobKeyPrefix)
	assert.Equal(t, "job_queue", JobQueueKey)
	assert.Equal(t, "job_processing", JobProcessingKey)
	assert.Equal(t, "job_stats", JobStatsKey)

	assert.Equal(t, 3, DefaultMaxRetries)
	assert.Equal(t, 24*time.Hour, JobTTL)
}

func TestQueue_SendMailJob(t *testing.T) {
	mr := setupTestRedis(t)
	mailer := &fakeMailer{}
	q := NewQueue(1, Dependencies{Mailer: mailer})
	ctx := context.Background()

	require.NoError(t, q.EnqueueMail("owner@acme.test", "Subscription renewed", "until 2024-02-10"))
	size, err := q.GetQueueSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), size)

	job, err := q.processNext(ctx)
	require.NoError(t, err)

	assert.Equal(t, JobStatusCompleted, job.Status)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, sentMail{To: "owner@acme.test", Subject: "Subscription renewed", Body: "until 2024-02-10"}, mailer.sent[0])
	assert.False(t, mr.Exists(JobKeyPrefix+job.ID))

	processing, err := q.GetProcessingSize(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), processing)

	stats, err := q.GetJobStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[JobStatusPending])
	assert.Equal(t, int64(1), stats[JobStatusCompleted])
}

func TestQueue_SubscriptionJobs(t *testing.T) {
	setupTestRedis(t)
	subs := &fakeSubscriptions{}
	q := NewQueue(1, Dependencies{Subscriptions: subs})
	ctx := context.Background()

	require.NoError(t, q.EnqueuePersonLimitCheck(12))
	require.NoError(t, q.EnqueueExpirySweep())

	for i := 0; i < 2; i++ {
		job, err := q.processNext(ctx)
		require.NoError(t, err)
		assert.Equal(t, JobStatusCompleted, job.Status)
	}
	assert.Equal(t, []uint{12}, subs.checked)
	assert.Equal(t, 1, subs.sweepCount())
}

func TestQueue_SetSubscriptionsAfterConstruction(t *testing.T) {
	setupTestRedis(t)
	q := NewQueue(1, Dependencies{})
	subs := &fakeSubscriptions{}
	q.SetSubscriptions(subs)
	ctx := context.Background()

	require.NoError(t, q.EnqueueExpirySweep())
	job, err := q.processNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.Equal(t, 1, subs.sweepCount())
}

func TestQueue_RetriesThenFails(t *testing.T) {
	setupTestRedis(t)
	mailer := &fakeMailer{err: errors.New("smtp unavailable")}
	q := NewQueue(1, Dependencies{Mailer: mailer})
	q.retryDelay = time.Millisecond
	ctx := context.Background()

	enqueued, err := q.EnqueueJob(JobTypeSendMail, SendMailJobPayload{To: "a@b.test", Subject: "s", Body: "b"}.ToMap())
	require.NoError(t, err)

	var last *Job
	for attempt := 1; attempt <= DefaultMaxRetries; attempt++ {
		require.Eventually(t, func() bool {
			size, err := q.GetQueueSize(ctx)
			return err == nil && size == 1
		}, time.Second, 5*time.Millisecond)

		last, err = q.processNext(ctx)
		require.NoError(t, err)
		assert.Equal(t, attempt, last.RetryCount)
	}

	assert.Equal(t, JobStatusFailed, last.Status)
	assert.Equal(t, DefaultMaxRetries, mailer.count())

	stored, err := q.GetJob(ctx, enqueued.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, stored.Status)
	assert.Equal(t, "smtp unavailable", stored.ErrorMsg)

	stats, err := q.GetJobStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats[JobStatusFailed])
}

func TestQueue_MissingDependencyFails(t *testing.T) {
	setupTestRedis(t)
	q := NewQueue(1, Dependencies{})
	ctx := context.Background()

	require.NoError(t, q.EnqueueExpirySweep())
	job, err := q.processNext(ctx)
	require.NoError(t, err)
	assert.Equal(t, JobStatusRetrying, job.Status)
	assert.Contains(t, job.ErrorMsg, "no subscription service")
}

func TestQueue_RecoverStuckJobs(t *testing.T) {
	mr := setupTestRedis(t)
	q := NewQueue(1, Dependencies{})
	ctx := context.Background()

	require.NoError(t, q.EnqueueExpirySweep())
	job, err := q.dequeueJob(ctx)
	require.NoError(t, err)

	started := time.Now().Add(-time.Hour)
	job.Status = JobStatusProcessing
	job.ProcessedAt = &started
	q.updateJob(ctx, job)
	_, err = mr.Lpush(JobProcessingKey, "orphan")
	require.NoError(t, err)

	recovered, err := q.recoverStuckJobs(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)

	processing, _ := q.GetProcessingSize(ctx)
	pending, _ := q.GetQueueSize(ctx)
	assert.Equal(t, int64(0), processing)
	assert.Equal(t, int64(1), pending)

	stored, err := q.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, stored.Status)
}

func TestQueue_WorkersDrainQueue(t *testing.T) {
	setupTestRedis(t)
	mailer := &fakeMailer{}
	q := NewQueue(2, Dependencies{Mailer: mailer})

	q.Start()
	defer q.Stop()

	for i := 0; i < 4; i++ {
		require.NoError(t, q.EnqueueMail("a@b.test", "s", "b"))
	}
	assert.Eventually(t, func() bool { return mailer.count() == 4 }, 5*time.Second, 10*time.Millisecond)
}
