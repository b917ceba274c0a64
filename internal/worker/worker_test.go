package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"smartdash/internal/automation"
	"smartdash/internal/domain/application"
	"smartdash/internal/domain/candidate"
	"smartdash/internal/infrastructure/cache"
	"smartdash/internal/infrastructure/queue"
	"smartdash/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActor struct {
	mu    sync.Mutex
	out   automation.Outcome
	calls []string
}

func (f *fakeActor) Apply(_ context.Context, c candidate.Candidate, jobURL string) automation.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c.ID+"|"+jobURL)
	return f.out
}

func (f *fakeActor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePublisher struct {
	mu  sync.Mutex
	got []application.Application
}

func (f *fakePublisher) PublishApplication(_ context.Context, a application.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, a)
	return nil
}

type fakeEvents struct {
	mu  sync.Mutex
	got []application.Event
	err error
}

func (f *fakeEvents) Insert(_ context.Context, e application.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, e)
	return f.err
}

func (f *fakeEvents) ListByApplication(context.Context, uuid.UUID) ([]application.Event, error) {
	return nil, nil
}

type fixture struct {
	client       *redis.Client
	candidates   *repository.RedisCandidateRepository
	applications *repository.RedisApplicationRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := cache.NewRedisFromClient(client, nil)
	return fixture{
		client:       client,
		candidates:   repository.NewRedisCandidateRepository(store, 24*time.Hour),
		applications: repository.NewRedisApplicationRepository(store),
	}
}

func (f fixture) seed(t *testing.T) (candidate.Candidate, application.Application) {
	t.Helper()
	ctx := context.Background()
	name := "Ada"
	c := candidate.Candidate{ID: "c1", Name: &name, Skills: []string{"Go"}, Status: candidate.StatusPending}
	require.NoError(t, f.candidates.Create(ctx, c))

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := application.Application{
		ID:          uuid.New(),
		CandidateID: c.ID,
		JobTitle:    "Backend Engineer",
		Company:     "Acme",
		JobURL:      "https://jobs.example.com/1",
		Status:      application.StatusApplied,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, f.applications.Create(ctx, a))
	return c, a
}

func TestProcessor_WritesSubmittedOutcome(t *testing.T) {
	f := newFixture(t)
	c, a := f.seed(t)

	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	actor := &fakeActor{out: automation.Outcome{Status: application.StatusSubmitted, SubmittedAt: &at}}
	pub := &fakePublisher{}
	events := &fakeEvents{}

	p := NewProcessor(f.candidates, f.applications, events, actor, pub, nil)
	p.now = func() time.Time { return at }

	err := p.Process(context.Background(), application.Task{CandidateID: c.ID, JobURL: a.JobURL, ApplicationID: a.ID})
	require.NoError(t, err)

	got, err := f.applications.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusSubmitted, got.Status)
	assert.Equal(t, at, got.UpdatedAt)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)
	assert.Nil(t, got.LastError)
	assert.Equal(t, []string{"c1|https://jobs.example.com/1"}, actor.calls)

	require.Len(t, pub.got, 1)
	assert.Equal(t, application.StatusSubmitted, pub.got[0].Status)
	require.Len(t, events.got, 1)
	assert.Equal(t, application.EventAutomation, events.got[0].Kind)
}

func TestProcessor_RecordsReasonOnFailure(t *testing.T) {
	f := newFixture(t)
	c, a := f.seed(t)

	actor := &fakeActor{out: automation.Outcome{Status: application.StatusManualRequired, Reason: "sign-in wall"}}
	events := &fakeEvents{err: errors.New("db down")}

	p := NewProcessor(f.candidates, f.applications, events, actor, nil, nil)
	require.NoError(t, p.Process(context.Background(), application.Task{CandidateID: c.ID, JobURL: a.JobURL, ApplicationID: a.ID}))

	got, err := f.applications.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusManualRequired, got.Status)
	require.NotNil(t, got.LastError)
	assert.Equal(t, "sign-in wall", *got.LastError)
}

func TestProcessor_DropsTaskForMissingCandidate(t *testing.T) {
	f := newFixture(t)
	actor := &fakeActor{}

	p := NewProcessor(f.candidates, f.applications, nil, actor, nil, nil)
	err := p.Process(context.Background(), application.Task{CandidateID: "gone", JobURL: "https://x", ApplicationID: uuid.New()})
	require.NoError(t, err)
	assert.Zero(t, actor.callCount())
}

func TestProcessor_LeavesRecordOnShutdown(t *testing.T) {
	f := newFixture(t)
	c, a := f.seed(t)

	ctx, cancel := context.WithCancel(context.Background())
	actor := &cancellingActor{cancel: cancel}

	p := NewProcessor(f.candidates, f.applications, nil, actor, nil, nil)
	err := p.Process(ctx, application.Task{CandidateID: c.ID, JobURL: a.JobURL, ApplicationID: a.ID})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := f.applications.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusApplied, got.Status)
}

type cancellingActor struct {
	cancel context.CancelFunc
}

func (a *cancellingActor) Apply(context.Context, candidate.Candidate, string) automation.Outcome {
	a.cancel()
	return automation.Outcome{Status: application.StatusFailed, Reason: "Timeout or captcha encountered: context canceled"}
}

func TestConsumer_ProcessesAndAcks(t *testing.T) {
	f := newFixture(t)
	c, a := f.seed(t)

	q := queue.New(f.client, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, q.Enqueue(ctx, application.Task{CandidateID: c.ID, JobURL: a.JobURL, ApplicationID: a.ID}))

	actor := &fakeActor{out: automation.Outcome{Status: application.StatusFailed, Reason: "Failed to load page: 500"}}
	pool := NewPool(2, 4)
	cons := NewConsumer(q, pool, NewProcessor(f.candidates, f.applications, nil, actor, nil, nil), nil)
	cons.pollTimeout = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- cons.Run(ctx) }()

	require.Eventually(t, func() bool {
		got, err := f.applications.GetByID(context.Background(), a.ID)
		return err == nil && got.Status == application.StatusFailed
	}, 3*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		n, err := f.client.LLen(context.Background(), cache.ApplyProcessingKey).Result()
		return err == nil && n == 0
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.Equal(t, 1, actor.callCount())
}

func TestConsumer_RecoversUnackedTasks(t *testing.T) {
	f := newFixture(t)
	c, a := f.seed(t)
	ctx := context.Background()

	q := queue.New(f.client, nil)
	require.NoError(t, q.Enqueue(ctx, application.Task{CandidateID: c.ID, JobURL: a.JobURL, ApplicationID: a.ID}))
	_, ok, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	actor := &fakeActor{out: automation.Outcome{Status: application.StatusSubmitted}}
	cons := NewConsumer(q, NewPool(1, 1), NewProcessor(f.candidates, f.applications, nil, actor, nil, nil), nil)
	cons.pollTimeout = 50 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- cons.Run(runCtx) }()

	require.Eventually(t, func() bool { return actor.callCount() == 1 }, 3*time.Second, 20*time.Millisecond)
	cancel()
	<-done
}

func TestPool_RunsTasksAndReportsErrors(t *testing.T) {
	p := NewPool(3, 10)
	ctx := context.Background()
	results := p.Run(ctx)

	var ran atomic.Int32
	boom := errors.New("boom")
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(ctx, func(context.Context) error {
			ran.Add(1)
			if i == 2 {
				return boom
			}
			return nil
		}))
	}
	p.Close()

	var errs int
	for r := range results {
		if r.Err != nil {
			assert.ErrorIs(t, r.Err, boom)
			errs++
		}
	}
	assert.EqualValues(t, 5, ran.Load())
	assert.Equal(t, 1, errs)
}

func TestPool_RateLimitPacesStarts(t *testing.T) {
	p := NewPool(2, 4)
	p.SetRateLimit(600) // one start per 100ms
	ctx := context.Background()
	results := p.Run(ctx)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Submit(ctx, func(context.Context) error { return nil }))
	}
	p.Close()
	for range results {
	}
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
}

func TestPool_SubmitHonoursContext(t *testing.T) {
	p := NewPool(1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Submit(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
