package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"smartdash/internal/domain/application"
	"smartdash/internal/infrastructure/cache"
	"smartdash/internal/infrastructure/queue"
	"smartdash/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryEvents struct {
	mu  sync.Mutex
	all []application.Event
}

func (m *memoryEvents) Insert(_ context.Context, e application.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = append(m.all, e)
	return nil
}

func (m *memoryEvents) ListByApplication(_ context.Context, id uuid.UUID) ([]application.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]application.Event, 0)
	for _, e := range m.all {
		if e.ApplicationID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

type applyFixture struct {
	mr    *miniredis.Miniredis
	repo  *repository.RedisApplicationRepository
	queue *queue.Queue
}

func newApplyFixture(t *testing.T) applyFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return applyFixture{
		mr:    mr,
		repo:  repository.NewRedisApplicationRepository(cache.NewRedisFromClient(client, nil)),
		queue: queue.New(client, nil),
	}
}

func TestApplications_ApplyCreatesRecordsAndTasks(t *testing.T) {
	f := newApplyFixture(t)
	events := &memoryEvents{}
	uc := NewApplicationUsecase(f.repo, events, f.queue, nil)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	res, err := uc.Apply(context.Background(), ApplyInput{
		CandidateID: "c1",
		Jobs: []ApplyJob{
			{Title: "Backend Engineer", Company: "Acme", URL: "https://jobs.example.com/1"},
			{Title: "Platform Engineer", Company: "Globex", URL: "https://jobs.example.com/2"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Successfully queued 2 job applications", res.Message)
	require.Len(t, res.Applications, 2)

	for _, a := range res.Applications {
		assert.Equal(t, application.StatusApplied, a.Status)
		assert.Equal(t, now, a.CreatedAt)
		assert.True(t, f.mr.Exists(cache.ApplicationKey(a.ID.String())))
	}

	members, err := f.mr.Members(cache.CandidateApplicationsKey("c1"))
	require.NoError(t, err)
	assert.Len(t, members, 2)

	n, err := f.queue.Len(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	d, ok, err := f.queue.Dequeue(context.Background(), time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.Applications[0].ID, d.Task.ApplicationID)
	assert.Equal(t, "https://jobs.example.com/1", d.Task.JobURL)

	assert.Len(t, events.all, 2)
	assert.Equal(t, application.EventCreated, events.all[0].Kind)
}

func TestApplications_ApplyValidates(t *testing.T) {
	f := newApplyFixture(t)
	uc := NewApplicationUsecase(f.repo, nil, f.queue, nil)

	_, err := uc.Apply(context.Background(), ApplyInput{CandidateID: "", Jobs: []ApplyJob{{URL: "https://x"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.Apply(context.Background(), ApplyInput{CandidateID: "c1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.Apply(context.Background(), ApplyInput{CandidateID: "c1", Jobs: []ApplyJob{{Title: "No URL"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, f.mr.Keys())
}

type brokenQueue struct{}

func (brokenQueue) Enqueue(context.Context, application.Task) error {
	return errors.New("connection refused")
}

func TestApplications_ApplySurfacesQueueFailure(t *testing.T) {
	f := newApplyFixture(t)
	uc := NewApplicationUsecase(f.repo, nil, brokenQueue{}, nil)

	_, err := uc.Apply(context.Background(), ApplyInput{CandidateID: "c1", Jobs: []ApplyJob{{URL: "https://x"}}})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestApplications_UpdateStatusToInterview(t *testing.T) {
	f := newApplyFixture(t)
	events := &memoryEvents{}
	uc := NewApplicationUsecase(f.repo, events, f.queue, nil)
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return created }

	res, err := uc.Apply(context.Background(), ApplyInput{CandidateID: "c1", Jobs: []ApplyJob{{Title: "SRE", Company: "Initech", URL: "https://jobs.example.com/9"}}})
	require.NoError(t, err)
	orig := res.Applications[0]

	later := created.Add(time.Hour)
	uc.now = func() time.Time { return later }
	got, err := uc.UpdateStatus(context.Background(), orig.ID.String(), "Interview")
	require.NoError(t, err)

	stored, err := f.repo.GetByID(context.Background(), orig.ID)
	require.NoError(t, err)
	assert.Equal(t, got, stored)
	assert.Equal(t, application.StatusInterview, stored.Status)
	assert.Equal(t, later, stored.UpdatedAt)

	stored.Status = orig.Status
	stored.UpdatedAt = orig.UpdatedAt
	assert.Equal(t, orig, stored)

	history, err := uc.Events(context.Background(), orig.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, application.EventStatusChanged, history[1].Kind)
	assert.Equal(t, application.StatusInterview, history[1].Status)
}

func TestApplications_UpdateStatusErrors(t *testing.T) {
	f := newApplyFixture(t)
	uc := NewApplicationUsecase(f.repo, nil, f.queue, nil)

	_, err := uc.UpdateStatus(context.Background(), uuid.NewString(), "Offer")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	_, err = uc.UpdateStatus(context.Background(), "not-a-uuid", "Offer")
	assert.ErrorIs(t, err, ErrApplicationNotFound)
	_, err = uc.UpdateStatus(context.Background(), uuid.NewString(), "submitted")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = uc.Events(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestApplications_ListByCandidate(t *testing.T) {
	f := newApplyFixture(t)
	uc := NewApplicationUsecase(f.repo, nil, f.queue, nil)
	ctx := context.Background()

	_, err := uc.Apply(ctx, ApplyInput{CandidateID: "c1", Jobs: []ApplyJob{{URL: "https://a"}}})
	require.NoError(t, err)
	_, err = uc.Apply(ctx, ApplyInput{CandidateID: "c2", Jobs: []ApplyJob{{URL: "https://b"}, {URL: "https://c"}}})
	require.NoError(t, err)

	all, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := uc.ListByCandidate(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, a := range mine {
		assert.Equal(t, "c2", a.CandidateID)
	}
}
