package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smartdash/internal/domain/application"
	"smartdash/internal/repository"

	"github.com/google/uuid"
)

type ApplyJob struct {
	Title   string
	Company string
	URL     string
}

type ApplyInput struct {
	CandidateID string
	Jobs        []ApplyJob
}

type ApplyResult struct {
	Message      string
	Applications []application.Application
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, in ApplyInput) (ApplyResult, error)
	List(ctx context.Context) ([]application.Application, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]application.Application, error)
	UpdateStatus(ctx context.Context, id string, status string) (application.Application, error)
	Events(ctx context.Context, id string) ([]application.Event, error)
}

type TaskQueue interface {
	Enqueue(ctx context.Context, t application.Task) error
}

type Applications struct {
	repo   repository.ApplicationRepository
	events repository.ApplicationEventRepository
	queue  TaskQueue
	logger *log.Logger
	now    func() time.Time
}

// NewApplicationUsecase accepts a nil events repository; history is then
// neither recorded nor served.
func NewApplicationUsecase(repo repository.ApplicationRepository, events repository.ApplicationEventRepository, queue TaskQueue, logger *log.Logger) *Applications {
	return &Applications{
		repo:   repo,
		events: events,
		queue:  queue,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Apply creates one Applied record per job and enqueues a task for each.
// The handler returns as soon as every task is queued.
func (u *Applications) Apply(ctx context.Context, in ApplyInput) (ApplyResult, error) {
	candidateID := strings.TrimSpace(in.CandidateID)
	if candidateID == "" || len(in.Jobs) == 0 {
		return ApplyResult{}, ErrInvalidInput
	}
	for _, j := range in.Jobs {
		if strings.TrimSpace(j.URL) == "" {
			return ApplyResult{}, fmt.Errorf("%w: job url is required", ErrInvalidInput)
		}
	}

	now := u.now()
	out := make([]application.Application, 0, len(in.Jobs))
	for _, j := range in.Jobs {
		a := application.Application{
			ID:          uuid.New(),
			CandidateID: candidateID,
			JobTitle:    j.Title,
			Company:     j.Company,
			JobURL:      strings.TrimSpace(j.URL),
			Status:      application.StatusApplied,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := u.repo.Create(ctx, a); err != nil {
			return ApplyResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		task := application.Task{CandidateID: candidateID, JobURL: a.JobURL, ApplicationID: a.ID, EnqueuedAt: now}
		if err := u.queue.Enqueue(ctx, task); err != nil {
			return ApplyResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		u.record(ctx, a, application.EventCreated)
		out = append(out, a)
	}

	u.logf("[Apply] queued %d applications candidate=%s", len(out), candidateID)
	return ApplyResult{
		Message:      fmt.Sprintf("Successfully queued %d job applications", len(out)),
		Applications: out,
	}, nil
}

func (u *Applications) List(ctx context.Context) ([]application.Application, error) {
	out, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

func (u *Applications) ListByCandidate(ctx context.Context, candidateID string) ([]application.Application, error) {
	if strings.TrimSpace(candidateID) == "" {
		return nil, ErrInvalidInput
	}
	out, err := u.repo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

// UpdateStatus accepts only the user-managed pipeline statuses; automation
// outcomes are written by the worker.
func (u *Applications) UpdateStatus(ctx context.Context, id string, status string) (application.Application, error) {
	st := application.Status(strings.TrimSpace(status))
	if !st.UserSettable() {
		return application.Application{}, ErrInvalidStatus
	}

	a, err := u.get(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	a.Status = st
	a.UpdatedAt = u.now()
	if err := u.repo.Update(ctx, a); err != nil {
		return application.Application{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	u.record(ctx, a, application.EventStatusChanged)
	return a, nil
}

func (u *Applications) Events(ctx context.Context, id string) ([]application.Event, error) {
	if u.events == nil {
		return nil, ErrHistoryDisabled
	}
	a, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := u.events.ListByApplication(ctx, a.ID)
	if err != nil {
		u.logf("[Apply] list events application=%s: %v", a.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	return out, nil
}

func (u *Applications) get(ctx context.Context, id string) (application.Application, error) {
	appID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return application.Application{}, ErrApplicationNotFound
	}
	a, err := u.repo.GetByID(ctx, appID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return a, nil
}

// record writes history on a best-effort basis.
func (u *Applications) record(ctx context.Context, a application.Application, kind string) {
	if u.events == nil {
		return
	}
	err := u.events.Insert(ctx, application.Event{
		ApplicationID: a.ID,
		CandidateID:   a.CandidateID,
		Kind:          kind,
		Status:        a.Status,
		CreatedAt:     a.UpdatedAt,
	})
	if err != nil {
		u.logf("[Apply] record %s event failed application=%s: %v", kind, a.ID, err)
	}
}

func (u *Applications) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

var _ ApplicationUsecase = (*Applications)(nil)
