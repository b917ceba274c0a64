package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"smartdash/internal/automation"
	"smartdash/internal/domain/application"
	"smartdash/internal/domain/candidate"
	"smartdash/internal/repository"
)

type Actor interface {
	Apply(ctx context.Context, c candidate.Candidate, jobURL string) automation.Outcome
}

type Publisher interface {
	PublishApplication(ctx context.Context, a application.Application) error
}

// Processor runs one apply task end to end and writes the outcome back to
// the application record.
type Processor struct {
	candidates   repository.CandidateRepository
	applications repository.ApplicationRepository
	events       repository.ApplicationEventRepository
	actor        Actor
	publisher    Publisher
	logger       *log.Logger
	now          func() time.Time
}

// NewProcessor accepts nil events and publisher; history and live updates
// are then skipped.
func NewProcessor(
	candidates repository.CandidateRepository,
	applications repository.ApplicationRepository,
	events repository.ApplicationEventRepository,
	actor Actor,
	publisher Publisher,
	logger *log.Logger,
) *Processor {
	return &Processor{
		candidates:   candidates,
		applications: applications,
		events:       events,
		actor:        actor,
		publisher:    publisher,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (p *Processor) Process(ctx context.Context, t application.Task) error {
	c, err := p.candidates.GetByID(ctx, t.CandidateID)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			p.logf("[Worker] candidate %s not found, dropping task application=%s", t.CandidateID, t.ApplicationID)
			return nil
		}
		return err
	}

	a, err := p.applications.GetByID(ctx, t.ApplicationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			p.logf("[Worker] application %s not found, dropping task", t.ApplicationID)
			return nil
		}
		return err
	}

	start := time.Now()
	out := p.actor.Apply(ctx, c, t.JobURL)
	if ctx.Err() != nil {
		// Shutdown mid-run: leave the record alone so redelivery starts clean.
		return ctx.Err()
	}

	a.Status = out.Status
	a.UpdatedAt = p.now()
	a.LastError = nil
	if out.Status != application.StatusSubmitted && out.Reason != "" {
		reason := out.Reason
		a.LastError = &reason
	}
	if err := p.applications.Update(ctx, a); err != nil {
		return err
	}
	p.logf("[Worker] application=%s url=%s status=%s took=%s", a.ID, t.JobURL, a.Status, time.Since(start).Round(time.Millisecond))

	if p.events != nil {
		evt := application.Event{
			ApplicationID: a.ID,
			CandidateID:   a.CandidateID,
			Kind:          application.EventAutomation,
			Status:        a.Status,
			Detail:        a.LastError,
			CreatedAt:     a.UpdatedAt,
		}
		if err := p.events.Insert(ctx, evt); err != nil {
			p.logf("[Worker] record event failed application=%s: %v", a.ID, err)
		}
	}
	if p.publisher != nil {
		if err := p.publisher.PublishApplication(ctx, a); err != nil {
			p.logf("[Worker] publish update failed application=%s: %v", a.ID, err)
		}
	}
	return nil
}

func (p *Processor) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
