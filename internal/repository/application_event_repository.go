package repository

import (
	"context"

	"smartdash/internal/database"
	"smartdash/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationEventRepository interface {
	Insert(ctx context.Context, e application.Event) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]application.Event, error)
}

type PostgresApplicationEventRepository struct {
	db database.DB
}

func NewPostgresApplicationEventRepository(db database.DB) *PostgresApplicationEventRepository {
	return &PostgresApplicationEventRepository{db: db}
}

func (r *PostgresApplicationEventRepository) Insert(ctx context.Context, e application.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO application_events (id, application_id, candidate_id, kind, status, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.ApplicationID, e.CandidateID, e.Kind, string(e.Status), e.Detail, e.CreatedAt,
	)
	return err
}

func (r *PostgresApplicationEventRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]application.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, application_id, candidate_id, kind, status, detail, created_at
		 FROM application_events
		 WHERE application_id = $1
		 ORDER BY created_at ASC, id ASC`,
		applicationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Event, 0)
	for rows.Next() {
		var e application.Event
		var status string
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.CandidateID, &e.Kind, &status, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Status = application.Status(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var _ ApplicationEventRepository = (*PostgresApplicationEventRepository)(nil)
