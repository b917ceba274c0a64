package dto

import (
	"smartdash/internal/domain/application"
	"smartdash/internal/domain/job"
)

type ApplyRequest struct {
	CandidateID string    `json:"candidate_id"`
	Jobs        []job.Job `json:"jobs"`
}

type ApplyResponse struct {
	Message      string                    `json:"message"`
	Applications []application.Application `json:"applications"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
