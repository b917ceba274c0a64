package handler

import (
	"errors"
	"strconv"

	"smartdash/internal/delivery/http/middleware"
	"smartdash/internal/pkg/response"
	"smartdash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	HeaderCache   = "X-Cache"
	HeaderRanking = "X-Ranking"
	HeaderPartial = "X-Partial-Results"
)

type JobsHandler struct {
	uc usecase.JobSearchUsecase
}

func NewJobsHandler(uc usecase.JobSearchUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/jobs/:candidate_id", h.JobsForCandidate)
}

func (h *JobsHandler) JobsForCandidate(c fiber.Ctx) error {
	res, err := h.uc.JobsForCandidate(c.Context(), c.Params("candidate_id"), c.Query("location"))
	if err != nil {
		return mapJobSearchUsecaseError(err)
	}

	c.Set(HeaderCache, string(res.Cache))
	c.Set(HeaderRanking, res.Ranking)
	if res.Partial {
		c.Set(HeaderPartial, "true")
	}
	return response.Success(c, fiber.StatusOK, res.Jobs)
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func mapJobSearchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", err)
	case errors.Is(err, usecase.ErrNoSkills):
		return middleware.NewAppError(fiber.StatusBadRequest, "Candidate has no skills listed", err)
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Candidate store unavailable", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
