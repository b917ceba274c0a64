package handler

import (
	"errors"

	"smartdash/internal/delivery/http/dto"
	"smartdash/internal/delivery/http/middleware"
	"smartdash/internal/pkg/response"
	"smartdash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplyHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplyHandler(uc usecase.ApplicationUsecase) *ApplyHandler {
	return &ApplyHandler{uc: uc}
}

func (h *ApplyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/apply")
	grp.Post("/", h.Apply)
	grp.Get("/applications", h.List)
	grp.Patch("/applications/:id", h.UpdateStatus)
	grp.Get("/applications/:id/events", h.Events)
	grp.Get("/candidates/:candidate_id/applications", h.ListByCandidate)
}

func (h *ApplyHandler) Apply(c fiber.Ctx) error {
	var req dto.ApplyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	jobs := make([]usecase.ApplyJob, 0, len(req.Jobs))
	for _, j := range req.Jobs {
		jobs = append(jobs, usecase.ApplyJob{Title: j.Title, Company: j.Company, URL: j.URL})
	}

	res, err := h.uc.Apply(c.Context(), usecase.ApplyInput{CandidateID: req.CandidateID, Jobs: jobs})
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.ApplyResponse{Message: res.Message, Applications: res.Applications})
}

func (h *ApplyHandler) List(c fiber.Ctx) error {
	items, err := h.uc.List(c.Context())
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, items)
}

func (h *ApplyHandler) ListByCandidate(c fiber.Ctx) error {
	items, err := h.uc.ListByCandidate(c.Context(), c.Params("candidate_id"))
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, items)
}

func (h *ApplyHandler) UpdateStatus(c fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	app, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, app)
}

func (h *ApplyHandler) Events(c fiber.Ctx) error {
	items, err := h.uc.Events(c.Context(), c.Params("id"))
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, items)
}

func mapApplicationUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", err)
	case errors.Is(err, usecase.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status: must be one of Applied, Interview, Offer, Rejected", err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "candidate_id and at least one job with a url are required", err)
	case errors.Is(err, usecase.ErrHistoryDisabled):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Application history is not configured", err)
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Application store unavailable", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
