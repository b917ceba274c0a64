package handler

import (
	"errors"

	"smartdash/internal/delivery/http/dto"
	"smartdash/internal/delivery/http/middleware"
	"smartdash/internal/pkg/response"
	"smartdash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ResumeHandler struct {
	uc usecase.CandidateUsecase
}

func NewResumeHandler(uc usecase.CandidateUsecase) *ResumeHandler {
	return &ResumeHandler{uc: uc}
}

func (h *ResumeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/resume")
	grp.Get("/", h.List)
	grp.Post("/upload", h.Upload)
	grp.Get("/:id", h.Get)
	grp.Patch("/:id", h.UpdateStatus)
}

func (h *ResumeHandler) Upload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "No file uploaded", err)
	}
	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable upload", err)
	}
	defer f.Close()

	cand, err := h.uc.Upload(c.Context(), usecase.UploadInput{Filename: fh.Filename, Content: f})
	if err != nil {
		return mapCandidateUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, cand)
}

func (h *ResumeHandler) List(c fiber.Ctx) error {
	skip, err := parseQueryIntStrict(c, "skip", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "skip must be an integer", err)
	}
	limit, err := parseQueryIntStrict(c, "limit", usecase.DefaultListLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "limit must be an integer", err)
	}

	items, err := h.uc.List(c.Context(), skip, limit)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, items)
}

func (h *ResumeHandler) Get(c fiber.Ctx) error {
	cand, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return mapCandidateUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, cand)
}

func (h *ResumeHandler) UpdateStatus(c fiber.Ctx) error {
	var req dto.StatusUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	cand, err := h.uc.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, cand)
}

func mapCandidateUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", err)
	case errors.Is(err, usecase.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid status: must be one of Pending, Reviewing, Approved, Rejected", err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "skip must be >= 0 and limit between 1 and 100", err)
	case errors.Is(err, usecase.ErrParseFailed), errors.Is(err, usecase.ErrInternal):
		return middleware.NewAppError(fiber.StatusInternalServerError, err.Error(), err)
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Candidate store unavailable", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
