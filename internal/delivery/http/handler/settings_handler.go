package handler

import (
	"errors"

	"smartdash/internal/delivery/http/dto"
	"smartdash/internal/delivery/http/middleware"
	"smartdash/internal/pkg/response"
	"smartdash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SettingsHandler struct {
	uc usecase.SettingsUsecase
}

func NewSettingsHandler(uc usecase.SettingsUsecase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

func (h *SettingsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/settings")
	grp.Get("/", h.Get)
	grp.Post("/", h.Update)
}

func (h *SettingsHandler) Get(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, dto.SettingsResponse{Parser: string(h.uc.ParserPreference())})
}

func (h *SettingsHandler) Update(c fiber.Ctx) error {
	var req dto.SettingsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	kind, err := h.uc.SetParserPreference(c.Context(), req.Parser)
	if err != nil {
		return mapSettingsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, dto.SettingsUpdateResponse{Status: "success", Parser: string(kind)})
}

func mapSettingsUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidParser):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid parser: must be one of pyresparser, docai, gpt-4", err)
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "Failed to save settings due to database error", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, err)
	}
}
