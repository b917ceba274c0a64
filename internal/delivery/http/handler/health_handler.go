package handler

import (
	"smartdash/internal/delivery/http/dto"
	"smartdash/internal/pkg/response"
	"smartdash/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct {
	uc usecase.HealthUsecase
}

func NewHealthHandler(uc usecase.HealthUsecase) *HealthHandler {
	return &HealthHandler{uc: uc}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/ping", h.Ping)
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Ping(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, dto.PingResponse{Pong: true})
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	st := h.uc.Status(c.Context())
	status := fiber.StatusOK
	if !st.Healthy() {
		status = fiber.StatusServiceUnavailable
	}
	return response.Success(c, status, st)
}
