package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-api/internal/application/dto"
)

// HealthHandler responde GET /health. check verifica la base de datos; puede ser nil.
type HealthHandler struct {
	check func(ctx context.Context) error
}

// NewHealthHandler construye el handler.
func NewHealthHandler(check func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{check: check}
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if h.check != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Timestamp: now})
		}
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Timestamp: now})
}
