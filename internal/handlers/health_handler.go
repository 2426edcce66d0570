package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports storage reachability.
type HealthHandler struct {
	storage Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(storage Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// RegisterRoutes registers the health route.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth answers 200 when storage answers a ping and 503 otherwise.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	status, code := "healthy", fiber.StatusOK
	storage := "connected"
	if err := h.storage.Ping(ctx); err != nil {
		status, code = "unhealthy", fiber.StatusServiceUnavailable
		storage = err.Error()
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  status,
		"time":    time.Now().Format(time.RFC3339),
		"storage": storage,
	})
}
