package handlers

import (
	"livraria/internal/models"
	"livraria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		return invalidBody(c, err)
	}
	order.ID = ""

	if len(order.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "At least one item is required for an order.",
		})
	}
	if err := h.validate.Struct(order); err != nil {
		return validationFailed(c, err)
	}

	if err := h.service.CreateOrder(c.UserContext(), &order); err != nil {
		return serviceError(c, h.log, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}
