package handlers

import (
	"livraria/internal/models"
	"livraria/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests for users.
type UserHandler struct {
	users    *services.UserService
	orders   *services.OrderService
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, orders *services.OrderService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		users:    users,
		orders:   orders,
		validate: validator.New(),
		log:      log,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleRegister)
	userRoutes.Get("/", h.HandleGetUserByEmail)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Get("/:id/orders", h.HandleGetUserOrders)
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return invalidBody(c, err)
	}
	user.ID = ""
	if err := h.validate.Struct(user); err != nil {
		return validationFailed(c, err)
	}

	if err := h.users.Register(c.UserContext(), &user); err != nil {
		return serviceError(c, h.log, "Could not register user", err)
	}
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUserByEmail looks a user up by the email query parameter.
func (h *UserHandler) HandleGetUserByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "email query parameter is required",
		})
	}
	user, err := h.users.GetUserByEmail(c.UserContext(), email)
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve user", err)
	}
	return c.JSON(withoutPassword(user))
}

// HandleGetUserByID retrieves a single user by its ID.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.users.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve user", err)
	}
	return c.JSON(withoutPassword(user))
}

// HandleGetUserOrders lists the orders placed by a user.
func (h *UserHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	orders, err := h.orders.GetOrdersByUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return serviceError(c, h.log, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

func withoutPassword(u *models.User) models.User {
	out := *u
	out.Password = ""
	return out
}
