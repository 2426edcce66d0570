package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"livraria/internal/config"
	"livraria/internal/handlers"
	"livraria/internal/logger"
	"livraria/internal/middleware"
	"livraria/internal/repositories"
	"livraria/internal/services"
	"livraria/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.LogLevel)

	// --- Storage ---
	ctx := context.Background()
	store, err := repositories.Open(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.Storage.Driver).Fatal("Failed to open storage")
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.WithError(err).Warn("Error closing storage")
		}
	}()

	// --- Events ---
	// Publishing is optional; without RABBITMQ_URL orders are stored silently.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, event publishing disabled")
		} else {
			publisher = mqClient
			defer mqClient.Close()
		}
	}

	app := newApp(store, publisher, log)

	// --- Start HTTP Server ---
	go func() {
		log.WithField("addr", cfg.AppPort).Info("Starting server")
		if err := app.Listen(cfg.AppPort); err != nil {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	log.Info("Server gracefully stopped")
}

// newApp wires services and handlers over store. publisher may be nil.
func newApp(store *repositories.Store, publisher services.EventPublisher, log *logrus.Logger) *fiber.App {
	bookService := services.NewBookService(store.Books, log)
	userService := services.NewUserService(store.Users)
	orderService := services.NewOrderService(store.Orders, publisher, log)

	app := fiber.New(fiber.Config{AppName: "livraria"})
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${status} - ${latency} ${method} ${path} ${locals:request_id}\n",
		Output: log.Out,
	}))

	handlers.NewHealthHandler(store).RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	handlers.NewBookHandler(bookService, log).RegisterRoutes(apiV1)
	handlers.NewUserHandler(userService, orderService, log).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService, log).RegisterRoutes(apiV1)

	return app
}
