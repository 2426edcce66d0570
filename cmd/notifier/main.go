// Command notifier consumes the store's domain events and logs them. It is
// the hook point for follow-up work such as confirmation emails.
package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"livraria/internal/catalog"
	"livraria/internal/config"
	"livraria/internal/logger"
	"livraria/internal/services"
	"livraria/pkg/rabbitmq"
)

const queueName = "livraria.notifier"

func main() {
	envFile := pflag.String("env", ".env", "optional .env file to load first")
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.New("info").WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.LogLevel)
	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required")
	}

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize RabbitMQ client")
	}
	defer mqClient.Close()

	keys := []string{services.OrderCreatedEvent, catalog.ReloadedEvent}
	if err := mqClient.Consume(queueName, keys, handleEvent(log)); err != nil {
		log.WithError(err).Fatal("Failed to start consumer")
	}
	log.WithField("queue", queueName).Info("Waiting for events")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Notifier stopped")
}

func handleEvent(log logrus.FieldLogger) func(rabbitmq.Event) error {
	return func(e rabbitmq.Event) error {
		var payload map[string]any
		if err := json.Unmarshal(e.Payload, &payload); err != nil {
			// redelivery cannot fix a bad payload
			log.WithError(err).WithField("event", e.Type).Warn("Ignoring event with unreadable payload")
			return nil
		}
		log.WithFields(logrus.Fields(payload)).WithField("event", e.Type).Info("Event received")
		return nil
	}
}
