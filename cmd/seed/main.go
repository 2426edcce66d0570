// Command seed replaces the book catalog with the contents of a JSON file.
//
// It deletes every stored book before inserting the new ones, so run it
// only while nothing else reads or writes the catalog.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"livraria/internal/catalog"
	"livraria/internal/config"
	"livraria/internal/logger"
	"livraria/internal/repositories"
	"livraria/pkg/rabbitmq"
)

func main() {
	var (
		file            = pflag.StringP("file", "f", "", "catalog JSON file (default CATALOG_PATH)")
		envFile         = pflag.String("env", ".env", "optional .env file to load first")
		normalizeLegacy = pflag.Bool("normalize-legacy", false, "rename legacy title fields on stored books and exit")
	)
	pflag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logger.New("info").WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.LogLevel)

	if err := run(context.Background(), cfg, *file, *normalizeLegacy, log); err != nil {
		log.WithError(err).Error("Seeding failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, file string, normalizeLegacy bool, log *logrus.Logger) error {
	store, err := repositories.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	if normalizeLegacy {
		normalizer, ok := store.Books.(repositories.LegacyFieldNormalizer)
		if !ok {
			return fmt.Errorf("storage driver %s has no legacy fields to normalize", cfg.Storage.Driver)
		}
		renamed, err := normalizer.NormalizeLegacyFields(ctx)
		if err != nil {
			return err
		}
		log.WithField("books", renamed).Info("Legacy title fields normalized")
		return nil
	}

	if file == "" {
		file = cfg.CatalogPath
	}

	var publisher catalog.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			log.WithError(err).Warn("RabbitMQ unavailable, reload event will not be sent")
		} else {
			publisher = mqClient
			defer mqClient.Close()
		}
	}

	loader := catalog.NewLoader(store.Books, publisher, log)
	result, err := loader.ReloadFile(ctx, file)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":     file,
		"previous": result.Previous,
		"loaded":   result.Loaded,
	}).Info("Catalog loaded")
	return nil
}
