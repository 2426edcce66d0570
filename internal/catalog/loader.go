package catalog

import (
	"context"
	"errors"
	"fmt"

	"livraria/internal/models"
	"livraria/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ReloadedEvent is the routing key published after a successful reload.
const ReloadedEvent = "catalog.reloaded"

// EventPublisher sends domain events to a message broker.
type EventPublisher interface {
	PublishEvent(routingKey string, payload any) error
}

// Result summarizes a reload.
type Result struct {
	Previous int64
	Loaded   int
	IDs      []string
}

// Loader replaces the book collection with the contents of a catalog.
type Loader struct {
	books     repositories.BookRepository
	publisher EventPublisher
	log       logrus.FieldLogger
	validate  *validator.Validate
}

// NewLoader creates a Loader. publisher may be nil.
func NewLoader(books repositories.BookRepository, publisher EventPublisher, log logrus.FieldLogger) *Loader {
	return &Loader{
		books:     books,
		publisher: publisher,
		log:       log,
		validate:  validator.New(),
	}
}

// Normalize converts and validates every entry. The first bad entry aborts
// with an error naming its position.
func (l *Loader) Normalize(entries []Entry) ([]models.Book, error) {
	books := make([]models.Book, 0, len(entries))
	for i, entry := range entries {
		book, badDate, err := toBook(entry)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if err := l.validate.Struct(book); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return nil, fmt.Errorf("catalog entry %d: %w: %s failed on %q", i, ErrInvalidField, verrs[0].Field(), verrs[0].Tag())
			}
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if badDate {
			l.log.WithFields(logrus.Fields{
				"entry": i,
				"title": book.Title,
				"value": entry[fieldPublished],
			}).Warn("unparsable publication date, storing none")
		}
		books = append(books, book)
	}
	return books, nil
}

// Reload destructively replaces the whole catalog with entries.
//
// Every entry is validated before storage is touched, so a bad catalog
// leaves the current one intact. The replace itself is not safe to run
// concurrently with other reloads, and readers may see an empty catalog
// while it runs on backends without transactions: run it in a maintenance
// window only.
func (l *Loader) Reload(ctx context.Context, entries []Entry) (*Result, error) {
	books, err := l.Normalize(entries)
	if err != nil {
		return nil, err
	}

	previous, err := l.books.Count(ctx)
	if err != nil {
		return nil, err
	}
	l.log.WithField("books", previous).Info("clearing book collection")
	l.log.WithField("books", len(books)).Info("inserting catalog")

	ids, err := l.books.ReplaceAll(ctx, books)
	if err != nil {
		return nil, fmt.Errorf("failed to reload catalog: %w", err)
	}

	result := &Result{Previous: previous, Loaded: len(ids), IDs: ids}
	l.publish(result)
	return result, nil
}

// ReloadFile reads the catalog at path and reloads it.
func (l *Loader) ReloadFile(ctx context.Context, path string) (*Result, error) {
	entries, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Reload(ctx, entries)
}

func (l *Loader) publish(result *Result) {
	if l.publisher == nil {
		return
	}
	payload := map[string]any{
		"count":    result.Loaded,
		"previous": result.Previous,
	}
	if err := l.publisher.PublishEvent(ReloadedEvent, payload); err != nil {
		l.log.WithError(err).Warn("failed to publish catalog reloaded event")
	}
}
