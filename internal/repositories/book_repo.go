package repositories

import (
	"context"

	"livraria/internal/models"
	"livraria/internal/query"
)

// BookRepository defines the interface for book data access.
//
// Lookups return (nil, nil) when the book does not exist or the identifier
// is not well formed for the backend.
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) (string, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	GetAll(ctx context.Context) ([]models.Book, error)
	Search(ctx context.Context, filter query.BookFilter, page query.Page) ([]models.Book, int64, error)
	Count(ctx context.Context) (int64, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	// ReplaceAll deletes every book and inserts the given batch. Readers
	// may observe an empty catalog while it runs.
	ReplaceAll(ctx context.Context, books []models.Book) ([]string, error)
}

// LegacyFieldNormalizer is implemented by backends whose stored records may
// still carry legacy field names.
type LegacyFieldNormalizer interface {
	NormalizeLegacyFields(ctx context.Context) (int64, error)
}
