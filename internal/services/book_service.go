package services

import (
	"context"
	"fmt"

	"livraria/internal/models"
	"livraria/internal/query"
	"livraria/internal/repositories"

	"github.com/sirupsen/logrus"
)

// SearchResult is one page of a book search.
type SearchResult struct {
	Items      []models.Book `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int64         `json:"total_pages"`
}

// BookService handles business logic related to books.
type BookService struct {
	repo repositories.BookRepository
	log  logrus.FieldLogger
}

// NewBookService creates a new BookService.
func NewBookService(repo repositories.BookRepository, log logrus.FieldLogger) *BookService {
	return &BookService{
		repo: repo,
		log:  log,
	}
}

// CreateBook stores a new book and sets its ID.
func (s *BookService) CreateBook(ctx context.Context, book *models.Book) error {
	if book.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	book.ApplyDefaults()
	if _, err := s.repo.Create(ctx, book); err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// GetBook retrieves a single book by its ID.
func (s *BookService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("book %q: %w", id, ErrNotFound)
	}
	return book, nil
}

// ListBooks retrieves every book.
func (s *BookService) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.repo.GetAll(ctx)
}

// SearchBooks parses in and returns the requested page of matches.
func (s *BookService) SearchBooks(ctx context.Context, in query.Input, page query.Page) (*SearchResult, error) {
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	filter := query.Parse(in)
	books, total, err := s.repo.Search(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"filter": filter.String(),
		"page":   page.Number,
		"total":  total,
	}).Debug("book search")

	if books == nil {
		books = []models.Book{}
	}
	return &SearchResult{
		Items:      books,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: page.TotalPages(total),
	}, nil
}

// Categories lists the distinct categories in ascending order.
func (s *BookService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Tags lists the distinct tags, or the default tag set when none are stored.
func (s *BookService) Tags(ctx context.Context) ([]string, error) {
	return s.repo.Tags(ctx)
}
