package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"livraria/internal/models"
	"livraria/internal/query"

	"gorm.io/gorm"
)

const insertBatchSize = 100

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// Create creates a new book in the database.
func (r *GORMBookRepository) Create(ctx context.Context, book *models.Book) (string, error) {
	book.ApplyDefaults()
	book.ID = recordID(book.ID)
	record := newBookRecord(book)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to create book: %w", err)
	}
	return book.ID, nil
}

// GetByID retrieves a single book by its ID from the database.
func (r *GORMBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	if !validRecordID(id) {
		return nil, nil
	}
	var record bookRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	book := record.model()
	return &book, nil
}

// GetAll retrieves all books from the database.
func (r *GORMBookRepository) GetAll(ctx context.Context) ([]models.Book, error) {
	var records []bookRecord
	if err := r.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get all books: %w", err)
	}
	return bookModels(records), nil
}

// Search returns one page of matching books and the total match count.
func (r *GORMBookRepository) Search(ctx context.Context, filter query.BookFilter, page query.Page) ([]models.Book, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&bookRecord{}).Scopes(filter.Scope()).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	var records []bookRecord
	err := r.db.WithContext(ctx).
		Scopes(filter.Scope()).
		Offset(int(page.Skip())).
		Limit(int(page.Limit())).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search books: %w", err)
	}
	return bookModels(records), total, nil
}

// Count returns the number of books in the table.
func (r *GORMBookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&bookRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

// Categories lists the distinct categories, sorted.
func (r *GORMBookRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).Model(&bookRecord{}).Distinct().Pluck(query.FieldCategory, &categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return sortedCategories(categories), nil
}

// Tags lists the distinct tags, sorted, falling back to DefaultTags. Tags
// live in a JSON column, so they are collected here rather than in SQL.
func (r *GORMBookRepository) Tags(ctx context.Context) ([]string, error) {
	var records []bookRecord
	if err := r.db.WithContext(ctx).Select(query.FieldTags).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	var tags []string
	for _, record := range records {
		tags = append(tags, record.Tags...)
	}
	return tagsOrDefault(tags), nil
}

// ReplaceAll clears the table and inserts books in one transaction, so a
// failed insert leaves the previous catalog in place.
func (r *GORMBookRepository) ReplaceAll(ctx context.Context, books []models.Book) ([]string, error) {
	records := make([]bookRecord, 0, len(books))
	ids := make([]string, 0, len(books))
	for i := range books {
		books[i].ApplyDefaults()
		books[i].ID = recordID(books[i].ID)
		records = append(records, newBookRecord(&books[i]))
		ids = append(ids, books[i].ID)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&bookRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear books: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&records, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert books: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// backfillTitleSearch fills the lowered title of rows written before the
// column existed.
func backfillTitleSearch(db *gorm.DB) error {
	var records []bookRecord
	err := db.Select("id", query.FieldTitle).
		Where(query.FieldTitleSearch+" = ? OR "+query.FieldTitleSearch+" IS NULL", "").
		Where(query.FieldTitle+" <> ?", "").
		Find(&records).Error
	if err != nil {
		return fmt.Errorf("failed to read titles to backfill: %w", err)
	}
	for _, record := range records {
		err := db.Model(&bookRecord{}).
			Where("id = ?", record.ID).
			Update(query.FieldTitleSearch, strings.ToLower(record.Title)).Error
		if err != nil {
			return fmt.Errorf("failed to backfill title of book %s: %w", record.ID, err)
		}
	}
	return nil
}

func bookModels(records []bookRecord) []models.Book {
	books := make([]models.Book, 0, len(records))
	for _, record := range records {
		books = append(books, record.model())
	}
	return books
}
