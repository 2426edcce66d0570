package repositories

import (
	"context"
	"errors"
	"fmt"

	"livraria/internal/models"
	"livraria/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// legacyTitleFields are title field names written by older importers, in
// the order they are migrated.
var legacyTitleFields = []string{"título", "nome"}

// MongoBookRepository is a MongoDB implementation of BookRepository.
type MongoBookRepository struct {
	coll *mongo.Collection
}

// NewMongoBookRepository creates a new instance of MongoBookRepository.
func NewMongoBookRepository(db *mongo.Database) *MongoBookRepository {
	return &MongoBookRepository{
		coll: db.Collection(booksCollection),
	}
}

// Create inserts a book and returns its identifier.
func (r *MongoBookRepository) Create(ctx context.Context, book *models.Book) (string, error) {
	book.ApplyDefaults()
	doc := newBookDocument(objectIDFor(book.ID), book)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create book: %w", err)
	}
	book.ID = doc.ID.Hex()
	return book.ID, nil
}

// GetByID retrieves a single book by its ID.
func (r *MongoBookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc bookDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	book := doc.model()
	return &book, nil
}

// GetAll retrieves every book. Only suitable for small catalogs.
func (r *MongoBookRepository) GetAll(ctx context.Context) ([]models.Book, error) {
	books, err := r.find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all books: %w", err)
	}
	return books, nil
}

// Search returns one page of the books matching filter together with the
// total number of matches.
func (r *MongoBookRepository) Search(ctx context.Context, filter query.BookFilter, page query.Page) ([]models.Book, int64, error) {
	if err := page.Validate(); err != nil {
		return nil, 0, err
	}
	predicate := filter.BSON()

	opts := options.Find().SetSkip(page.Skip()).SetLimit(page.Limit())
	books, err := r.find(ctx, predicate, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search books: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, predicate)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}
	return books, total, nil
}

// Count returns the number of books in the collection.
func (r *MongoBookRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

// Categories lists the distinct categories, sorted.
func (r *MongoBookRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.distinct(ctx, query.FieldCategory)
	if err != nil {
		return nil, err
	}
	return sortedCategories(values), nil
}

// Tags lists the distinct tags, sorted, falling back to DefaultTags.
func (r *MongoBookRepository) Tags(ctx context.Context) ([]string, error) {
	values, err := r.distinct(ctx, query.FieldTags)
	if err != nil {
		return nil, err
	}
	return tagsOrDefault(values), nil
}

// ReplaceAll clears the collection and inserts books. The two steps are
// not atomic: a failed insert leaves the collection empty.
func (r *MongoBookRepository) ReplaceAll(ctx context.Context, books []models.Book) ([]string, error) {
	if _, err := r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return nil, fmt.Errorf("failed to clear books: %w", err)
	}
	if len(books) == 0 {
		return []string{}, nil
	}

	docs := make([]any, 0, len(books))
	ids := make([]string, 0, len(books))
	for i := range books {
		books[i].ApplyDefaults()
		doc := newBookDocument(objectIDFor(books[i].ID), &books[i])
		books[i].ID = doc.ID.Hex()
		docs = append(docs, doc)
		ids = append(ids, books[i].ID)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert books: %w", err)
	}
	return ids, nil
}

// NormalizeLegacyFields renames legacy title fields to the canonical one on
// documents that lack it, and reports how many documents changed. It is a
// one-time migration; queries only ever use the canonical field.
func (r *MongoBookRepository) NormalizeLegacyFields(ctx context.Context) (int64, error) {
	var changed int64
	for _, legacy := range legacyTitleFields {
		filter := bson.D{
			{Key: legacy, Value: bson.D{{Key: "$exists", Value: true}}},
			{Key: query.FieldTitle, Value: bson.D{{Key: "$exists", Value: false}}},
		}
		update := bson.D{{Key: "$rename", Value: bson.D{{Key: legacy, Value: query.FieldTitle}}}}
		res, err := r.coll.UpdateMany(ctx, filter, update)
		if err != nil {
			return changed, fmt.Errorf("failed to rename %q: %w", legacy, err)
		}
		changed += res.ModifiedCount
	}
	return changed, nil
}

func (r *MongoBookRepository) find(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]models.Book, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []bookDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	books := make([]models.Book, 0, len(docs))
	for _, doc := range docs {
		books = append(books, doc.model())
	}
	return books, nil
}

func (r *MongoBookRepository) distinct(ctx context.Context, field string) ([]string, error) {
	raw, err := r.coll.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct %s: %w", field, err)
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			values = append(values, s)
		}
	}
	return values, nil
}
