package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"livraria/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOrderRepository is a MongoDB implementation of OrderRepository.
type MongoOrderRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoOrderRepository creates a new instance of MongoOrderRepository.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		coll: db.Collection(ordersCollection),
		now:  time.Now,
	}
}

// Create inserts an order, defaulting its date and status.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) (string, error) {
	order.ApplyDefaults(r.now())
	doc := newOrderDocument(objectIDFor(order.ID), order)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}
	order.ID = doc.ID.Hex()
	return order.ID, nil
}

// GetByID retrieves an order by its ID.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	order := doc.model()
	return &order, nil
}

// GetByUser lists the orders placed by userID.
func (r *MongoOrderRepository) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	cursor, err := r.coll.Find(ctx, bson.D{{Key: "id_usuario", Value: userID}})
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders for user %s: %w", userID, err)
	}
	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.model())
	}
	return orders, nil
}
