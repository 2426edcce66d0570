package repositories

import (
	"context"

	"livraria/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) (string, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUser(ctx context.Context, userID string) ([]models.Order, error)
}
