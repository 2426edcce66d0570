package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"livraria/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db:  db,
		now: time.Now,
	}
}

// Create creates a new order, defaulting its date and status.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) (string, error) {
	order.ApplyDefaults(r.now())
	order.ID = recordID(order.ID)
	record := newOrderRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}
	return order.ID, nil
}

// GetByID retrieves an order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if !validRecordID(id) {
		return nil, nil
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	order := record.model()
	return &order, nil
}

// GetByUser lists the orders placed by userID.
func (r *GORMOrderRepository) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var records []orderRecord
	if err := r.db.WithContext(ctx).Where("id_usuario = ?", userID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	orders := make([]models.Order, 0, len(records))
	for _, record := range records {
		orders = append(orders, record.model())
	}
	return orders, nil
}
