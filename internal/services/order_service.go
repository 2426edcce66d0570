package services

import (
	"context"
	"fmt"
	"time"

	"livraria/internal/models"
	"livraria/internal/repositories"

	"github.com/sirupsen/logrus"
)

// OrderCreatedEvent is published after an order is stored.
const OrderCreatedEvent = "order.created"

// OrderService handles business logic related to orders.
type OrderService struct {
	repo      repositories.OrderRepository
	publisher EventPublisher
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewOrderService creates a new OrderService. publisher may be nil, in
// which case no events are sent.
func NewOrderService(repo repositories.OrderRepository, publisher EventPublisher, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// CreateOrder stores a new order. A missing total is computed from the
// items, and the date and status get their defaults.
func (s *OrderService) CreateOrder(ctx context.Context, order *models.Order) error {
	for _, item := range order.Items {
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: negative unit price for book %s", ErrInvalidInput, item.BookID)
		}
	}
	if order.Total.IsZero() {
		order.Total = order.ItemsTotal()
	}
	order.ApplyDefaults(s.now().UTC())

	if _, err := s.repo.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	s.publishCreated(order)
	return nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %q: %w", id, ErrNotFound)
	}
	return order, nil
}

// GetOrdersByUser retrieves every order placed by userID.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) publishCreated(order *models.Order) {
	log := s.log.WithField("order_id", order.ID)
	if s.publisher == nil {
		log.Debug("event publishing disabled, skipping order created event")
		return
	}
	payload := map[string]any{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   order.Status,
		"total":    order.Total,
		"items":    len(order.Items),
	}
	if err := s.publisher.PublishEvent(OrderCreatedEvent, payload); err != nil {
		log.WithError(err).Warn("failed to publish order created event")
	}
}
