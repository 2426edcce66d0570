package services

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidInput is returned for requests that fail business rules.
	ErrInvalidInput = errors.New("invalid input")
)

// EventPublisher sends domain events to a message broker.
type EventPublisher interface {
	PublishEvent(routingKey string, payload any) error
}
