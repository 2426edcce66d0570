package repositories

import (
	"context"

	"livraria/internal/models"
)

// UserRepository defines the interface for user data access. Email
// uniqueness is not enforced here.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
