package services

import (
	"context"
	"fmt"
	"strings"

	"livraria/internal/models"
	"livraria/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic related to users.
type UserService struct {
	repo repositories.UserRepository
	cost int
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
		cost: bcrypt.DefaultCost,
	}
}

// Register hashes the user's password and stores the user. On success
// user.ID is set and user.Password holds the hash.
func (s *UserService) Register(ctx context.Context, user *models.User) error {
	user.Email = strings.TrimSpace(user.Email)

	existing, err := s.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrEmailTaken, user.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if _, err := s.repo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by exact email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	return user, nil
}
