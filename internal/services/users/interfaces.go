package users

import (
	"context"

	"github.com/br00kd0wnt0n/poddit-api/internal/models"
)

// UserRepository defines the interface for user lookups
type UserRepository interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	ListActiveUsers(ctx context.Context) ([]models.User, error)
}
