package users

import (
	"context"

	"github.com/screenwise/screenwise/internal/server/models"
)

// Repository is the credential store consumed by the authentication service.
// Email and username uniqueness is enforced by the database.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
}
