package identity

import (
	"context"

	"github.com/marketmesh/marketmesh/internal/models"
)

// UserRepository is the identity service's storage contract. Lookups return
// (nil, nil) when no row matches.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, role *models.Role, limit, offset int) ([]*models.User, error)
	SetLastLogin(ctx context.Context, id string) error
}
