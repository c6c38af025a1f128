package ports

import (
	"context"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

// AdminRepository defines the interface for admin account persistence.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	Count(ctx context.Context) (int64, error)
}
