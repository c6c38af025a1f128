package ports

import (
	"context"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

type DepartmentRepository interface {
	List(ctx context.Context) ([]*domain.Department, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, d *domain.Department) (*domain.Department, error)
	Delete(ctx context.Context, id string) error
}
